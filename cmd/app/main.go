// Command app is a terminal driver for the Docgram client packages: it logs
// in against the API, browses the cached feed, toggles likes and bookmarks,
// and chats with the document assistant, printing streamed replies as they
// arrive.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ikram98ai/docgram/internal/config"
	"github.com/ikram98ai/docgram/internal/model"
	"github.com/ikram98ai/docgram/internal/repository"
	"github.com/ikram98ai/docgram/internal/repository/apiclient"
	"github.com/ikram98ai/docgram/internal/repository/querycache"
	"github.com/ikram98ai/docgram/internal/service"
	"github.com/ikram98ai/docgram/pkg/auth"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	godotenv.Load()
	initConfig()

	apiCfg := config.API()
	cacheCfg := config.Cache()

	tokens := auth.NewTokenStore()
	if token := os.Getenv("DOCGRAM_TOKEN"); token != "" {
		tokens.Set(token)
	}

	cache, err := querycache.New(logger, cacheCfg.Size, cacheCfg.TTL)
	if err != nil {
		logger.Sugar().Panicf("failed to create query cache: %s", err.Error())
	}

	remote := apiclient.New(logger, apiCfg.Origin, apiCfg.Timeout, tokens)
	repos := repository.New(remote, cache)
	notifier := service.NewLogNotifier(logger)
	services := service.New(logger, repos, notifier, tokens)

	if err := run(ctx, services, cache, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, services *service.Service, cache *querycache.Cache, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "login":
		if len(args) < 3 {
			return fmt.Errorf("usage: login <username> <password>")
		}
		user, err := services.User.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		return printJSON(user)

	case "me":
		user, err := services.User.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(user)

	case "posts":
		posts, err := services.Post.Posts(ctx, 0, 10)
		if err != nil {
			return err
		}
		return printJSON(posts)

	case "feed":
		posts, err := services.Post.Feed(ctx, 0, 10)
		if err != nil {
			return err
		}
		return printJSON(posts)

	case "post":
		if len(args) < 2 {
			return fmt.Errorf("usage: post <postID>")
		}
		post, err := services.Post.FindByID(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(post)

	case "search":
		if len(args) < 2 {
			return fmt.Errorf("usage: search <query>")
		}
		posts, err := services.Post.Search(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return printJSON(posts)

	case "like":
		if len(args) < 2 {
			return fmt.Errorf("usage: like <postID>")
		}
		return services.Post.ToggleLike(ctx, args[1])

	case "bookmark":
		if len(args) < 2 {
			return fmt.Errorf("usage: bookmark <postID>")
		}
		return services.Post.ToggleBookmark(ctx, args[1])

	case "visibility":
		if len(args) < 2 {
			return fmt.Errorf("usage: visibility <postID>")
		}
		return services.Post.ToggleVisibility(ctx, args[1])

	case "comments":
		if len(args) < 2 {
			return fmt.Errorf("usage: comments <postID>")
		}
		comments, err := services.Comment.FindPostComments(ctx, args[1], 0, 20)
		if err != nil {
			return err
		}
		return printJSON(comments)

	case "comment":
		if len(args) < 3 {
			return fmt.Errorf("usage: comment <postID> <text>")
		}
		comment, err := services.Comment.Create(ctx, args[1], strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		return printJSON(comment)

	case "chat":
		if len(args) < 3 {
			return fmt.Errorf("usage: chat <postID> <question>")
		}
		return chat(ctx, services, cache, args[1], strings.Join(args[2:], " "))

	case "history":
		if len(args) < 2 {
			return fmt.Errorf("usage: history <postID>")
		}
		messages, err := services.Chat.History(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(messages)

	case "delete-message":
		if len(args) < 3 {
			return fmt.Errorf("usage: delete-message <postID> <messageID>")
		}
		return services.Chat.DeleteMessage(ctx, args[1], args[2])

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// chat watches the cached thread while the reply streams so the assistant's
// text is printed incrementally, the way a view subscribed to the cache
// would render it.
func chat(ctx context.Context, services *service.Service, cache *querycache.Cache, postID string, question string) error {
	key := querycache.ChatMessagesKey(postID)
	updates := cache.Subscribe(key)
	done := make(chan error, 1)

	go func() {
		done <- services.Chat.SendQuery(ctx, postID, question)
	}()

	printed := 0
	for {
		select {
		case <-updates:
			printed += printAssistantProgress(cache, key, printed)
		case err := <-done:
			printAssistantProgress(cache, key, printed)
			fmt.Println()
			return err
		}
	}
}

// printAssistantProgress prints the not-yet-printed suffix of the streaming
// assistant reply and returns how many bytes it added.
func printAssistantProgress(cache *querycache.Cache, key querycache.Key, printed int) int {
	messages, ok := querycache.GetList[model.ChatMessage](cache, key)
	if !ok || len(messages) == 0 {
		return 0
	}

	last := messages[len(messages)-1]
	if last.Role != model.RoleAssistant || printed >= len(last.Content) {
		return 0
	}

	fmt.Print(last.Content[printed:])
	return len(last.Content) - printed
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func usage() {
	fmt.Println(`docgram client

commands:
  login <username> <password>
  me
  posts | feed | post <id> | search <q>
  like <id> | bookmark <id> | visibility <id>
  comments <id> | comment <id> <text>
  chat <id> <question> | history <id> | delete-message <postID> <messageID>`)
}

func initConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	viper.ReadInConfig()
}
