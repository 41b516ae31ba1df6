package stubapi_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikram98ai/docgram/internal/model"
	"github.com/ikram98ai/docgram/internal/repository"
	"github.com/ikram98ai/docgram/internal/repository/apiclient"
	"github.com/ikram98ai/docgram/internal/repository/querycache"
	"github.com/ikram98ai/docgram/internal/service"
	"github.com/ikram98ai/docgram/internal/stubapi"
	"github.com/ikram98ai/docgram/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The stub API is exercised through the real client stack, end to end.
func newClientAgainstStub(t *testing.T) (*service.Service, *querycache.Cache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	handler := stubapi.New(logger, stubapi.NewStore(), []byte("test-secret"))
	srv := httptest.NewServer(handler.InitRoutes("http://localhost"))
	t.Cleanup(srv.Close)

	cache, err := querycache.New(logger, 100, time.Hour)
	require.NoError(t, err)

	tokens := auth.NewTokenStore()
	remote := apiclient.New(logger, srv.URL+"/api/v1", 10*time.Second, tokens)
	notifier := service.NewLogNotifier(logger)
	services := service.New(logger, repository.New(remote, cache), notifier, tokens)

	user, err := services.User.Login(context.Background(), "demo", "password")
	require.NoError(t, err)
	require.Equal(t, "demo", user.Username)

	return services, cache
}

func TestStubServesSeededPosts(t *testing.T) {
	services, _ := newClientAgainstStub(t)

	posts, err := services.Post.Posts(context.Background(), 0, 10)
	require.NoError(t, err)
	require.NotEmpty(t, posts)
	assert.NotEmpty(t, posts[0].ID)
	assert.Equal(t, "demo", posts[0].User.Username)
}

func TestLikeToggleRoundTripsThroughStub(t *testing.T) {
	services, _ := newClientAgainstStub(t)
	ctx := context.Background()

	posts, err := services.Post.Posts(ctx, 0, 10)
	require.NoError(t, err)
	target := posts[0]

	require.NoError(t, services.Post.ToggleLike(ctx, target.ID))

	// The single-post key was invalidated, so this read hits the stub.
	updated, err := services.Post.FindByID(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsLiked)
	assert.Equal(t, target.LikesCount+1, updated.LikesCount)

	require.NoError(t, services.Post.ToggleLike(ctx, target.ID))
	reverted, err := services.Post.FindByID(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, reverted.IsLiked)
	assert.Equal(t, target.LikesCount, reverted.LikesCount)
}

func TestChatStreamsThroughStub(t *testing.T) {
	services, cache := newClientAgainstStub(t)
	ctx := context.Background()

	posts, err := services.Post.Posts(ctx, 0, 10)
	require.NoError(t, err)
	postID := posts[0].ID

	require.NoError(t, services.Chat.SendQuery(ctx, postID, "what is this paper about?"))

	messages, ok := querycache.GetList[model.ChatMessage](cache, querycache.ChatMessagesKey(postID))
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
	assert.Contains(t, messages[1].Content, "it can stream")

	// The durable thread matches what was streamed.
	cache.Invalidate(querycache.ChatMessagesKey(postID))
	history, err := services.Chat.History(ctx, postID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, messages[1].Content, history[1].Content)
	assert.False(t, history[1].ID.Pending())
}

func TestDeleteMessageExcludedFromRefetch(t *testing.T) {
	services, cache := newClientAgainstStub(t)
	ctx := context.Background()

	posts, err := services.Post.Posts(ctx, 0, 10)
	require.NoError(t, err)
	postID := posts[0].ID

	require.NoError(t, services.Chat.SendQuery(ctx, postID, "question to delete"))

	// Drop the optimistic entries so history carries server-issued ids.
	cache.Invalidate(querycache.ChatMessagesKey(postID))
	history, err := services.Chat.History(ctx, postID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	doomed := history[0].ID.String()
	require.NoError(t, services.Chat.DeleteMessage(ctx, postID, doomed))

	remaining, err := services.Chat.History(ctx, postID)
	require.NoError(t, err)
	for _, message := range remaining {
		assert.NotEqual(t, doomed, message.ID.String())
	}
}

func TestCommentsRefetchAfterCreate(t *testing.T) {
	services, _ := newClientAgainstStub(t)
	ctx := context.Background()

	posts, err := services.Post.Posts(ctx, 0, 10)
	require.NoError(t, err)
	postID := posts[0].ID

	before, err := services.Comment.FindPostComments(ctx, postID, 0, 20)
	require.NoError(t, err)
	require.Empty(t, before)

	created, err := services.Comment.Create(ctx, postID, "great paper")
	require.NoError(t, err)
	assert.Equal(t, "great paper", created.Content)

	after, err := services.Comment.FindPostComments(ctx, postID, 0, 20)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, created.CommentID, after[0].CommentID)
}
