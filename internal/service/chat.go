package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ikram98ai/docgram/internal/model"
	"github.com/ikram98ai/docgram/internal/repository"
	"github.com/ikram98ai/docgram/internal/repository/querycache"
	"go.uber.org/zap"
)

type chatService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	notifier Notifier
	locks    *keyLocks
}

func newChatService(logger *zap.Logger, repo *repository.Repository, notifier Notifier) Chat {
	return &chatService{
		logger: logger,
		repo: repo,
		notifier: notifier,
		locks: newKeyLocks(),
	}
}

func (s *chatService) History(ctx context.Context, postID string) ([]model.ChatMessage, error) {
	key := querycache.ChatMessagesKey(postID)
	if cached, ok := querycache.GetList[model.ChatMessage](s.repo.Cache, key); ok {
		return cached, nil
	}

	gen := s.repo.Cache.Generation()
	messages, err := s.repo.Remote.Messages(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to fetch post(%s) messages from remote: %s", postID, err.Error())
		return nil, ErrInternal
	}

	s.repo.Cache.SetIfCurrent(key, messages, gen)
	return messages, nil
}

// SendQuery submits a question about the post and grows the assistant's
// cached reply chunk by chunk as it streams in. The user message and the
// assistant placeholder are appended optimistically and live only until the
// thread is re-fetched.
func (s *chatService) SendQuery(ctx context.Context, postID string, text string) error {
	text = strings.TrimSpace(text)
	if postID == "" || text == "" {
		return ErrValidationRejected
	}

	// One outstanding query per thread; a concurrent call waits rather than
	// interleaving placeholder updates.
	unlock := s.locks.lock(postID)
	defer unlock()

	key := querycache.ChatMessagesKey(postID)
	s.appendMessage(key, model.ChatMessage{
		ID: model.NewPendingID(),
		Role: model.RoleUser,
		Content: text,
		Timestamp: time.Now().UTC(),
	})

	stream, err := s.repo.Remote.SendMessage(ctx, postID, text)
	if err != nil {
		return s.failQuery(ctx, postID, err)
	}
	defer stream.Close()

	placeholder := model.ChatMessage{
		ID: model.NewPendingID(),
		Role: model.RoleAssistant,
		Timestamp: time.Now().UTC(),
	}
	s.appendMessage(key, placeholder)

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s.failQuery(ctx, postID, err)
		}
		s.appendToMessage(key, placeholder.ID, chunk)
	}

	return nil
}

// failQuery discards the optimistic entries by re-fetching the whole thread;
// partially streamed assistant content cannot be rolled back chunk by chunk.
func (s *chatService) failQuery(ctx context.Context, postID string, cause error) error {
	s.logger.Sugar().Errorf("chat request for post(%s) failed: %s", postID, cause.Error())

	key := querycache.ChatMessagesKey(postID)
	s.repo.Cache.Invalidate(key)
	if messages, err := s.repo.Remote.Messages(ctx, postID); err == nil {
		s.repo.Cache.Set(key, messages)
	} else {
		s.logger.Sugar().Errorf("failed to refresh post(%s) messages after chat failure: %s", postID, err.Error())
	}

	s.notifier.Notify(Notification{
		Kind: NOTIFY_ERROR,
		Title: "Error",
		Details: "could not get an assistant reply: " + cause.Error(),
	})
	return fmt.Errorf("%w: %s", ErrChatRequestFailed, cause.Error())
}

// DeleteMessage removes the message from the durable store and re-fetches
// the thread in full; ordering after a server-side delete is not guaranteed
// to match local assumptions, so there is no optimistic removal.
func (s *chatService) DeleteMessage(ctx context.Context, postID string, messageID string) error {
	if err := s.repo.Remote.DeleteMessage(ctx, messageID); err != nil {
		s.logger.Sugar().Errorf("failed to delete message(%s): %s", messageID, err.Error())
		return ErrInternal
	}

	key := querycache.ChatMessagesKey(postID)
	s.repo.Cache.Invalidate(key)
	if messages, err := s.repo.Remote.Messages(ctx, postID); err == nil {
		s.repo.Cache.Set(key, messages)
	} else {
		s.logger.Sugar().Errorf("failed to refresh post(%s) messages after delete: %s", postID, err.Error())
	}

	return nil
}

func (s *chatService) appendMessage(key querycache.Key, message model.ChatMessage) {
	messages, _ := querycache.GetList[model.ChatMessage](s.repo.Cache, key)
	next := make([]model.ChatMessage, 0, len(messages)+1)
	next = append(next, messages...)
	next = append(next, message)
	s.repo.Cache.Set(key, next)
}

// appendToMessage grows the content of one message copy-on-write; no other
// message and no other field changes.
func (s *chatService) appendToMessage(key querycache.Key, id model.MessageID, chunk string) {
	messages, ok := querycache.GetList[model.ChatMessage](s.repo.Cache, key)
	if !ok {
		return
	}

	next := make([]model.ChatMessage, len(messages))
	for i, message := range messages {
		if message.ID == id {
			message.Content += chunk
		}
		next[i] = message
	}
	s.repo.Cache.Set(key, next)
}
