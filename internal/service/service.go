package service

import (
	"context"

	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
	"github.com/ikram98ai/docgram/internal/repository"
	"go.uber.org/zap"
)

const MAX_LIMIT = 50

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type Post interface {
	Posts(ctx context.Context, offset int, limit int) ([]model.Post, error)
	Feed(ctx context.Context, offset int, limit int) ([]model.Post, error)
	FindByID(ctx context.Context, postID string) (*model.Post, error)
	Search(ctx context.Context, query string) ([]model.Post, error)
	ToggleLike(ctx context.Context, postID string) error
	ToggleBookmark(ctx context.Context, postID string) error
	ToggleVisibility(ctx context.Context, postID string) error
	Edit(ctx context.Context, postID string, req dto.EditPostRequest) (*model.Post, error)
	Delete(ctx context.Context, postID string) error
}

type Comment interface {
	FindPostComments(ctx context.Context, postID string, offset int, limit int) ([]model.Comment, error)
	Create(ctx context.Context, postID string, content string) (*model.Comment, error)
}

type Chat interface {
	History(ctx context.Context, postID string) ([]model.ChatMessage, error)
	SendQuery(ctx context.Context, postID string, text string) error
	DeleteMessage(ctx context.Context, postID string, messageID string) error
}

type User interface {
	Login(ctx context.Context, username string, password string) (*model.User, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error)
	Me(ctx context.Context) (*model.User, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*model.User, error)
	Logout()
}

type Service struct {
	Post
	Comment
	Chat
	User
}

func New(logger *zap.Logger, repo *repository.Repository, notifier Notifier, tokens TokenHolder) *Service {
	return &Service{
		Post: newPostService(logger, repo, notifier),
		Comment: newCommentService(logger, repo),
		Chat: newChatService(logger, repo, notifier),
		User: newUserService(logger, repo, tokens),
	}
}
