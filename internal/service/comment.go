package service

import (
	"context"

	"github.com/ikram98ai/docgram/internal/model"
	"github.com/ikram98ai/docgram/internal/repository"
	"github.com/ikram98ai/docgram/internal/repository/querycache"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newCommentService(logger *zap.Logger, repo *repository.Repository) Comment {
	return &commentService{
		logger: logger,
		repo: repo,
	}
}

func (s *commentService) FindPostComments(ctx context.Context, postID string, offset int, limit int) ([]model.Comment, error) {
	maxLimit(&limit)

	key := querycache.CommentsKey(postID, offset, limit)
	if cached, ok := querycache.GetList[model.Comment](s.repo.Cache, key); ok {
		return cached, nil
	}

	gen := s.repo.Cache.Generation()
	comments, err := s.repo.Remote.Comments(ctx, postID, offset, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to fetch post(%s) comments from remote: %s", postID, err.Error())
		return nil, ErrInternal
	}

	s.repo.Cache.SetIfCurrent(key, comments, gen)
	return comments, nil
}

// Create submits the comment directly; comments are never written
// optimistically, the cached lists are dropped and re-fetched in full on
// the next read.
func (s *commentService) Create(ctx context.Context, postID string, content string) (*model.Comment, error) {
	comment, err := s.repo.Remote.CreateComment(ctx, postID, content)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create comment on post(%s): %s", postID, err.Error())
		return nil, ErrInternal
	}

	var commentKeys []querycache.Key
	for _, key := range s.repo.Cache.KeysByFamily(querycache.FAMILY_COMMENTS) {
		if key.PostID == postID {
			commentKeys = append(commentKeys, key)
		}
	}
	s.repo.Cache.Invalidate(commentKeys...)

	return comment, nil
}
