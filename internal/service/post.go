package service

import (
	"context"

	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
	"github.com/ikram98ai/docgram/internal/repository"
	"github.com/ikram98ai/docgram/internal/repository/querycache"
	"go.uber.org/zap"
)

type postService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	notifier Notifier
	locks    *keyLocks
}

func newPostService(logger *zap.Logger, repo *repository.Repository, notifier Notifier) Post {
	return &postService{
		logger: logger,
		repo: repo,
		notifier: notifier,
		locks: newKeyLocks(),
	}
}

func (s *postService) Posts(ctx context.Context, offset int, limit int) ([]model.Post, error) {
	maxLimit(&limit)
	return s.listThrough(querycache.PostsKey(offset, limit), func() ([]model.Post, error) {
		return s.repo.Remote.Posts(ctx, offset, limit)
	})
}

func (s *postService) Feed(ctx context.Context, offset int, limit int) ([]model.Post, error) {
	maxLimit(&limit)
	return s.listThrough(querycache.FeedKey(offset, limit), func() ([]model.Post, error) {
		return s.repo.Remote.Feed(ctx, offset, limit)
	})
}

func (s *postService) Search(ctx context.Context, query string) ([]model.Post, error) {
	return s.listThrough(querycache.SearchKey(query), func() ([]model.Post, error) {
		return s.repo.Remote.SearchPosts(ctx, query)
	})
}

// listThrough is the read path for every post list: cache hit wins, a miss
// fetches from the remote and fills the cache unless an optimistic write
// cancelled in-flight refetches in the meantime.
func (s *postService) listThrough(key querycache.Key, fetch func() ([]model.Post, error)) ([]model.Post, error) {
	if cached, ok := querycache.GetList[model.Post](s.repo.Cache, key); ok {
		return cached, nil
	}

	gen := s.repo.Cache.Generation()
	posts, err := fetch()
	if err != nil {
		s.logger.Sugar().Errorf("failed to fetch %s posts from remote: %s", key.Family, err.Error())
		return nil, ErrInternal
	}

	s.repo.Cache.SetIfCurrent(key, posts, gen)
	return posts, nil
}

func (s *postService) FindByID(ctx context.Context, postID string) (*model.Post, error) {
	key := querycache.PostKey(postID)
	if cached, ok := querycache.Get[model.Post](s.repo.Cache, key); ok {
		return cached, nil
	}

	gen := s.repo.Cache.Generation()
	post, err := s.repo.Remote.PostByID(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to fetch post(%s) from remote: %s", postID, err.Error())
		return nil, ErrInternal
	}

	s.repo.Cache.SetIfCurrent(key, *post, gen)
	return post, nil
}

func (s *postService) Edit(ctx context.Context, postID string, req dto.EditPostRequest) (*model.Post, error) {
	post, err := s.repo.Remote.EditPost(ctx, postID, req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to edit post(%s): %s", postID, err.Error())
		return nil, ErrInternal
	}

	s.invalidatePostFamilies(postID)
	return post, nil
}

func (s *postService) Delete(ctx context.Context, postID string) error {
	if err := s.repo.Remote.DeletePost(ctx, postID); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", postID, err.Error())
		return ErrInternal
	}

	s.invalidatePostFamilies(postID)
	return nil
}

func (s *postService) invalidatePostFamilies(postID string) {
	keys := s.repo.Cache.KeysByFamily(querycache.FAMILY_POSTS, querycache.FAMILY_FEED, querycache.FAMILY_SEARCH)
	keys = append(keys, querycache.PostKey(postID))
	s.repo.Cache.Invalidate(keys...)
}
