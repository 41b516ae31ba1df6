package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/ikram98ai/docgram/internal/model"
	"github.com/ikram98ai/docgram/internal/repository/querycache"
)

// The toggle mutations (like, bookmark, visibility) all run the same
// optimistic protocol: rewrite every cached copy of the post before the
// network call, then keep the optimistic state or roll it back verbatim once
// the call settles.

type toggleAction string

const (
	actionLike       toggleAction = "like"
	actionBookmark   toggleAction = "bookmark"
	actionVisibility toggleAction = "visibility"
)

func (s *postService) ToggleLike(ctx context.Context, postID string) error {
	return s.applyToggle(ctx, actionLike, postID)
}

func (s *postService) ToggleBookmark(ctx context.Context, postID string) error {
	return s.applyToggle(ctx, actionBookmark, postID)
}

func (s *postService) ToggleVisibility(ctx context.Context, postID string) error {
	return s.applyToggle(ctx, actionVisibility, postID)
}

func (s *postService) applyToggle(ctx context.Context, action toggleAction, postID string) error {
	// Serialize per (post, action): a second toggle waits for the first to
	// settle before snapshotting, so a late rollback can never clobber a
	// newer optimistic write.
	unlock := s.locks.lock(postID + ":" + string(action))
	defer unlock()

	// In-flight background refetches must not overwrite the optimistic
	// write with stale data.
	s.repo.Cache.CancelRefetches()

	// Every cached copy flips in one critical section: a concurrent reader
	// never sees the post toggled in one query and untoggled in another.
	snapshot := s.repo.Cache.ApplyToEntity(postID, func(value any) any {
		return toggledValue(value, postID, action)
	})

	var err error
	switch action {
	case actionLike:
		err = s.repo.Remote.Like(ctx, postID)
	case actionBookmark:
		err = s.repo.Remote.Bookmark(ctx, postID)
	case actionVisibility:
		err = s.repo.Remote.ToggleVisibility(ctx, postID)
	}

	if err != nil {
		s.repo.Cache.Restore(snapshot)
		s.logger.Sugar().Errorf("failed to toggle %s on post(%s): %s", action, postID, err.Error())
		s.notifier.Notify(Notification{
			Kind: NOTIFY_ERROR,
			Title: "Error",
			Details: fmt.Sprintf("could not update post %s status: %s", action, err.Error()),
		})
		return fmt.Errorf("%w: %s %s: %s", ErrMutationFailed, action, postID, err.Error())
	}

	// The optimistic state stays; the single-post query re-synchronizes
	// with the source of truth on its next read.
	s.repo.Cache.Invalidate(querycache.PostKey(postID))
	s.notifier.Notify(Notification{
		Kind: NOTIFY_SUCCESS,
		Title: "Success",
		Details: fmt.Sprintf("post %s status updated", action),
	})
	return nil
}

// toggledValue maps a cached value to a copy with the toggle applied to the
// post with the given id, leaving everything else untouched. Values it does
// not recognize pass through unchanged.
func toggledValue(value any, postID string, action toggleAction) any {
	switch v := value.(type) {
	case model.Post:
		if v.ID == postID {
			return toggledPost(v, action)
		}
		return v
	case []model.Post:
		posts := make([]model.Post, len(v))
		for i, post := range v {
			if post.ID == postID {
				posts[i] = toggledPost(post, action)
			} else {
				posts[i] = post
			}
		}
		return posts
	default:
		return value
	}
}

func toggledPost(post model.Post, action toggleAction) model.Post {
	switch action {
	case actionLike:
		// The flag and the counter move together, never independently.
		if post.IsLiked {
			post.LikesCount--
		} else {
			post.LikesCount++
		}
		post.IsLiked = !post.IsLiked
	case actionBookmark:
		post.IsBookmarked = !post.IsBookmarked
	case actionVisibility:
		post.IsPublic = !post.IsPublic
	}
	return post
}

// keyLocks hands out one mutex per key, created on first use.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *keyLocks) lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
