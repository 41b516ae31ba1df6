package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ikram98ai/docgram/internal/model"
	"github.com/ikram98ai/docgram/internal/repository"
	"github.com/ikram98ai/docgram/internal/repository/apiclient"
	"github.com/ikram98ai/docgram/internal/repository/querycache"
	"github.com/ikram98ai/docgram/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (n *recordingNotifier) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) count(kind NotificationKind) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, note := range n.notes {
		if note.Kind == kind {
			count++
		}
	}
	return count
}

type testEnv struct {
	services *Service
	cache    *querycache.Cache
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	cache, err := querycache.New(logger, 100, time.Hour)
	require.NoError(t, err)

	tokens := auth.NewTokenStore()
	remote := apiclient.New(logger, srv.URL, 5*time.Second, tokens)
	notifier := &recordingNotifier{}
	services := New(logger, repository.New(remote, cache), notifier, tokens)

	return &testEnv{services: services, cache: cache, notifier: notifier}
}

func testPost(id string) model.Post {
	return model.Post{ID: id, Title: "post " + id, LikesCount: 10, IsPublic: true}
}

func seedPostCaches(cache *querycache.Cache) {
	cache.Set(querycache.PostsKey(0, 10), []model.Post{testPost("p1"), testPost("p2")})
	cache.Set(querycache.FeedKey(0, 10), []model.Post{testPost("p1")})
	cache.Set(querycache.SearchKey("post"), []model.Post{testPost("p1")})
	cache.Set(querycache.PostKey("p1"), testPost("p1"))
}

func okHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
	return mux
}

func failingHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"details": "server unhappy"})
	})
}

func TestToggleLikeUpdatesEveryCachedCopy(t *testing.T) {
	env := newTestEnv(t, okHandler())
	seedPostCaches(env.cache)

	require.NoError(t, env.services.Post.ToggleLike(context.Background(), "p1"))

	posts, ok := querycache.GetList[model.Post](env.cache, querycache.PostsKey(0, 10))
	require.True(t, ok)
	assert.True(t, posts[0].IsLiked)
	assert.Equal(t, int64(11), posts[0].LikesCount)
	// The other post in the same list is untouched.
	assert.False(t, posts[1].IsLiked)
	assert.Equal(t, int64(10), posts[1].LikesCount)

	feed, ok := querycache.GetList[model.Post](env.cache, querycache.FeedKey(0, 10))
	require.True(t, ok)
	assert.True(t, feed[0].IsLiked)
	assert.Equal(t, int64(11), feed[0].LikesCount)

	search, ok := querycache.GetList[model.Post](env.cache, querycache.SearchKey("post"))
	require.True(t, ok)
	assert.True(t, search[0].IsLiked)

	// The single-post query is invalidated so the next read re-synchronizes.
	_, ok = querycache.Get[model.Post](env.cache, querycache.PostKey("p1"))
	assert.False(t, ok)

	assert.Equal(t, 1, env.notifier.count(NOTIFY_SUCCESS))
	assert.Equal(t, 0, env.notifier.count(NOTIFY_ERROR))
}

func TestToggleLikeRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t, failingHandler(http.StatusInternalServerError))
	seedPostCaches(env.cache)

	err := env.services.Post.ToggleLike(context.Background(), "p1")
	require.ErrorIs(t, err, ErrMutationFailed)

	posts, ok := querycache.GetList[model.Post](env.cache, querycache.PostsKey(0, 10))
	require.True(t, ok)
	assert.Equal(t, []model.Post{testPost("p1"), testPost("p2")}, posts)

	feed, ok := querycache.GetList[model.Post](env.cache, querycache.FeedKey(0, 10))
	require.True(t, ok)
	assert.Equal(t, []model.Post{testPost("p1")}, feed)

	post, ok := querycache.Get[model.Post](env.cache, querycache.PostKey("p1"))
	require.True(t, ok)
	assert.Equal(t, testPost("p1"), *post)

	assert.Equal(t, 0, env.notifier.count(NOTIFY_SUCCESS))
	assert.Equal(t, 1, env.notifier.count(NOTIFY_ERROR))
}

func TestToggleLikeRoundTrip(t *testing.T) {
	env := newTestEnv(t, okHandler())
	env.cache.Set(querycache.PostsKey(0, 10), []model.Post{testPost("p1")})

	ctx := context.Background()
	require.NoError(t, env.services.Post.ToggleLike(ctx, "p1"))
	require.NoError(t, env.services.Post.ToggleLike(ctx, "p1"))

	posts, ok := querycache.GetList[model.Post](env.cache, querycache.PostsKey(0, 10))
	require.True(t, ok)
	assert.False(t, posts[0].IsLiked)
	assert.Equal(t, int64(10), posts[0].LikesCount)
}

func TestToggleBookmarkRejectedServerSide(t *testing.T) {
	env := newTestEnv(t, failingHandler(http.StatusInternalServerError))
	env.cache.Set(querycache.PostKey("p1"), testPost("p1"))

	err := env.services.Post.ToggleBookmark(context.Background(), "p1")
	require.ErrorIs(t, err, ErrMutationFailed)

	post, ok := querycache.Get[model.Post](env.cache, querycache.PostKey("p1"))
	require.True(t, ok)
	assert.False(t, post.IsBookmarked)

	assert.Equal(t, 1, env.notifier.count(NOTIFY_ERROR))
	assert.Equal(t, 0, env.notifier.count(NOTIFY_SUCCESS))
}

func TestToggleBookmarkLeavesCountersAlone(t *testing.T) {
	env := newTestEnv(t, okHandler())
	env.cache.Set(querycache.PostsKey(0, 10), []model.Post{testPost("p1")})

	require.NoError(t, env.services.Post.ToggleBookmark(context.Background(), "p1"))

	posts, ok := querycache.GetList[model.Post](env.cache, querycache.PostsKey(0, 10))
	require.True(t, ok)
	assert.True(t, posts[0].IsBookmarked)
	assert.Equal(t, int64(10), posts[0].LikesCount)
	assert.False(t, posts[0].IsLiked)
}

func TestToggleVisibilityFlipsOnlyIsPublic(t *testing.T) {
	env := newTestEnv(t, okHandler())
	env.cache.Set(querycache.PostsKey(0, 10), []model.Post{testPost("p1")})

	require.NoError(t, env.services.Post.ToggleVisibility(context.Background(), "p1"))

	posts, ok := querycache.GetList[model.Post](env.cache, querycache.PostsKey(0, 10))
	require.True(t, ok)
	assert.False(t, posts[0].IsPublic)
	assert.False(t, posts[0].IsLiked)
	assert.False(t, posts[0].IsBookmarked)
	assert.Equal(t, int64(10), posts[0].LikesCount)
}

func TestToggleUncachedPostStillCallsRemote(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	env := newTestEnv(t, handler)

	require.NoError(t, env.services.Post.ToggleLike(context.Background(), "ghost"))
	assert.Equal(t, 1, calls)
	assert.Empty(t, env.cache.Keys())
	assert.Equal(t, 1, env.notifier.count(NOTIFY_SUCCESS))
}

func TestToggleLikeIsAtomicAcrossCachedCopies(t *testing.T) {
	env := newTestEnv(t, okHandler())

	keys := make([]querycache.Key, 0, 64)
	for i := 0; i < 64; i++ {
		key := querycache.PostsKey(i, 10)
		env.cache.Set(key, []model.Post{testPost("p1")})
		keys = append(keys, key)
	}

	// Readers take a consistent two-key cut of the cache while toggles run;
	// a copy toggled in one query and untoggled in another is a torn state
	// no reader may ever observe.
	done := make(chan struct{})
	var torn int64
	var readers sync.WaitGroup
	for r := 0; r < 8; r++ {
		readers.Add(1)
		go func(seed int) {
			defer readers.Done()
			for i := 0; ; i++ {
				select {
				case <-done:
					return
				default:
				}
				a := keys[(seed+i)%len(keys)]
				b := keys[(seed+7*i+1)%len(keys)]
				snap := env.cache.Snapshot([]querycache.Key{a, b})
				postsA, okA := snap[a].([]model.Post)
				postsB, okB := snap[b].([]model.Post)
				if okA && okB && postsA[0].IsLiked != postsB[0].IsLiked {
					atomic.AddInt64(&torn, 1)
				}
			}
		}(r)
	}

	ctx := context.Background()
	for i := 0; i < 200; i++ {
		require.NoError(t, env.services.Post.ToggleLike(ctx, "p1"))
	}
	close(done)
	readers.Wait()

	assert.Zero(t, atomic.LoadInt64(&torn))

	posts, ok := querycache.GetList[model.Post](env.cache, keys[0])
	require.True(t, ok)
	assert.False(t, posts[0].IsLiked)
	assert.Equal(t, int64(10), posts[0].LikesCount)
}

func TestStaleRefetchCannotOverwriteOptimisticWrite(t *testing.T) {
	env := newTestEnv(t, okHandler())
	env.cache.Set(querycache.PostsKey(0, 10), []model.Post{testPost("p1")})

	// A background refetch observed the pre-toggle generation.
	gen := env.cache.Generation()

	require.NoError(t, env.services.Post.ToggleLike(context.Background(), "p1"))

	// The refetch completes late with pre-toggle data and must be dropped.
	stale := []model.Post{testPost("p1")}
	assert.False(t, env.cache.SetIfCurrent(querycache.PostsKey(0, 10), stale, gen))

	posts, ok := querycache.GetList[model.Post](env.cache, querycache.PostsKey(0, 10))
	require.True(t, ok)
	assert.True(t, posts[0].IsLiked)
}
