package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ikram98ai/docgram/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (t staticToken) AccessToken() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(zap.NewNop(), srv.URL, 5*time.Second, staticToken("test-token"))
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.Post{})
	})

	_, err := client.Posts(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestPostsDecodesList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("offset"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode([]model.Post{{ID: "p1"}, {ID: "p2"}})
	})

	posts, err := client.Posts(context.Background(), 5, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p1", posts[0].ID)
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"details": "boom"})
	})

	err := client.Like(context.Background(), "p1")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, "boom", statusErr.Details)
}

func TestToggleEndpointsUseExpectedRoutes(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	ctx := context.Background()

	require.NoError(t, client.Like(ctx, "p1"))
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/posts/p1/like", gotPath)

	require.NoError(t, client.Bookmark(ctx, "p1"))
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/posts/p1/bookmark", gotPath)

	require.NoError(t, client.ToggleVisibility(ctx, "p1"))
	assert.Equal(t, "PATCH", gotMethod)
	assert.Equal(t, "/posts/p1/visibility", gotPath)

	require.NoError(t, client.DeleteMessage(ctx, "m1"))
	assert.Equal(t, "DELETE", gotMethod)
	assert.Equal(t, "/posts/messages/m1", gotPath)
}

func TestSendMessageStreamsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/p1/messages", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what is this?", body["query"])

		flusher := w.(http.Flusher)
		for _, chunk := range []string{"Hel", "lo", " world"} {
			w.Write([]byte(chunk))
			flusher.Flush()
			time.Sleep(time.Millisecond)
		}
	})

	stream, err := client.SendMessage(context.Background(), "p1", "what is this?")
	require.NoError(t, err)
	defer stream.Close()

	var content string
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content += chunk
	}

	assert.Equal(t, "Hello world", content)
}

func TestSendMessageNon200FailsBeforeStreaming(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.SendMessage(context.Background(), "p1", "hi")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
}
