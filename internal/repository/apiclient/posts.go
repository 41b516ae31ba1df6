package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
)

func (c *Client) Posts(ctx context.Context, offset int, limit int) ([]model.Post, error) {
	var posts []model.Post
	path := fmt.Sprintf("/posts?offset=%d&limit=%d", offset, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) Feed(ctx context.Context, offset int, limit int) ([]model.Post, error) {
	var posts []model.Post
	path := fmt.Sprintf("/posts/feed?offset=%d&limit=%d", offset, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) PostByID(ctx context.Context, postID string) (*model.Post, error) {
	var post model.Post
	if err := c.doJSON(ctx, http.MethodGet, "/posts/"+postID, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) SearchPosts(ctx context.Context, query string) ([]model.Post, error) {
	var posts []model.Post
	path := "/posts/search?q=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// The toggle endpoints carry no body; the post id in the path is the whole
// request. The response is an acknowledgement and is discarded, the
// authoritative entity is re-read through invalidation.
func (c *Client) Like(ctx context.Context, postID string) error {
	return c.doJSON(ctx, http.MethodPost, "/posts/"+postID+"/like", nil, nil)
}

func (c *Client) Bookmark(ctx context.Context, postID string) error {
	return c.doJSON(ctx, http.MethodPost, "/posts/"+postID+"/bookmark", nil, nil)
}

func (c *Client) ToggleVisibility(ctx context.Context, postID string) error {
	return c.doJSON(ctx, http.MethodPatch, "/posts/"+postID+"/visibility", nil, nil)
}

func (c *Client) EditPost(ctx context.Context, postID string, req dto.EditPostRequest) (*model.Post, error) {
	var post model.Post
	if err := c.doJSON(ctx, http.MethodPut, "/posts/"+postID, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+postID, nil, nil)
}

func (c *Client) Comments(ctx context.Context, postID string, offset int, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	path := fmt.Sprintf("/posts/%s/comments?offset=%d&limit=%d", postID, offset, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, postID string, content string) (*model.Comment, error) {
	var comment model.Comment
	req := dto.CreateCommentRequest{Content: content}
	if err := c.doJSON(ctx, http.MethodPost, "/posts/"+postID+"/comments", req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
