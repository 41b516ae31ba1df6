package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
)

var ErrMissingBody = errors.New("streamed response carries no body")

func (c *Client) Messages(ctx context.Context, postID string) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	if err := c.doJSON(ctx, http.MethodGet, "/posts/"+postID+"/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/messages/"+messageID, nil, nil)
}

// SendMessage opens the streamed chat endpoint. The returned stream is the
// assistant reply as raw text chunks in arrival order; the caller owns it
// and must Close it.
func (c *Client) SendMessage(ctx context.Context, postID string, query string) (*ChatStream, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/posts/"+postID+"/messages", dto.SendMessageRequest{Query: query})
	if err != nil {
		c.logger.Sugar().Errorf("failed to create chat request for post(%s): %s", postID, err.Error())
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Sugar().Errorf("failed to open chat stream for post(%s): %s", postID, err.Error())
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.statusError(http.MethodPost, "/posts/"+postID+"/messages", resp)
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, ErrMissingBody
	}

	return newChatStream(resp.Body), nil
}
