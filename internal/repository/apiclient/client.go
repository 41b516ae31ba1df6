// Package apiclient is the HTTP transport to the remote Docgram API. Every
// request carries the bearer credential supplied by the token source; the
// client itself never acquires or refreshes credentials.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TokenSource supplies the bearer credential attached to every request. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken() string
}

type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	origin     string
	tokens     TokenSource
}

func New(logger *zap.Logger, origin string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		logger: logger,
		httpClient: &http.Client{Timeout: timeout},
		origin: origin,
		tokens: tokens,
	}
}

func (c *Client) newRequest(ctx context.Context, method string, path string, body any) (*http.Request, error) {
	var reqBody io.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(bodyJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.origin+path, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// doJSON issues the request and decodes a 2xx response body into out when
// out is non-nil. Non-2xx responses become a *StatusError.
func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		c.logger.Sugar().Errorf("failed to create %s %s request: %s", method, path, err.Error())
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Sugar().Errorf("failed to do %s %s request: %s", method, path, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(method, path, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Sugar().Errorf("failed to decode %s %s response: %s", method, path, err.Error())
		return err
	}

	return nil
}

func (c *Client) statusError(method string, path string, resp *http.Response) error {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		respBody = nil
	}

	details := ""
	var bodyJSON map[string]interface{}
	if err := json.Unmarshal(respBody, &bodyJSON); err == nil {
		details, _ = bodyJSON["details"].(string)
	}
	if details == "" {
		details = http.StatusText(resp.StatusCode)
	}

	c.logger.Sugar().Errorf("ERROR from endpoint(%s %s), code(%d), details: %s", method, path, resp.StatusCode, details)
	return &StatusError{Code: resp.StatusCode, Details: details}
}

// StatusError is a non-2xx response from the remote API.
type StatusError struct {
	Code    int
	Details string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api responded with status %d: %s", e.Code, e.Details)
}
