package apiclient

import (
	"context"
	"net/http"

	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
)

func (c *Client) Login(ctx context.Context, username string, password string) (*dto.AuthResponse, error) {
	var auth dto.AuthResponse
	req := dto.LoginRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/login", req, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var auth dto.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/register", req, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Profile(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+userID+"/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodPut, "/users/profile", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
