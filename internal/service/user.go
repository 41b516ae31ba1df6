package service

import (
	"context"

	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
	"github.com/ikram98ai/docgram/internal/repository"
	"github.com/ikram98ai/docgram/internal/repository/querycache"
	"go.uber.org/zap"
)

// TokenHolder is where the bearer credential obtained on login is kept. The
// service never inspects the token beyond storing and clearing it.
type TokenHolder interface {
	Set(token string)
	Clear()
}

type userService struct {
	logger *zap.Logger
	repo   *repository.Repository
	tokens TokenHolder
}

func newUserService(logger *zap.Logger, repo *repository.Repository, tokens TokenHolder) User {
	return &userService{
		logger: logger,
		repo: repo,
		tokens: tokens,
	}
}

func (s *userService) Login(ctx context.Context, username string, password string) (*model.User, error) {
	auth, err := s.repo.Remote.Login(ctx, username, password)
	if err != nil {
		s.logger.Sugar().Errorf("failed to log in user(%s): %s", username, err.Error())
		return nil, ErrInternal
	}

	s.tokens.Set(auth.AccessToken)
	s.repo.Cache.Set(querycache.ProfileKey(auth.User.UserID), auth.User)
	return &auth.User, nil
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	auth, err := s.repo.Remote.Register(ctx, req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to register user(%s): %s", req.Username, err.Error())
		return nil, ErrInternal
	}

	s.tokens.Set(auth.AccessToken)
	s.repo.Cache.Set(querycache.ProfileKey(auth.User.UserID), auth.User)
	return &auth.User, nil
}

func (s *userService) Me(ctx context.Context) (*model.User, error) {
	user, err := s.repo.Remote.Me(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to fetch current user: %s", err.Error())
		return nil, ErrInternal
	}
	return user, nil
}

func (s *userService) Profile(ctx context.Context, userID string) (*model.User, error) {
	key := querycache.ProfileKey(userID)
	if cached, ok := querycache.Get[model.User](s.repo.Cache, key); ok {
		return cached, nil
	}

	gen := s.repo.Cache.Generation()
	user, err := s.repo.Remote.Profile(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to fetch user(%s) profile: %s", userID, err.Error())
		return nil, ErrInternal
	}

	s.repo.Cache.SetIfCurrent(key, *user, gen)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repo.Remote.UpdateProfile(ctx, req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to update profile: %s", err.Error())
		return nil, ErrInternal
	}

	s.repo.Cache.Set(querycache.ProfileKey(user.UserID), *user)
	return user, nil
}

func (s *userService) Logout() {
	s.tokens.Clear()
}
