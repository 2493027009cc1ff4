package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateInput carries the fields accepted when registering a user.
type CreateInput struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Create registers a user. A blank ID is replaced with a generated UUID.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return s.Repo.Create(ctx, User{
		ID:          id,
		Username:    username,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Email:       strings.TrimSpace(in.Email),
	})
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// Exists satisfies middleware.UserLookup.
func (s *Service) Exists(ctx context.Context, userID string) (bool, error) {
	if s == nil || s.Repo == nil {
		return false, errors.New("users service not configured")
	}
	return s.Repo.Exists(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("users service not configured")
	}
	return s.Repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, userID)
}
