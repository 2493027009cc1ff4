package calendars

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Calendar, error) {
	if s == nil || s.Repo == nil {
		return Calendar{}, errors.New("calendars service not configured")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Calendar{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return s.Repo.Create(ctx, Calendar{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	})
}

// GetOwned returns the calendar only when it belongs to userID.
func (s *Service) GetOwned(ctx context.Context, id int64, userID string) (Calendar, error) {
	if s == nil || s.Repo == nil {
		return Calendar{}, errors.New("calendars service not configured")
	}
	cal, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Calendar{}, err
	}
	if cal.UserID != userID {
		return Calendar{}, ErrNotFound
	}
	return cal, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Calendar, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("calendars service not configured")
	}
	return s.Repo.ListByUser(ctx, userID)
}
