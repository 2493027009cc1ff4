package products

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
	Brand       string `json:"brand"`
	Tags        string `json:"tags"`
	Description string `json:"description"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	if err := s.ready(); err != nil {
		return Product{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Product{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return s.Repo.Create(ctx, Product{
		Name:        name,
		Brand:       strings.TrimSpace(in.Brand),
		Tags:        strings.TrimSpace(in.Tags),
		Description: strings.TrimSpace(in.Description),
	})
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Product, error) {
	if err := s.ready(); err != nil {
		return Product{}, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return Product{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return s.Repo.Update(ctx, patch.apply(existing))
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if err := s.ready(); err != nil {
		return Product{}, err
	}
	return s.Repo.Get(ctx, id)
}

// List returns every product, or only those matching tag when it is non-empty.
func (s *Service) List(ctx context.Context, tag string) ([]Product, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if tag = strings.TrimSpace(tag); tag != "" {
		return s.Repo.SearchByTag(ctx, tag, 0)
	}
	return s.Repo.List(ctx)
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("products service not configured")
	}
	return nil
}
