package apikeys

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// KeyLength is the number of characters in a generated key.
const KeyLength = 48

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

type Service struct {
	Repo Repo
	// Generate produces new key material. Defaults to GenerateKey.
	Generate func() (string, error)
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Generate: GenerateKey}
}

// Create issues and stores a new key.
func (s *Service) Create(ctx context.Context, description string) (APIKey, error) {
	if s == nil || s.Repo == nil {
		return APIKey{}, errors.New("apikeys service not configured")
	}
	gen := s.Generate
	if gen == nil {
		gen = GenerateKey
	}
	raw, err := gen()
	if err != nil {
		return APIKey{}, fmt.Errorf("generate api key: %w", err)
	}
	return s.Repo.Create(ctx, APIKey{Key: raw, Description: strings.TrimSpace(description)})
}

func (s *Service) List(ctx context.Context) ([]APIKey, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("apikeys service not configured")
	}
	return s.Repo.List(ctx)
}

func (s *Service) Revoke(ctx context.Context, id int64) error {
	if s == nil || s.Repo == nil {
		return errors.New("apikeys service not configured")
	}
	return s.Repo.Revoke(ctx, id)
}

// Check validates a presented key. While no active key exists every caller is allowed.
func (s *Service) Check(ctx context.Context, key string) error {
	if s == nil || s.Repo == nil {
		return errors.New("apikeys service not configured")
	}
	active, err := s.Repo.CountActive(ctx)
	if err != nil {
		return fmt.Errorf("count active api keys: %w", err)
	}
	if active == 0 {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingKey
	}
	stored, err := s.Repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidKey
		}
		return fmt.Errorf("lookup api key: %w", err)
	}
	if !stored.Active() {
		return ErrInvalidKey
	}
	return nil
}

// GenerateKey returns KeyLength random alphanumeric characters.
func GenerateKey() (string, error) {
	var b strings.Builder
	b.Grow(KeyLength)
	max := big.NewInt(int64(len(keyAlphabet)))
	for i := 0; i < KeyLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(keyAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Mask hides all but the first four characters of a key.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}
