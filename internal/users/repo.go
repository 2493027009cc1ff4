package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidInput  = errors.New("invalid user input")
)

type Repo interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	Exists(ctx context.Context, userID string) (bool, error)
	// List returns every user, oldest first.
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, userID string) error
}
