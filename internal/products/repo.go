package products

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidInput = errors.New("invalid product input")
)

type Repo interface {
	Create(ctx context.Context, prod Product) (Product, error)
	Update(ctx context.Context, prod Product) (Product, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context) ([]Product, error)
	// SearchByTag returns products whose tags contain tag, case-insensitively,
	// ascending by id. A positive limit caps the result.
	SearchByTag(ctx context.Context, tag string, limit int) ([]Product, error)
}
