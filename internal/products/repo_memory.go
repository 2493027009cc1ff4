package products

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]Product
	now      func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{products: make(map[int64]Product), now: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, prod Product) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := r.now().UTC()
	prod.ID = r.nextID
	prod.CreatedAt = now
	prod.UpdatedAt = now
	r.products[prod.ID] = prod
	return prod, nil
}

func (r *MemoryRepo) Update(ctx context.Context, prod Product) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[prod.ID]
	if !ok {
		return Product{}, ErrNotFound
	}
	prod.CreatedAt = existing.CreatedAt
	prod.UpdatedAt = r.now().UTC()
	r.products[prod.ID] = prod
	return prod, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	prod, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return prod, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Product, error) {
	return r.filter(ctx, func(Product) bool { return true }, 0)
}

func (r *MemoryRepo) SearchByTag(ctx context.Context, tag string, limit int) ([]Product, error) {
	needle := strings.ToLower(tag)
	return r.filter(ctx, func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Tags), needle)
	}, limit)
}

func (r *MemoryRepo) filter(ctx context.Context, keep func(Product) bool, limit int) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
