package apikeys

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	keys   []APIKey
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, key APIKey) (APIKey, error) {
	if err := ctx.Err(); err != nil {
		return APIKey{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	key.ID = r.nextID
	key.CreatedAt = r.now().UTC()
	key.RevokedAt = nil
	r.keys = append(r.keys, key)
	return key, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]APIKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]APIKey, len(r.keys))
	copy(out, r.keys)
	return out, nil
}

func (r *MemoryRepo) CountActive(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, k := range r.keys {
		if k.Active() {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepo) GetByKey(ctx context.Context, key string) (APIKey, error) {
	if err := ctx.Err(); err != nil {
		return APIKey{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, k := range r.keys {
		if k.Key == key {
			return k, nil
		}
	}
	return APIKey{}, ErrNotFound
}

func (r *MemoryRepo) Revoke(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.keys {
		if r.keys[i].ID != id {
			continue
		}
		if r.keys[i].RevokedAt == nil {
			now := r.now().UTC()
			r.keys[i].RevokedAt = &now
		}
		return nil
	}
	return ErrNotFound
}
