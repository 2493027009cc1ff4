package apikeys

import "context"

type Repo interface {
	Create(ctx context.Context, key APIKey) (APIKey, error)
	List(ctx context.Context) ([]APIKey, error)
	CountActive(ctx context.Context) (int, error)
	GetByKey(ctx context.Context, key string) (APIKey, error)
	Revoke(ctx context.Context, id int64) error
}
