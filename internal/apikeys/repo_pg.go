package apikeys

import (
	"context"
	"database/sql"
	"errors"

	"acen-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB db.DBTX
}

func (r *PGRepo) Create(ctx context.Context, key APIKey) (APIKey, error) {
	const query = `
INSERT INTO api_keys (key, description, created_at)
VALUES ($1, $2, now())
RETURNING id, created_at`
	var description any
	if key.Description != "" {
		description = key.Description
	}
	if err := r.DB.QueryRowContext(ctx, query, key.Key, description).Scan(&key.ID, &key.CreatedAt); err != nil {
		return APIKey{}, err
	}
	key.RevokedAt = nil
	return key, nil
}

func (r *PGRepo) List(ctx context.Context) ([]APIKey, error) {
	const query = `
SELECT id, key, description, created_at, revoked_at
FROM api_keys
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []APIKey
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountActive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM api_keys WHERE revoked_at IS NULL`
	var count int
	if err := r.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PGRepo) GetByKey(ctx context.Context, key string) (APIKey, error) {
	const query = `
SELECT id, key, description, created_at, revoked_at
FROM api_keys
WHERE key = $1
LIMIT 1`
	out, err := scanKey(r.DB.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return APIKey{}, ErrNotFound
		}
		return APIKey{}, err
	}
	return out, nil
}

func (r *PGRepo) Revoke(ctx context.Context, id int64) error {
	const query = `
UPDATE api_keys
SET revoked_at = COALESCE(revoked_at, now())
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKey(row rowScanner) (APIKey, error) {
	var key APIKey
	var description sql.NullString
	var revokedAt sql.NullTime
	if err := row.Scan(&key.ID, &key.Key, &description, &key.CreatedAt, &revokedAt); err != nil {
		return APIKey{}, err
	}
	key.Description = description.String
	if revokedAt.Valid {
		t := revokedAt.Time
		key.RevokedAt = &t
	}
	return key, nil
}
