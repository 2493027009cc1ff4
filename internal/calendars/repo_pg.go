package calendars

import (
	"context"
	"database/sql"
	"errors"

	"acen-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB db.DBTX
}

func (r *PGRepo) Create(ctx context.Context, cal Calendar) (Calendar, error) {
	const query = `
INSERT INTO calendars (user_id, name, description, created_at)
VALUES ($1, $2, $3, now())
RETURNING id, created_at`
	var description any
	if cal.Description != "" {
		description = cal.Description
	}
	if err := r.DB.QueryRowContext(ctx, query, cal.UserID, cal.Name, description).Scan(&cal.ID, &cal.CreatedAt); err != nil {
		return Calendar{}, err
	}
	return cal, nil
}

func (r *PGRepo) Get(ctx context.Context, id int64) (Calendar, error) {
	const query = `
SELECT id, user_id, name, description, created_at
FROM calendars
WHERE id = $1`
	var cal Calendar
	var description sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&cal.ID, &cal.UserID, &cal.Name, &description, &cal.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Calendar{}, ErrNotFound
		}
		return Calendar{}, err
	}
	cal.Description = description.String
	return cal, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Calendar, error) {
	const query = `
SELECT id, user_id, name, description, created_at
FROM calendars
WHERE user_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Calendar
	for rows.Next() {
		var cal Calendar
		var description sql.NullString
		if err := rows.Scan(&cal.ID, &cal.UserID, &cal.Name, &description, &cal.CreatedAt); err != nil {
			return nil, err
		}
		cal.Description = description.String
		out = append(out, cal)
	}
	return out, rows.Err()
}
