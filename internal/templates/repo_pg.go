package templates

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"acen-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB db.DBTX
}

const (
	templateColumns = `id, name, description, theme, created_at, updated_at`
	scheduleColumns = `id, template_id, title, description, order_index, tags, extra_info, created_at, updated_at`
)

func (r *PGRepo) List(ctx context.Context) ([]Template, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	schedules, err := r.schedules(ctx, `SELECT `+scheduleColumns+` FROM schedules ORDER BY template_id, order_index, id`)
	if err != nil {
		return nil, err
	}
	byTemplate := make(map[int64][]Schedule, len(out))
	for _, s := range schedules {
		byTemplate[s.TemplateID] = append(byTemplate[s.TemplateID], s)
	}
	for i := range out {
		out[i].Schedules = byTemplate[out[i].ID]
		if out[i].Schedules == nil {
			out[i].Schedules = []Schedule{}
		}
	}
	return out, nil
}

func (r *PGRepo) Get(ctx context.Context, id int64) (Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1`
	t, err := scanTemplate(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return r.attach(ctx, t)
}

func (r *PGRepo) Create(ctx context.Context, t Template) (Template, error) {
	const query = `
INSERT INTO templates (name, description, theme, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		t.Name,
		nullableString(t.Description),
		nullableString(t.Theme),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Template{}, err
	}
	t.Schedules = []Schedule{}
	return t, nil
}

func (r *PGRepo) Update(ctx context.Context, t Template) (Template, error) {
	const query = `
UPDATE templates
SET name = $2, description = $3, theme = $4, updated_at = now()
WHERE id = $1
RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		t.ID,
		t.Name,
		nullableString(t.Description),
		nullableString(t.Theme),
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return r.attach(ctx, t)
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.DB, `DELETE FROM templates WHERE id = $1`, ErrNotFound, id)
}

func (r *PGRepo) GetSchedule(ctx context.Context, id int64) (Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	s, err := scanSchedule(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Schedule{}, ErrScheduleNotFound
		}
		return Schedule{}, err
	}
	return s, nil
}

func (r *PGRepo) CreateSchedule(ctx context.Context, s Schedule) (Schedule, error) {
	const query = `
INSERT INTO schedules (template_id, title, description, order_index, tags, extra_info, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		s.TemplateID,
		s.Title,
		nullableString(s.Description),
		s.OrderIndex,
		nullableString(s.Tags),
		nullableString(s.ExtraInfo),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Schedule{}, err
	}
	return s, nil
}

func (r *PGRepo) UpdateSchedule(ctx context.Context, s Schedule) (Schedule, error) {
	const query = `
UPDATE schedules
SET title = $2, description = $3, order_index = $4, tags = $5, extra_info = $6, updated_at = now()
WHERE id = $1
RETURNING template_id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		s.ID,
		s.Title,
		nullableString(s.Description),
		s.OrderIndex,
		nullableString(s.Tags),
		nullableString(s.ExtraInfo),
	).Scan(&s.TemplateID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Schedule{}, ErrScheduleNotFound
		}
		return Schedule{}, err
	}
	return s, nil
}

func (r *PGRepo) DeleteSchedule(ctx context.Context, id int64) error {
	return execOne(ctx, r.DB, `DELETE FROM schedules WHERE id = $1`, ErrScheduleNotFound, id)
}

func (r *PGRepo) ClearSchedules(ctx context.Context, templateID int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM schedules WHERE template_id = $1`, templateID)
	return err
}

func (r *PGRepo) attach(ctx context.Context, t Template) (Template, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE template_id = $1 ORDER BY order_index, id`
	schedules, err := r.schedules(ctx, query, t.ID)
	if err != nil {
		return Template{}, err
	}
	if schedules == nil {
		schedules = []Schedule{}
	}
	t.Schedules = schedules
	return t, nil
}

func (r *PGRepo) schedules(ctx context.Context, query string, args ...any) ([]Schedule, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func execOne(ctx context.Context, conn db.DBTX, query string, missing error, args ...any) error {
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return missing
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (Template, error) {
	var t Template
	var description, theme sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &description, &theme, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Template{}, err
	}
	t.Description = description.String
	t.Theme = theme.String
	return t, nil
}

func scanSchedule(row rowScanner) (Schedule, error) {
	var s Schedule
	var description, tags, extra sql.NullString
	err := row.Scan(
		&s.ID,
		&s.TemplateID,
		&s.Title,
		&description,
		&s.OrderIndex,
		&tags,
		&extra,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return Schedule{}, err
	}
	s.Description = description.String
	s.Tags = tags.String
	s.ExtraInfo = extra.String
	return s, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
