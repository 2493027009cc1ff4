package dates

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"acen-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB db.DBTX
}

const entryColumns = `
d.id, d.calendar_id, d.user_id, d.scheduled_date, d.completion_ratio,
d.schedule_done, d.schedule_total, d.notes, d.template_id, d.created_at,
(SELECT COUNT(*) FROM model_results m WHERE m.date_id = d.id) AS model_count`

func (r *PGRepo) Create(ctx context.Context, entry Entry) (Entry, error) {
	const query = `
INSERT INTO dates (calendar_id, user_id, scheduled_date, completion_ratio, schedule_done, schedule_total, notes, template_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
RETURNING id, created_at`
	entry.ScheduledDate = Day(entry.ScheduledDate)
	err := r.DB.QueryRowContext(ctx, query,
		entry.CalendarID,
		entry.UserID,
		entry.ScheduledDate,
		entry.CompletionRatio,
		entry.ScheduleDone,
		entry.ScheduleTotal,
		nullableString(entry.Notes),
		entry.TemplateID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return Entry{}, err
	}
	entry.ModelResultCount = 0
	entry.FeedbackSeverities = nil
	return entry, nil
}

func (r *PGRepo) Update(ctx context.Context, entry Entry) (Entry, error) {
	const query = `
UPDATE dates
SET completion_ratio = $2, schedule_done = $3, schedule_total = $4, notes = $5, template_id = $6
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.CompletionRatio,
		entry.ScheduleDone,
		entry.ScheduleTotal,
		nullableString(entry.Notes),
		entry.TemplateID,
	)
	if err != nil {
		return Entry{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Entry{}, err
	}
	if affected == 0 {
		return Entry{}, ErrNotFound
	}
	return r.Get(ctx, entry.ID)
}

func (r *PGRepo) Get(ctx context.Context, id int64) (Entry, error) {
	query := `SELECT` + entryColumns + `
FROM dates d
WHERE d.id = $1`
	entry, err := scanEntry(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

func (r *PGRepo) ListByRange(ctx context.Context, calendarID int64, start, end time.Time, userID string) ([]Entry, error) {
	query := `SELECT` + entryColumns + `
FROM dates d
WHERE d.calendar_id = $1
  AND d.scheduled_date >= $2
  AND d.scheduled_date <= $3
  AND d.user_id = $4
ORDER BY d.scheduled_date, d.id`
	start, end = Day(start), Day(end)

	rows, err := r.DB.QueryContext(ctx, query, calendarID, start, end, userID)
	if err != nil {
		return nil, err
	}
	var out []Entry
	index := make(map[int64]int)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[entry.ID] = len(out)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(out) == 0 {
		return out, nil
	}

	const severityQuery = `
SELECT f.date_id, f.severity_score
FROM feedback f
JOIN dates d ON d.id = f.date_id
WHERE d.calendar_id = $1
  AND d.scheduled_date >= $2
  AND d.scheduled_date <= $3
  AND d.user_id = $4
  AND f.severity_score IS NOT NULL
ORDER BY f.id`
	sevRows, err := r.DB.QueryContext(ctx, severityQuery, calendarID, start, end, userID)
	if err != nil {
		return nil, err
	}
	defer sevRows.Close()
	for sevRows.Next() {
		var dateID int64
		var score float64
		if err := sevRows.Scan(&dateID, &score); err != nil {
			return nil, err
		}
		if i, ok := index[dateID]; ok {
			out[i].FeedbackSeverities = append(out[i].FeedbackSeverities, score)
		}
	}
	return out, sevRows.Err()
}

func (r *PGRepo) AddModelResult(ctx context.Context, result ModelResult) (ModelResult, error) {
	const query = `
INSERT INTO model_results (date_id, result_type, label, score, created_at)
VALUES ($1, $2, $3, $4, now())
RETURNING id, created_at`
	var score any
	if result.Score != nil {
		score = *result.Score
	}
	err := r.DB.QueryRowContext(ctx, query,
		result.DateID,
		result.ResultType,
		nullableString(result.Label),
		score,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return ModelResult{}, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var entry Entry
	var notes sql.NullString
	var templateID sql.NullInt64
	err := row.Scan(
		&entry.ID,
		&entry.CalendarID,
		&entry.UserID,
		&entry.ScheduledDate,
		&entry.CompletionRatio,
		&entry.ScheduleDone,
		&entry.ScheduleTotal,
		&notes,
		&templateID,
		&entry.CreatedAt,
		&entry.ModelResultCount,
	)
	if err != nil {
		return Entry{}, err
	}
	entry.ScheduledDate = Day(entry.ScheduledDate)
	entry.Notes = notes.String
	if templateID.Valid {
		entry.TemplateID = &templateID.Int64
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
