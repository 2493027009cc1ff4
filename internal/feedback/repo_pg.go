package feedback

import (
	"context"
	"database/sql"
	"errors"

	"acen-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB db.DBTX
}

func (r *PGRepo) CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error) {
	const query = `
INSERT INTO feedback (date_id, title, summary, category, severity_score, advice, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
RETURNING id, created_at`
	var severity any
	if fb.SeverityScore != nil {
		severity = *fb.SeverityScore
	}
	err := r.DB.QueryRowContext(ctx, query,
		fb.DateID,
		fb.Title,
		nullableString(fb.Summary),
		nullableString(string(fb.Category)),
		severity,
		nullableString(fb.Advice),
	).Scan(&fb.ID, &fb.CreatedAt)
	if err != nil {
		return Feedback{}, err
	}
	fb.Suggestions = nil
	return fb, nil
}

func (r *PGRepo) CreateSuggestion(ctx context.Context, s Suggestion) (Suggestion, error) {
	const query = `
INSERT INTO suggestions (feedback_id, product_id, reason, score, created_at)
VALUES ($1, $2, $3, $4, now())
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		s.FeedbackID,
		s.ProductID,
		nullableString(s.Reason),
		s.Score,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return Suggestion{}, err
	}
	return s, nil
}

func (r *PGRepo) GetFeedback(ctx context.Context, id int64) (Feedback, error) {
	const query = `
SELECT id, date_id, title, summary, category, severity_score, advice, created_at
FROM feedback
WHERE id = $1`
	fb, err := scanFeedback(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Feedback{}, ErrNotFound
		}
		return Feedback{}, err
	}
	fb.Suggestions, err = r.ListSuggestions(ctx, id, 0)
	if err != nil {
		return Feedback{}, err
	}
	return fb, nil
}

func (r *PGRepo) ListByDate(ctx context.Context, dateID int64) ([]Feedback, error) {
	const query = `
SELECT id, date_id, title, summary, category, severity_score, advice, created_at
FROM feedback
WHERE date_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, dateID)
	if err != nil {
		return nil, err
	}
	var out []Feedback
	index := make(map[int64]int)
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		fb.Suggestions = []Suggestion{}
		index[fb.ID] = len(out)
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(out) == 0 {
		return out, nil
	}

	const suggestionQuery = `
SELECT s.id, s.feedback_id, s.product_id, s.reason, s.score, s.created_at
FROM suggestions s
JOIN feedback f ON f.id = s.feedback_id
WHERE f.date_id = $1
ORDER BY s.id`
	sugRows, err := r.DB.QueryContext(ctx, suggestionQuery, dateID)
	if err != nil {
		return nil, err
	}
	defer sugRows.Close()
	for sugRows.Next() {
		s, err := scanSuggestion(sugRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[s.FeedbackID]; ok {
			out[i].Suggestions = append(out[i].Suggestions, s)
		}
	}
	return out, sugRows.Err()
}

func (r *PGRepo) ListSuggestions(ctx context.Context, feedbackID int64, limit int) ([]Suggestion, error) {
	query := `
SELECT id, feedback_id, product_id, reason, score, created_at
FROM suggestions
WHERE feedback_id = $1
ORDER BY id`
	args := []any{feedbackID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Suggestion{}
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedback(row rowScanner) (Feedback, error) {
	var fb Feedback
	var summary, category, advice sql.NullString
	var severity sql.NullFloat64
	if err := row.Scan(&fb.ID, &fb.DateID, &fb.Title, &summary, &category, &severity, &advice, &fb.CreatedAt); err != nil {
		return Feedback{}, err
	}
	fb.Summary = summary.String
	fb.Category = Category(category.String)
	fb.Advice = advice.String
	if severity.Valid {
		v := severity.Float64
		fb.SeverityScore = &v
	}
	return fb, nil
}

func scanSuggestion(row rowScanner) (Suggestion, error) {
	var s Suggestion
	var reason sql.NullString
	var score sql.NullFloat64
	if err := row.Scan(&s.ID, &s.FeedbackID, &s.ProductID, &reason, &score, &s.CreatedAt); err != nil {
		return Suggestion{}, err
	}
	s.Reason = reason.String
	s.Score = score.Float64
	return s, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
