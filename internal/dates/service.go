package dates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"acen-backend/internal/calendars"
)

var ErrInvalidRange = errors.New("start must not be after end")

// CalendarStore resolves calendars for ownership checks.
type CalendarStore interface {
	Get(ctx context.Context, id int64) (calendars.Calendar, error)
}

// TemplateChecker reports whether a template exists.
type TemplateChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	Repo      Repo
	Calendars CalendarStore
	// Templates validates template references. Nil skips the check.
	Templates TemplateChecker
}

func NewService(repo Repo, cals CalendarStore) *Service {
	return &Service{Repo: repo, Calendars: cals}
}

type CreateInput struct {
	CalendarID      int64    `json:"calendarId"`
	ScheduledDate   string   `json:"scheduledDate"`
	ScheduleDone    int      `json:"scheduleDone"`
	ScheduleTotal   int      `json:"scheduleTotal"`
	CompletionRatio *float64 `json:"completionRatio"`
	Notes           string   `json:"notes"`
	TemplateID      *int64   `json:"templateId"`
}

// UpdateInput holds optional entry updates. A TemplateID of 0 clears the
// template reference.
type UpdateInput struct {
	ScheduleDone    *int     `json:"scheduleDone"`
	ScheduleTotal   *int     `json:"scheduleTotal"`
	CompletionRatio *float64 `json:"completionRatio"`
	Notes           *string  `json:"notes"`
	TemplateID      *int64   `json:"templateId"`
}

type ModelResultInput struct {
	ResultType string   `json:"resultType"`
	Label      string   `json:"label"`
	Score      *float64 `json:"score"`
}

// Create logs a date entry in a calendar owned by userID.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Entry, error) {
	if err := s.ready(); err != nil {
		return Entry{}, err
	}
	day, err := ParseDate(strings.TrimSpace(in.ScheduledDate))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: scheduledDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	if in.ScheduleDone < 0 || in.ScheduleTotal < 0 {
		return Entry{}, fmt.Errorf("%w: schedule counts must not be negative", ErrInvalidInput)
	}
	ratio, err := resolveRatio(in.ScheduleDone, in.ScheduleTotal, in.CompletionRatio)
	if err != nil {
		return Entry{}, err
	}
	if err := s.checkCalendar(ctx, in.CalendarID, userID); err != nil {
		return Entry{}, err
	}
	if err := s.checkTemplate(ctx, in.TemplateID); err != nil {
		return Entry{}, err
	}
	return s.Repo.Create(ctx, Entry{
		CalendarID:      in.CalendarID,
		UserID:          userID,
		ScheduledDate:   day,
		CompletionRatio: ratio,
		ScheduleDone:    in.ScheduleDone,
		ScheduleTotal:   in.ScheduleTotal,
		Notes:           strings.TrimSpace(in.Notes),
		TemplateID:      in.TemplateID,
	})
}

// Update changes schedule counts or notes; the completion ratio is recomputed from the counts.
func (s *Service) Update(ctx context.Context, userID string, id int64, in UpdateInput) (Entry, error) {
	entry, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return Entry{}, err
	}
	if in.ScheduleDone != nil {
		entry.ScheduleDone = *in.ScheduleDone
	}
	if in.ScheduleTotal != nil {
		entry.ScheduleTotal = *in.ScheduleTotal
	}
	if entry.ScheduleDone < 0 || entry.ScheduleTotal < 0 {
		return Entry{}, fmt.Errorf("%w: schedule counts must not be negative", ErrInvalidInput)
	}
	if in.Notes != nil {
		entry.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.TemplateID != nil {
		if *in.TemplateID == 0 {
			entry.TemplateID = nil
		} else {
			if err := s.checkTemplate(ctx, in.TemplateID); err != nil {
				return Entry{}, err
			}
			entry.TemplateID = in.TemplateID
		}
	}
	if in.ScheduleDone != nil || in.ScheduleTotal != nil || in.CompletionRatio != nil {
		ratio, err := resolveRatio(entry.ScheduleDone, entry.ScheduleTotal, in.CompletionRatio)
		if err != nil {
			return Entry{}, err
		}
		entry.CompletionRatio = ratio
	}
	return s.Repo.Update(ctx, entry)
}

// GetOwned returns the entry only when it belongs to userID.
func (s *Service) GetOwned(ctx context.Context, id int64, userID string) (Entry, error) {
	if err := s.ready(); err != nil {
		return Entry{}, err
	}
	entry, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if entry.UserID != userID {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

func (s *Service) ListByRange(ctx context.Context, userID string, calendarID int64, start, end time.Time) ([]Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	return s.Repo.ListByRange(ctx, calendarID, start, end, userID)
}

// AddModelResult attaches a model output to an entry owned by userID.
func (s *Service) AddModelResult(ctx context.Context, userID string, dateID int64, in ModelResultInput) (ModelResult, error) {
	resultType := strings.TrimSpace(in.ResultType)
	if resultType == "" {
		return ModelResult{}, fmt.Errorf("%w: resultType is required", ErrInvalidInput)
	}
	if _, err := s.GetOwned(ctx, dateID, userID); err != nil {
		return ModelResult{}, err
	}
	return s.Repo.AddModelResult(ctx, ModelResult{
		DateID:     dateID,
		ResultType: resultType,
		Label:      strings.TrimSpace(in.Label),
		Score:      in.Score,
	})
}

func (s *Service) checkCalendar(ctx context.Context, calendarID int64, userID string) error {
	if s.Calendars == nil {
		return nil
	}
	cal, err := s.Calendars.Get(ctx, calendarID)
	if err != nil {
		return err
	}
	if cal.UserID != userID {
		return calendars.ErrNotFound
	}
	return nil
}

func (s *Service) checkTemplate(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if *id <= 0 {
		return fmt.Errorf("%w: templateId must be positive", ErrInvalidInput)
	}
	if s.Templates == nil {
		return nil
	}
	ok, err := s.Templates.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: template %d not found", ErrInvalidInput, *id)
	}
	return nil
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("dates service not configured")
	}
	return nil
}

// resolveRatio derives the ratio from the counts when a total is known,
// otherwise accepts an explicit ratio in [0, 1].
func resolveRatio(done, total int, explicit *float64) (float64, error) {
	if total > 0 {
		return CompletionRatio(done, total), nil
	}
	if explicit == nil {
		return 0, nil
	}
	if *explicit < 0 || *explicit > 1 {
		return 0, fmt.Errorf("%w: completionRatio must be between 0 and 1", ErrInvalidInput)
	}
	return *explicit, nil
}
