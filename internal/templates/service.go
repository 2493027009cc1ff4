package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"acen-backend/internal/shared/storage/db"
)

const (
	maxNameLen  = 100
	maxThemeLen = 50
	maxTitleLen = 120
	maxTagsLen  = 120
)

// TxFunc runs fn against a Repo bound to one unit of work.
type TxFunc func(ctx context.Context, fn func(Repo) error) error

// PGTx binds PGRepo to a transaction on database.
func PGTx(database *sql.DB) TxFunc {
	return func(ctx context.Context, fn func(Repo) error) error {
		return db.WithTx(ctx, database, func(tx *sql.Tx) error {
			return fn(&PGRepo{DB: tx})
		})
	}
}

// DateDetacher clears the template reference of date entries when a
// template is deleted.
type DateDetacher interface {
	DetachTemplate(ctx context.Context, templateID int64) error
}

type Service struct {
	Repo Repo
	// InTx groups multi-statement writes. Nil runs them directly on Repo.
	InTx TxFunc
	// Dates is notified of deleted templates. Nil when the store does it itself.
	Dates DateDetacher
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Template, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Template, error) {
	if err := s.ready(); err != nil {
		return Template{}, err
	}
	return s.Repo.Get(ctx, id)
}

// Exists reports whether a template with id is stored.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Create stores a template together with its initial schedules.
func (s *Service) Create(ctx context.Context, in CreateInput) (Template, error) {
	if err := s.ready(); err != nil {
		return Template{}, err
	}
	t := Template{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Theme:       strings.TrimSpace(in.Theme),
	}
	if err := validateTemplate(t); err != nil {
		return Template{}, err
	}
	schedules, err := normalizeSchedules(in.Schedules)
	if err != nil {
		return Template{}, err
	}

	var out Template
	err = s.tx(ctx, func(repo Repo) error {
		created, err := repo.Create(ctx, t)
		if err != nil {
			return err
		}
		if err := addSchedules(ctx, repo, created.ID, schedules); err != nil {
			return err
		}
		out, err = repo.Get(ctx, created.ID)
		return err
	})
	if err != nil {
		return Template{}, err
	}
	return out, nil
}

// Update applies patch; a non-nil patch.Schedules replaces every schedule.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Template, error) {
	if err := s.ready(); err != nil {
		return Template{}, err
	}
	var schedules []Schedule
	if patch.Schedules != nil {
		var err error
		if schedules, err = normalizeSchedules(*patch.Schedules); err != nil {
			return Template{}, err
		}
	}

	var out Template
	err := s.tx(ctx, func(repo Repo) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		t := patch.apply(existing)
		t.Name = strings.TrimSpace(t.Name)
		t.Theme = strings.TrimSpace(t.Theme)
		if err := validateTemplate(t); err != nil {
			return err
		}
		if _, err := repo.Update(ctx, t); err != nil {
			return err
		}
		if patch.Schedules != nil {
			if err := repo.ClearSchedules(ctx, id); err != nil {
				return err
			}
			if err := addSchedules(ctx, repo, id, schedules); err != nil {
				return err
			}
		}
		out, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return Template{}, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Dates != nil {
		return s.Dates.DetachTemplate(ctx, id)
	}
	return nil
}

// AddSchedule appends a schedule to template templateID.
func (s *Service) AddSchedule(ctx context.Context, templateID int64, in ScheduleInput) (Schedule, error) {
	if err := s.ready(); err != nil {
		return Schedule{}, err
	}
	sch := normalizeSchedule(in)
	if err := validateSchedule(sch); err != nil {
		return Schedule{}, err
	}
	if _, err := s.Repo.Get(ctx, templateID); err != nil {
		return Schedule{}, err
	}
	sch.TemplateID = templateID
	return s.Repo.CreateSchedule(ctx, sch)
}

// UpdateSchedule patches a schedule that belongs to templateID.
func (s *Service) UpdateSchedule(ctx context.Context, templateID, scheduleID int64, patch SchedulePatch) (Schedule, error) {
	existing, err := s.schedule(ctx, templateID, scheduleID)
	if err != nil {
		return Schedule{}, err
	}
	sch := patch.apply(existing)
	sch.Title = strings.TrimSpace(sch.Title)
	sch.Tags = strings.TrimSpace(sch.Tags)
	if err := validateSchedule(sch); err != nil {
		return Schedule{}, err
	}
	return s.Repo.UpdateSchedule(ctx, sch)
}

// DeleteSchedule removes a schedule that belongs to templateID.
func (s *Service) DeleteSchedule(ctx context.Context, templateID, scheduleID int64) error {
	if _, err := s.schedule(ctx, templateID, scheduleID); err != nil {
		return err
	}
	return s.Repo.DeleteSchedule(ctx, scheduleID)
}

func (s *Service) schedule(ctx context.Context, templateID, scheduleID int64) (Schedule, error) {
	if err := s.ready(); err != nil {
		return Schedule{}, err
	}
	sch, err := s.Repo.GetSchedule(ctx, scheduleID)
	if err != nil {
		return Schedule{}, err
	}
	if sch.TemplateID != templateID {
		return Schedule{}, ErrScheduleNotFound
	}
	return sch, nil
}

func (s *Service) tx(ctx context.Context, fn func(Repo) error) error {
	if s.InTx == nil {
		return fn(s.Repo)
	}
	return s.InTx(ctx, fn)
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("templates service not configured")
	}
	return nil
}

func addSchedules(ctx context.Context, repo Repo, templateID int64, schedules []Schedule) error {
	for _, sch := range schedules {
		sch.TemplateID = templateID
		if _, err := repo.CreateSchedule(ctx, sch); err != nil {
			return err
		}
	}
	return nil
}

func normalizeSchedules(in []ScheduleInput) ([]Schedule, error) {
	out := make([]Schedule, 0, len(in))
	for i, item := range in {
		sch := normalizeSchedule(item)
		if err := validateSchedule(sch); err != nil {
			return nil, fmt.Errorf("schedules[%d]: %w", i, err)
		}
		out = append(out, sch)
	}
	return out, nil
}

func normalizeSchedule(in ScheduleInput) Schedule {
	return Schedule{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		OrderIndex:  in.OrderIndex,
		Tags:        strings.TrimSpace(in.Tags),
		ExtraInfo:   strings.TrimSpace(in.ExtraInfo),
	}
}

func validateTemplate(t Template) error {
	switch {
	case t.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case utf8.RuneCountInString(t.Name) > maxNameLen:
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, maxNameLen)
	case utf8.RuneCountInString(t.Theme) > maxThemeLen:
		return fmt.Errorf("%w: theme must be at most %d characters", ErrInvalidInput, maxThemeLen)
	}
	return nil
}

func validateSchedule(s Schedule) error {
	switch {
	case s.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case utf8.RuneCountInString(s.Title) > maxTitleLen:
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, maxTitleLen)
	case s.OrderIndex < 0:
		return fmt.Errorf("%w: orderIndex must not be negative", ErrInvalidInput)
	case utf8.RuneCountInString(s.Tags) > maxTagsLen:
		return fmt.Errorf("%w: tags must be at most %d characters", ErrInvalidInput, maxTagsLen)
	}
	return nil
}
