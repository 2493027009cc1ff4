package templates

import (
	"sort"
	"time"
)

// Template is a reusable routine: an ordered list of schedules a date entry
// can be based on.
type Template struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Theme       string     `json:"theme,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Schedules   []Schedule `json:"schedules"`
}

// Schedule is one step of a template, ordered by OrderIndex then ID.
type Schedule struct {
	ID          int64     `json:"id"`
	TemplateID  int64     `json:"templateId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"orderIndex"`
	Tags        string    `json:"tags,omitempty"`
	ExtraInfo   string    `json:"extraInfo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ScheduleInput carries the fields accepted when creating a schedule.
type ScheduleInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"orderIndex"`
	Tags        string `json:"tags"`
	ExtraInfo   string `json:"extraInfo"`
}

// SchedulePatch holds optional schedule updates; nil fields are left unchanged.
type SchedulePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"orderIndex"`
	Tags        *string `json:"tags"`
	ExtraInfo   *string `json:"extraInfo"`
}

func (p SchedulePatch) apply(s Schedule) Schedule {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.OrderIndex != nil {
		s.OrderIndex = *p.OrderIndex
	}
	if p.Tags != nil {
		s.Tags = *p.Tags
	}
	if p.ExtraInfo != nil {
		s.ExtraInfo = *p.ExtraInfo
	}
	return s
}

// CreateInput carries a template and its initial schedules.
type CreateInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Theme       string          `json:"theme"`
	Schedules   []ScheduleInput `json:"schedules"`
}

// Patch holds optional template updates. A non-nil Schedules replaces the
// template's schedules wholesale.
type Patch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Theme       *string          `json:"theme"`
	Schedules   *[]ScheduleInput `json:"schedules"`
}

func (p Patch) apply(t Template) Template {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Theme != nil {
		t.Theme = *p.Theme
	}
	return t
}

func sortSchedules(items []Schedule) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].OrderIndex != items[j].OrderIndex {
			return items[i].OrderIndex < items[j].OrderIndex
		}
		return items[i].ID < items[j].ID
	})
}
