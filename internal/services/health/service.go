package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB Pinger
}

// NewService constructs a new health service. A nil db reports in-memory storage.
func NewService(db Pinger) *Service {
	return &Service{DB: db}
}

// Status reports liveness and which storage backend is active.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	if s == nil || s.DB == nil {
		return map[string]any{"ok": true, "storage": "memory"}, true
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return map[string]any{"ok": false, "storage": "postgres", "error": "database unreachable"}, false
	}
	return map[string]any{"ok": true, "storage": "postgres"}, true
}
