package health

import (
	"context"
	"errors"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestStatusMemory(t *testing.T) {
	status, ok := NewService(nil).Status(context.Background())
	if !ok || status["storage"] != "memory" {
		t.Fatalf("unexpected status %v ok=%v", status, ok)
	}
}

func TestStatusPostgres(t *testing.T) {
	svc := NewService(pingFunc(func(context.Context) error { return nil }))
	status, ok := svc.Status(context.Background())
	if !ok || status["storage"] != "postgres" {
		t.Fatalf("unexpected status %v ok=%v", status, ok)
	}

	svc = NewService(pingFunc(func(context.Context) error { return errors.New("down") }))
	status, ok = svc.Status(context.Background())
	if ok || status["ok"] != false {
		t.Fatalf("expected unhealthy status, got %v", status)
	}
}
