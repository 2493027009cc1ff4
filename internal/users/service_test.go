package users

import (
	"context"
	"errors"
	"testing"
)

func TestServiceCreateGeneratesID(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	user, err := svc.Create(context.Background(), CreateInput{Username: "  mina  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.Username != "mina" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}

	ok, err := svc.Exists(context.Background(), user.ID)
	if err != nil || !ok {
		t.Fatalf("expected user to exist, got %v %v", ok, err)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Create(context.Background(), CreateInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceCreateRejectsDuplicateUsername(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Create(context.Background(), CreateInput{ID: "u1", Username: "mina"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{ID: "u2", Username: "MINA"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestServiceGetByIDUnknown(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.GetByID(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceListAndDelete(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	for _, in := range []CreateInput{{ID: "u1", Username: "mina"}, {ID: "u2", Username: "jun"}} {
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != "u1" || all[1].ID != "u2" {
		t.Fatalf("unexpected users: %+v", all)
	}

	if err := svc.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), " "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank id, got %v", err)
	}
	if ok, _ := svc.Exists(context.Background(), "u1"); ok {
		t.Fatalf("expected u1 to be gone")
	}
}
