package feedback

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"acen-backend/internal/calendars"
	"acen-backend/internal/dates"
	"acen-backend/internal/evaluator"
	"acen-backend/internal/products"
	"acen-backend/internal/shared/storage/db"
)

// ProductSearcher finds catalog products by tag substring.
type ProductSearcher interface {
	SearchByTag(ctx context.Context, tag string, limit int) ([]products.Product, error)
}

// Stores are the collaborators a generation call reads and writes,
// all bound to the same unit of work.
type Stores struct {
	Calendars evaluator.CalendarStore
	Dates     evaluator.EntryStore
	Products  ProductSearcher
	Feedback  Repo
}

// TxRunner runs fn in one unit of work. When fn returns an error nothing it
// wrote is kept and the error is returned unchanged.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Stores) error) error
}

// PGTxRunner binds Postgres repos to a single transaction.
type PGTxRunner struct {
	DB *sql.DB
}

func (r *PGTxRunner) InTx(ctx context.Context, fn func(Stores) error) error {
	if r == nil || r.DB == nil {
		return errors.New("feedback tx runner not configured")
	}
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		return fn(Stores{
			Calendars: &calendars.PGRepo{DB: tx},
			Dates:     &dates.PGRepo{DB: tx},
			Products:  &products.PGRepo{DB: tx},
			Feedback:  &PGRepo{DB: tx},
		})
	})
}

// MemoryTxRunner serializes generation calls over in-memory repos. Feedback
// writes go to a staged copy that replaces the shared repo only when fn
// succeeds, so readers of the shared repo never see uncommitted rows.
// Writes made to the shared repo outside InTx while a call is running are
// overwritten at commit.
type MemoryTxRunner struct {
	mu       sync.Mutex
	stores   Stores
	feedback *MemoryRepo

	// wrap decorates the staged repo handed to fn. Nil hands it over as is.
	wrap func(*MemoryRepo) Repo
}

func NewMemoryTxRunner(cals evaluator.CalendarStore, entries evaluator.EntryStore, prods ProductSearcher, fb *MemoryRepo) *MemoryTxRunner {
	return &MemoryTxRunner{
		stores: Stores{
			Calendars: cals,
			Dates:     entries,
			Products:  prods,
		},
		feedback: fb,
	}
}

func (r *MemoryTxRunner) InTx(ctx context.Context, fn func(Stores) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := r.feedback.stage()
	st := r.stores
	st.Feedback = staged
	if r.wrap != nil {
		st.Feedback = r.wrap(staged)
	}
	if err := fn(st); err != nil {
		return err
	}
	r.feedback.restore(staged.snapshot())
	return nil
}
