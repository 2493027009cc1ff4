package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"acen-backend/internal/calendars"
	"acen-backend/internal/dates"
	"acen-backend/internal/products"
	"acen-backend/internal/shared/storage/db"
	"acen-backend/internal/templates"
	"acen-backend/internal/users"
)

const demoUserID = "demo"

var demoProducts = []products.CreateInput{
	{Name: "Calm Gel", Brand: "Acen", Tags: "soothing,gel", Description: "Cooling gel for irritated skin"},
	{Name: "Hydra Cream", Brand: "Acen", Tags: "moisturizing,cream", Description: "Barrier cream"},
	{Name: "Daily Balance Toner", Brand: "Acen", Tags: "maintenance,toner", Description: "Everyday toner"},
}

// demoSteps are the schedules of the seeded template; every seeded day
// counts its done steps out of these.
var demoSteps = []templates.ScheduleInput{
	{Title: "Cleanse", OrderIndex: 0, Tags: "gentle"},
	{Title: "Tone", OrderIndex: 1, Tags: "maintenance"},
	{Title: "Treat", OrderIndex: 2, Tags: "soothing"},
	{Title: "Moisturize", OrderIndex: 3, Tags: "moisturizing"},
}

// demoDone cycles the completed step count of each seeded day, out of four.
var demoDone = []int{4, 3, 2, 4, 1, 3, 4}

type seedStores struct {
	Users     users.Repo
	Calendars calendars.Repo
	Dates     dates.Repo
	Products  products.Repo
	Templates templates.Repo
}

type seedSummary struct {
	Skipped    bool
	CalendarID int64
	TemplateID int64
	Dates      int
	Products   int
}

func newSeedCmd(e env) *cobra.Command {
	var (
		days  int
		start string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo user, template, calendar, date entries and products",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := dates.ParseDate(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			return e.withDB(cmd.Context(), func(sqlDB *sql.DB) error {
				var summary seedSummary
				err := db.WithTx(cmd.Context(), sqlDB, func(tx *sql.Tx) error {
					s, err := seedDemo(cmd.Context(), seedStores{
						Users:     &users.PGRepo{DB: tx},
						Calendars: &calendars.PGRepo{DB: tx},
						Dates:     &dates.PGRepo{DB: tx},
						Products:  &products.PGRepo{DB: tx},
						Templates: &templates.PGRepo{DB: tx},
					}, from, days)
					summary = s
					return err
				})
				if err != nil {
					return err
				}
				printSummary(cmd, summary)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 14, "number of consecutive days to log")
	cmd.Flags().StringVar(&start, "start", time.Now().UTC().AddDate(0, 0, -13).Format(dates.DateLayout), "first day, YYYY-MM-DD")
	return cmd
}

func printSummary(cmd *cobra.Command, s seedSummary) {
	if s.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "user %q already exists; nothing seeded\n", demoUserID)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded user=%s template=%d calendar=%d dates=%d products=%d\n",
		demoUserID, s.TemplateID, s.CalendarID, s.Dates, s.Products)
}

// seedDemo is a no-op when the demo user already exists.
func seedDemo(ctx context.Context, st seedStores, from time.Time, days int) (seedSummary, error) {
	if days < 1 {
		return seedSummary{}, fmt.Errorf("days must be at least 1")
	}
	exists, err := st.Users.Exists(ctx, demoUserID)
	if err != nil {
		return seedSummary{}, err
	}
	if exists {
		return seedSummary{Skipped: true}, nil
	}

	if _, err := users.NewService(st.Users).Create(ctx, users.CreateInput{
		ID:          demoUserID,
		Username:    demoUserID,
		DisplayName: "Demo User",
	}); err != nil {
		return seedSummary{}, fmt.Errorf("seed user: %w", err)
	}

	cal, err := calendars.NewService(st.Calendars).Create(ctx, demoUserID, calendars.CreateInput{
		Name:        "Morning routine",
		Description: "Seeded demo calendar",
	})
	if err != nil {
		return seedSummary{}, fmt.Errorf("seed calendar: %w", err)
	}

	tplSvc := templates.NewService(st.Templates)
	tpl, err := tplSvc.Create(ctx, templates.CreateInput{
		Name:      "Four-step morning",
		Theme:     "basic",
		Schedules: demoSteps,
	})
	if err != nil {
		return seedSummary{}, fmt.Errorf("seed template: %w", err)
	}

	dateSvc := dates.NewService(st.Dates, st.Calendars)
	dateSvc.Templates = tplSvc
	for i := 0; i < days; i++ {
		if _, err := dateSvc.Create(ctx, demoUserID, dates.CreateInput{
			CalendarID:    cal.ID,
			ScheduledDate: from.AddDate(0, 0, i).Format(dates.DateLayout),
			ScheduleDone:  demoDone[i%len(demoDone)],
			ScheduleTotal: len(demoSteps),
			TemplateID:    &tpl.ID,
		}); err != nil {
			return seedSummary{}, fmt.Errorf("seed date %d: %w", i, err)
		}
	}

	prodSvc := products.NewService(st.Products)
	for _, in := range demoProducts {
		if _, err := prodSvc.Create(ctx, in); err != nil {
			return seedSummary{}, fmt.Errorf("seed product %s: %w", in.Name, err)
		}
	}

	return seedSummary{CalendarID: cal.ID, TemplateID: tpl.ID, Dates: days, Products: len(demoProducts)}, nil
}
