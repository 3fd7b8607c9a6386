// Command seed-demo-data loads a small demo dataset: two users, two
// projects, their rates and a handful of time entries. Amounts go
// through the same snapshot path the API uses, so the seeded rows are
// indistinguishable from organically created ones.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worklog/worklog/internal/model"
	"github.com/worklog/worklog/internal/repository"
	"github.com/worklog/worklog/internal/service"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := seed(ctx, repo); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}

	fmt.Println("demo data seeded")
}

func seed(ctx context.Context, repo *repository.Repository) error {
	ana, err := ensureUser(ctx, repo, "Ana López", "ana@example.com")
	if err != nil {
		return err
	}
	carlos, err := ensureUser(ctx, repo, "Carlos Pérez", "carlos@example.com")
	if err != nil {
		return err
	}

	portal := &model.Project{Name: "Sales Portal"}
	if err := repo.CreateProject(ctx, portal); err != nil {
		return err
	}
	backoffice := &model.Project{Name: "Internal Backoffice"}
	if err := repo.CreateProject(ctx, backoffice); err != nil {
		return err
	}

	rates := []*model.RateAssignment{
		{UserID: ana.ID, ProjectID: portal.ID, Rate: decimal.RequireFromString("25.00")},
		{UserID: ana.ID, ProjectID: backoffice.ID, Rate: decimal.RequireFromString("30.00")},
		{UserID: carlos.ID, ProjectID: portal.ID, Rate: decimal.RequireFromString("20.00")},
	}
	for _, rate := range rates {
		if err := repo.CreateRateAssignment(ctx, rate); err != nil {
			return err
		}
	}

	svc := service.NewTaskService(repo, nil)

	entries := []service.CreateTimeEntryInput{
		{UserID: ana.ID, ProjectID: portal.ID, Title: "Design review", Date: day(2025, 6, 10), DurationMinutes: 90},
		{UserID: ana.ID, ProjectID: portal.ID, Title: "Client sync", Date: day(2025, 6, 12), DurationMinutes: 60},
		{UserID: ana.ID, ProjectID: backoffice.ID, Title: "Reporting module", Date: day(2025, 6, 14), DurationMinutes: 120},
		{UserID: carlos.ID, ProjectID: portal.ID, Title: "Bug triage", Date: day(2025, 6, 11), DurationMinutes: 45},
	}
	for _, input := range entries {
		if _, err := svc.CreateTimeEntry(ctx, input); err != nil {
			return fmt.Errorf("create %q: %w", input.Title, err)
		}
	}

	return nil
}

func ensureUser(ctx context.Context, repo *repository.Repository, name, email string) (*model.User, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user := &model.User{Name: name, Email: email}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
