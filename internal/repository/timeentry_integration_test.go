//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worklog/worklog/internal/model"
	"github.com/worklog/worklog/internal/testutil"
)

// ============================================================================
// Time Entry Repository Integration Tests
// ============================================================================

func TestIntegrationSearchUserTasks_OrderAndJoin(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	fx := seedFixture(ctx, t, repo)

	rows, total, err := repo.SearchUserTasks(ctx, TaskFilter{
		UserID: fx.ana.ID,
		Page:   1,
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("SearchUserTasks failed: %v", err)
	}

	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	// Newest date first, then higher id first on equal dates.
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if cur.Date.After(prev.Date) {
			t.Errorf("rows out of date order at %d: %v before %v", i, prev.Date, cur.Date)
		}
		if cur.Date.Equal(prev.Date) && cur.ID > prev.ID {
			t.Errorf("rows out of id order at %d: %d before %d", i, prev.ID, cur.ID)
		}
	}

	if rows[0].ProjectName == "" {
		t.Error("project name should be joined in")
	}
}

func TestIntegrationSearchUserTasks_FrozenAmounts(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	fx := seedFixture(ctx, t, repo)

	// A new, higher rate must not touch existing rows.
	newRate := testutil.NewTestRate(t, fx.ana.ID, fx.portal.ID, "99.00")
	newRate.CreatedAt = time.Now().UTC().Add(time.Minute)
	if err := repo.CreateRateAssignment(ctx, newRate); err != nil {
		t.Fatalf("CreateRateAssignment failed: %v", err)
	}

	rows, _, err := repo.SearchUserTasks(ctx, TaskFilter{
		UserID: fx.ana.ID,
		Page:   1,
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("SearchUserTasks failed: %v", err)
	}

	for _, row := range rows {
		if row.AppliedRate.Equal(decimal.RequireFromString("99.00")) {
			t.Errorf("row %d picked up the new rate, snapshot broken", row.ID)
		}
	}
}

func TestIntegrationSearchUserTasks_DateRangeInclusive(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	fx := seedFixture(ctx, t, repo)

	from := day(2025, 6, 10)
	to := day(2025, 6, 12)

	rows, total, err := repo.SearchUserTasks(ctx, TaskFilter{
		UserID: fx.ana.ID,
		From:   &from,
		To:     &to,
		Page:   1,
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("SearchUserTasks failed: %v", err)
	}

	// Boundary days are included.
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	for _, row := range rows {
		if row.Date.Before(from) || row.Date.After(to) {
			t.Errorf("row %d date %v outside [%v, %v]", row.ID, row.Date, from, to)
		}
	}
}

func TestIntegrationSearchUserTasks_ProjectFilter(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	fx := seedFixture(ctx, t, repo)

	rows, total, err := repo.SearchUserTasks(ctx, TaskFilter{
		UserID:    fx.ana.ID,
		ProjectID: &fx.backoffice.ID,
		Page:      1,
		Limit:     20,
	})
	if err != nil {
		t.Fatalf("SearchUserTasks failed: %v", err)
	}

	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	for _, row := range rows {
		if row.ProjectID != fx.backoffice.ID {
			t.Errorf("row %d project = %d, want %d", row.ID, row.ProjectID, fx.backoffice.ID)
		}
	}
}

func TestIntegrationSearchUserTasks_WindowBeyondTotal(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	fx := seedFixture(ctx, t, repo)

	rows, total, err := repo.SearchUserTasks(ctx, TaskFilter{
		UserID: fx.ana.ID,
		Page:   50,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("SearchUserTasks failed: %v", err)
	}

	// Count is independent of the requested window.
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestIntegrationGetUserByID_NotFound(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)

	_, err := repo.GetUserByID(ctx, 999999)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationCurrentRate_LatestWins(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	fx := seedFixture(ctx, t, repo)

	later := testutil.NewTestRate(t, fx.ana.ID, fx.portal.ID, "40.00")
	later.CreatedAt = time.Now().UTC().Add(time.Hour)
	if err := repo.CreateRateAssignment(ctx, later); err != nil {
		t.Fatalf("CreateRateAssignment failed: %v", err)
	}

	current, err := repo.CurrentRate(ctx, fx.ana.ID, fx.portal.ID)
	if err != nil {
		t.Fatalf("CurrentRate failed: %v", err)
	}

	if !current.Rate.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("current rate = %s, want 40.00", current.Rate)
	}
}

func TestIntegrationCurrentRate_NotFound(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	fx := seedFixture(ctx, t, repo)

	_, err := repo.CurrentRate(ctx, fx.ana.ID, 999999)
	if !errors.Is(err, ErrRateNotFound) {
		t.Errorf("Expected ErrRateNotFound, got: %v", err)
	}
}

// ============================================================================
// Fixture
// ============================================================================

type coreFixture struct {
	ana        *model.User
	portal     *model.Project
	backoffice *model.Project
}

// seedFixture creates one user with three entries across two projects:
// 2025-06-10 and 2025-06-12 on the portal, 2025-06-14 on the backoffice.
func seedFixture(ctx context.Context, t *testing.T, repo *Repository) coreFixture {
	t.Helper()

	ana := testutil.NewTestUser(t, "Ana Lopez")
	if err := repo.CreateUser(ctx, ana); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	portal := testutil.NewTestProject(t, "Sales Portal")
	if err := repo.CreateProject(ctx, portal); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	backoffice := testutil.NewTestProject(t, "Internal Backoffice")
	if err := repo.CreateProject(ctx, backoffice); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if err := repo.CreateRateAssignment(ctx, testutil.NewTestRate(t, ana.ID, portal.ID, "25.00")); err != nil {
		t.Fatalf("CreateRateAssignment failed: %v", err)
	}
	if err := repo.CreateRateAssignment(ctx, testutil.NewTestRate(t, ana.ID, backoffice.ID, "30.00")); err != nil {
		t.Fatalf("CreateRateAssignment failed: %v", err)
	}

	entries := []*model.TimeEntry{
		{
			UserID:          ana.ID,
			ProjectID:       portal.ID,
			Title:           "Design review",
			Date:            day(2025, 6, 10),
			DurationMinutes: 90,
			AppliedRate:     decimal.RequireFromString("25.00"),
			Amount:          decimal.RequireFromString("37.50"),
		},
		{
			UserID:          ana.ID,
			ProjectID:       portal.ID,
			Title:           "Client sync",
			Date:            day(2025, 6, 12),
			DurationMinutes: 60,
			AppliedRate:     decimal.RequireFromString("25.00"),
			Amount:          decimal.RequireFromString("25.00"),
		},
		{
			UserID:          ana.ID,
			ProjectID:       backoffice.ID,
			Title:           "Reporting module",
			Date:            day(2025, 6, 14),
			DurationMinutes: 120,
			AppliedRate:     decimal.RequireFromString("30.00"),
			Amount:          decimal.RequireFromString("60.00"),
		},
	}
	for _, entry := range entries {
		if err := repo.CreateTimeEntry(ctx, entry); err != nil {
			t.Fatalf("CreateTimeEntry failed: %v", err)
		}
	}

	return coreFixture{ana: ana, portal: portal, backoffice: backoffice}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newCoreTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetCoreSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset core schema: %v", err)
	}

	return ctx, repo
}
