package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/worklog/worklog/internal/model"
)

// ErrRateNotFound is returned when no rate assignment exists for a
// (user, project) pair.
var ErrRateNotFound = errors.New("rate assignment not found")

// CreateRateAssignment inserts a new rate assignment and fills in its
// generated ID. Existing assignments for the same pair are kept; the
// newest one becomes the effective rate for future entries.
func (r *Repository) CreateRateAssignment(ctx context.Context, assignment *model.RateAssignment) error {
	query := `
		INSERT INTO rate_assignments (user_id, project_id, rate, currency, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	if assignment.Currency == "" {
		assignment.Currency = "EUR"
	}

	err := r.pool.QueryRow(ctx, query,
		assignment.UserID,
		assignment.ProjectID,
		assignment.Rate,
		assignment.Currency,
		assignment.CreatedAt,
	).Scan(&assignment.ID)

	if err != nil {
		return fmt.Errorf("failed to create rate assignment: %w", err)
	}

	return nil
}

// CurrentRate resolves the rate assignment currently effective for a
// (user, project) pair: the most recently created one, with ID as a
// tie-break. Only entry creation consults this; the read path never does.
func (r *Repository) CurrentRate(ctx context.Context, userID, projectID int) (*model.RateAssignment, error) {
	query := `
		SELECT id, user_id, project_id, rate, currency, created_at
		FROM rate_assignments
		WHERE user_id = $1 AND project_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var assignment model.RateAssignment
	err := r.pool.QueryRow(ctx, query, userID, projectID).Scan(
		&assignment.ID,
		&assignment.UserID,
		&assignment.ProjectID,
		&assignment.Rate,
		&assignment.Currency,
		&assignment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRateNotFound
		}
		return nil, fmt.Errorf("failed to get current rate: %w", err)
	}

	return &assignment, nil
}
