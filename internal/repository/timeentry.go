package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/worklog/worklog/internal/model"
)

// TaskFilter defines the validated constraints for a user task search.
// Optional fields are nil when the corresponding query parameter was
// absent. Page is >= 1 and Limit is within [1, 100] by the time a
// filter reaches the repository.
type TaskFilter struct {
	UserID    int
	From      *time.Time
	To        *time.Time
	ProjectID *int
	Page      int
	Limit     int
}

// Offset returns the number of rows to skip for the requested page.
func (f TaskFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// TaskRow is one row of the user task search, with the project name
// already joined in. AppliedRate and Amount are read verbatim from the
// frozen columns, never recomputed from rate_assignments.
type TaskRow struct {
	ID              int
	Title           string
	Date            time.Time
	ProjectID       int
	ProjectName     string
	DurationMinutes int
	AppliedRate     decimal.Decimal
	Amount          decimal.Decimal
}

// CreateTimeEntry inserts a time entry and fills in its generated ID.
// AppliedRate and Amount are stored exactly as given; the snapshot
// policy lives in the service layer.
func (r *Repository) CreateTimeEntry(ctx context.Context, entry *model.TimeEntry) error {
	query := `
		INSERT INTO time_entries (user_id, project_id, title, entry_date, duration_minutes, applied_rate, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	err := r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.ProjectID,
		entry.Title,
		entry.Date,
		entry.DurationMinutes,
		entry.AppliedRate,
		entry.Amount,
		entry.CreatedAt,
	).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("failed to create time entry: %w", err)
	}

	return nil
}

// SearchUserTasks runs the filtered, ordered, paginated task search.
// It returns the page window of matching rows and the total count of
// matches ignoring pagination. The count and the fetch are two separate
// reads with no shared snapshot; a concurrent insert between them can
// make the total diverge slightly from the page contents, which is
// accepted for this read endpoint.
func (r *Repository) SearchUserTasks(ctx context.Context, filter TaskFilter) ([]TaskRow, int, error) {
	where, args := buildTaskPredicate(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM time_entries t " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries: %w", err)
	}

	// Tie-break on id keeps the ordering total: rows sharing a date
	// would otherwise have undefined relative order across page fetches.
	query := `
		SELECT t.id, t.title, t.entry_date, t.project_id, p.name, t.duration_minutes, t.applied_rate, t.amount
		FROM time_entries t
		JOIN projects p ON p.id = t.project_id
		` + where + fmt.Sprintf(" ORDER BY t.entry_date DESC, t.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search time entries: %w", err)
	}
	defer rows.Close()

	var tasks []TaskRow
	for rows.Next() {
		var task TaskRow
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Date,
			&task.ProjectID,
			&task.ProjectName,
			&task.DurationMinutes,
			&task.AppliedRate,
			&task.Amount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan time entry: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating time entries: %w", err)
	}

	return tasks, total, nil
}

// buildTaskPredicate builds the WHERE clause shared by the count and
// the windowed fetch, with positional args in a stable order.
func buildTaskPredicate(filter TaskFilter) (string, []any) {
	where := "WHERE t.user_id = $1"
	args := []any{filter.UserID}

	if filter.From != nil {
		where += fmt.Sprintf(" AND t.entry_date >= $%d", len(args)+1)
		args = append(args, *filter.From)
	}

	if filter.To != nil {
		where += fmt.Sprintf(" AND t.entry_date <= $%d", len(args)+1)
		args = append(args, *filter.To)
	}

	if filter.ProjectID != nil {
		where += fmt.Sprintf(" AND t.project_id = $%d", len(args)+1)
		args = append(args, *filter.ProjectID)
	}

	return where, args
}
