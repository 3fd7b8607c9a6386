package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/worklog/worklog/internal/model"
)

// ErrProjectNotFound is returned when a project ID resolves to no row.
var ErrProjectNotFound = errors.New("project not found")

// CreateProject inserts a new project and fills in its generated ID.
func (r *Repository) CreateProject(ctx context.Context, project *model.Project) error {
	query := `
		INSERT INTO projects (name, created_at)
		VALUES ($1, $2)
		RETURNING id
	`

	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}

	err := r.pool.QueryRow(ctx, query,
		project.Name,
		project.CreatedAt,
	).Scan(&project.ID)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetProjectByID retrieves a project by its ID.
func (r *Repository) GetProjectByID(ctx context.Context, id int) (*model.Project, error) {
	query := `
		SELECT id, name, created_at
		FROM projects
		WHERE id = $1
	`

	var project model.Project
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project by ID: %w", err)
	}

	return &project, nil
}
