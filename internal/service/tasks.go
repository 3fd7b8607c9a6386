package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/worklog/worklog/internal/metrics"
	"github.com/worklog/worklog/internal/model"
	"github.com/worklog/worklog/internal/repository"
)

// Service errors for entry creation.
var (
	ErrEmptyTitle       = errors.New("title is required")
	ErrNegativeDuration = errors.New("duration must not be negative")
	ErrMissingDate      = errors.New("entry date is required")
)

// UserLookup resolves user IDs to users.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int) (*model.User, error)
}

// ProjectLookup resolves project IDs to projects.
type ProjectLookup interface {
	GetProjectByID(ctx context.Context, id int) (*model.Project, error)
}

// RateLookup resolves the currently effective rate for a (user, project)
// pair. Consulted at entry creation only.
type RateLookup interface {
	CurrentRate(ctx context.Context, userID, projectID int) (*model.RateAssignment, error)
}

// TimeEntryStore supports the filtered, ordered, paginated task search
// and entry creation.
type TimeEntryStore interface {
	SearchUserTasks(ctx context.Context, filter repository.TaskFilter) ([]repository.TaskRow, int, error)
	CreateTimeEntry(ctx context.Context, entry *model.TimeEntry) error
}

// Store bundles the collaborators the task service needs.
// *repository.Repository satisfies it.
type Store interface {
	UserLookup
	ProjectLookup
	RateLookup
	TimeEntryStore
}

// TaskService handles time entry listing and creation.
type TaskService struct {
	store   Store
	metrics metrics.Recorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(store Store, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		store:   store,
		metrics: recorder,
	}
}

// TaskPage is the assembled result of a user task listing.
type TaskPage struct {
	User       *model.User
	Items      []repository.TaskRow
	Total      int
	TotalPages int
	Filter     repository.TaskFilter
}

// ListUserTasks validates the raw parameters, resolves the user and runs
// the task search. Validation failures never reach the store. A page
// past the end of the result set is not an error: it yields an empty
// item list with the real total.
func (s *TaskService) ListUserTasks(ctx context.Context, params ListTasksParams) (*TaskPage, error) {
	start := time.Now()

	page, err := s.listUserTasks(ctx, params)

	s.metrics.ObserveTaskListDuration(time.Since(start))
	s.metrics.IncTaskList(outcomeFor(err))

	return page, err
}

func (s *TaskService) listUserTasks(ctx context.Context, params ListTasksParams) (*TaskPage, error) {
	filter, err := ParseListTasksParams(params)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, filter.UserID)
	if err != nil {
		return nil, err
	}

	items, total, err := s.store.SearchUserTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + filter.Limit - 1) / filter.Limit
	}

	return &TaskPage{
		User:       user,
		Items:      items,
		Total:      total,
		TotalPages: totalPages,
		Filter:     filter,
	}, nil
}

func outcomeFor(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &vErr):
		return metrics.OutcomeInvalid
	case errors.Is(err, repository.ErrUserNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

// CreateTimeEntryInput defines input for recording a time entry.
type CreateTimeEntryInput struct {
	UserID          int
	ProjectID       int
	Title           string
	Date            time.Time
	DurationMinutes int
}

// CreateTimeEntry records a new time entry with its monetary fields
// frozen: the currently effective rate for the (user, project) pair is
// copied into the entry and the amount is computed once, here. Neither
// field is ever re-derived, so later rate assignments cannot change
// what historical entries are worth.
func (s *TaskService) CreateTimeEntry(ctx context.Context, input CreateTimeEntryInput) (*model.TimeEntry, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if input.DurationMinutes < 0 {
		return nil, ErrNegativeDuration
	}
	if input.Date.IsZero() {
		return nil, ErrMissingDate
	}

	// Both references must resolve at creation time.
	if _, err := s.store.GetUserByID(ctx, input.UserID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProjectByID(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	assignment, err := s.store.CurrentRate(ctx, input.UserID, input.ProjectID)
	if err != nil {
		return nil, err
	}

	entry := &model.TimeEntry{
		UserID:          input.UserID,
		ProjectID:       input.ProjectID,
		Title:           strings.TrimSpace(input.Title),
		Date:            truncateToDate(input.Date),
		DurationMinutes: input.DurationMinutes,
		AppliedRate:     assignment.Rate,
		Amount:          model.ComputeAmount(input.DurationMinutes, assignment.Rate),
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.CreateTimeEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.IncEntryCreated()

	return entry, nil
}

// truncateToDate drops the time component; entries carry calendar dates.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
