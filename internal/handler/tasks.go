package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/worklog/worklog/internal/handler/dto"
	"github.com/worklog/worklog/internal/repository"
	"github.com/worklog/worklog/internal/service"
)

// TaskLister runs the user task search.
type TaskLister interface {
	ListUserTasks(ctx context.Context, params service.ListTasksParams) (*service.TaskPage, error)
}

// TasksHandler handles HTTP requests for task listings.
type TasksHandler struct {
	svc    TaskLister
	logger *slog.Logger
}

// NewTasksHandler creates a new TasksHandler.
func NewTasksHandler(svc TaskLister, logger *slog.Logger) *TasksHandler {
	return &TasksHandler{
		svc:    svc,
		logger: logger,
	}
}

// ListUserTasks handles GET /api/users/{id}/tasks.
// Query parameters are passed through raw; validation, including the
// path id, happens in the service in a fixed order.
func (h *TasksHandler) ListUserTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := service.ListTasksParams{
		UserID:    chi.URLParam(r, "id"),
		From:      query.Get("from"),
		To:        query.Get("to"),
		ProjectID: query.Get("project_id"),
		Page:      query.Get("page"),
		Limit:     query.Get("limit"),
	}

	page, err := h.svc.ListUserTasks(r.Context(), params)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("tasks_listed",
		"user_id", page.User.ID,
		"page", page.Filter.Page,
		"limit", page.Filter.Limit,
		"total", page.Total,
	)

	writeJSON(w, http.StatusOK, dto.ToTaskListResponse(page))
}

// handleServiceError maps service errors to HTTP responses.
func (h *TasksHandler) handleServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
