// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"

	"github.com/worklog/worklog/internal/model"
	"github.com/worklog/worklog/internal/repository"
	"github.com/worklog/worklog/internal/service"
)

// UserRef identifies the owner of the returned tasks.
type UserRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Filters echoes the canonical filter values back to the client.
// Absent filters serialize as null, never as empty strings.
type Filters struct {
	From      *string `json:"from"`
	To        *string `json:"to"`
	ProjectID *int    `json:"project_id"`
}

// Meta carries pagination state alongside the echoed filters.
type Meta struct {
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Filters    Filters `json:"filters"`
}

// TaskItem is one task in the listing. AppliedRate and Amount are
// emitted as bare JSON numbers with exactly two decimal places.
type TaskItem struct {
	TaskID          int         `json:"task_id"`
	TaskTitle       string      `json:"task_title"`
	Date            string      `json:"date"`
	ProjectID       int         `json:"project_id"`
	ProjectName     string      `json:"project_name"`
	DurationMinutes int         `json:"duration_minutes"`
	AppliedRate     json.Number `json:"applied_rate"`
	Amount          json.Number `json:"amount"`
}

// TaskListResponse is the envelope for GET /api/users/{id}/tasks.
type TaskListResponse struct {
	User  UserRef    `json:"user"`
	Meta  Meta       `json:"meta"`
	Items []TaskItem `json:"items"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToTaskListResponse converts a service TaskPage into the response
// envelope. Items is always a non-nil slice so an empty page encodes
// as [] rather than null.
func ToTaskListResponse(page *service.TaskPage) *TaskListResponse {
	items := make([]TaskItem, len(page.Items))
	for i, row := range page.Items {
		items[i] = toTaskItem(row)
	}

	return &TaskListResponse{
		User: UserRef{
			ID:   page.User.ID,
			Name: page.User.Name,
		},
		Meta: Meta{
			Page:       page.Filter.Page,
			Limit:      page.Filter.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
			Filters:    toFilters(page.Filter),
		},
		Items: items,
	}
}

func toTaskItem(row repository.TaskRow) TaskItem {
	return TaskItem{
		TaskID:          row.ID,
		TaskTitle:       row.Title,
		Date:            row.Date.Format(model.DateLayout),
		ProjectID:       row.ProjectID,
		ProjectName:     row.ProjectName,
		DurationMinutes: row.DurationMinutes,
		AppliedRate:     json.Number(row.AppliedRate.StringFixed(2)),
		Amount:          json.Number(row.Amount.StringFixed(2)),
	}
}

func toFilters(filter repository.TaskFilter) Filters {
	var f Filters
	if filter.From != nil {
		from := filter.From.Format(model.DateLayout)
		f.From = &from
	}
	if filter.To != nil {
		to := filter.To.Format(model.DateLayout)
		f.To = &to
	}
	if filter.ProjectID != nil {
		projectID := *filter.ProjectID
		f.ProjectID = &projectID
	}
	return f
}
