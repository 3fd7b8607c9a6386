// Package service provides business logic for the application.
package service

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/worklog/worklog/internal/model"
	"github.com/worklog/worklog/internal/repository"
)

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ValidationError reports a malformed request parameter.
// The message is safe to return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// datePattern enforces the literal YYYY-MM-DD shape; time.Parse alone
// would also accept unpadded forms like 2025-1-2.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ListTasksParams carries raw request parameters before validation.
// All fields are the original strings; absent parameters are empty.
type ListTasksParams struct {
	UserID    string
	From      string
	To        string
	ProjectID string
	Page      string
	Limit     string
}

// ParseListTasksParams validates raw parameters into a TaskFilter.
// Checks run in a fixed order and stop at the first failure, before any
// store access. page and limit never fail: unparseable values fall back
// to defaults, out-of-range values are clamped.
func ParseListTasksParams(params ListTasksParams) (repository.TaskFilter, error) {
	var filter repository.TaskFilter

	userID, err := strconv.Atoi(params.UserID)
	if err != nil || userID <= 0 {
		return filter, invalid("id must be a positive integer")
	}
	filter.UserID = userID

	if params.ProjectID != "" {
		if !isDigits(params.ProjectID) {
			return filter, invalid("project_id must be a positive integer")
		}
		projectID, err := strconv.Atoi(params.ProjectID)
		if err != nil || projectID <= 0 {
			return filter, invalid("project_id must be a positive integer")
		}
		filter.ProjectID = &projectID
	}

	from, err := parseOptionalDate(params.From, "from")
	if err != nil {
		return filter, err
	}
	filter.From = from

	to, err := parseOptionalDate(params.To, "to")
	if err != nil {
		return filter, err
	}
	filter.To = to

	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, invalid("from cannot be after to")
	}

	filter.Page = parseBoundedInt(params.Page, DefaultPage, 1, 0)
	filter.Limit = parseBoundedInt(params.Limit, DefaultLimit, 1, MaxLimit)

	return filter, nil
}

// parseOptionalDate parses an optional YYYY-MM-DD parameter. Empty means
// no filter. The pattern check and time.Parse together reject both
// malformed shapes and impossible dates such as 2025-02-30.
func parseOptionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if !datePattern.MatchString(value) {
		return nil, invalid(fmt.Sprintf("%s must be a valid YYYY-MM-DD date", field))
	}

	parsed, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return nil, invalid(fmt.Sprintf("%s must be a valid YYYY-MM-DD date", field))
	}

	return &parsed, nil
}

// parseBoundedInt parses a pagination parameter, falling back to def
// when absent or unparseable and clamping into [min, max]. A max of 0
// means unbounded.
func parseBoundedInt(value string, def, min, max int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		n = def
	}
	if n < min {
		n = min
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}

// isDigits reports whether s is non-empty and contains only decimal
// digits. Rejects signs and whitespace that strconv.Atoi would accept.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
