package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateAssignment is an hourly rate for a (user, project) pair.
// Multiple assignments may exist over time for the same pair; the most
// recently created one is the currently effective rate.
type RateAssignment struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	ProjectID int             `json:"project_id"`
	Rate      decimal.Decimal `json:"rate"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}
