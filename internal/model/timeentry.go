package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for entry dates.
const DateLayout = "2006-01-02"

// TimeEntry is a single recorded unit of work. AppliedRate and Amount
// are frozen when the entry is created and never recomputed, so later
// rate changes cannot alter historical amounts. Entries are immutable
// once persisted.
type TimeEntry struct {
	ID              int
	UserID          int
	ProjectID       int
	Title           string
	Date            time.Time
	DurationMinutes int
	AppliedRate     decimal.Decimal
	Amount          decimal.Decimal
	CreatedAt       time.Time
}

// ComputeAmount derives the billable amount for a duration at an hourly
// rate, rounded half-up to two decimal places. Called exactly once per
// entry, at creation.
func ComputeAmount(durationMinutes int, rate decimal.Decimal) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(durationMinutes))
	return rate.Mul(minutes).Div(decimal.NewFromInt(60)).Round(2)
}
