package model

import "time"

// Project groups time entries for billing purposes.
type Project struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
