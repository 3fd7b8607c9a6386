// Package model defines domain entities for the application.
package model

import "time"

// User owns time entries. The query path treats users as read-only.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
