package model

import "time"

// Category groups items for filtering. Name uniqueness is enforced by the
// database, not here.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
