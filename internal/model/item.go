package model

import (
	"fmt"
	"time"
)

// Item is a lost or found report.
type Item struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	CategoryID   string    `json:"category_id,omitempty"`
	Kind         string    `json:"kind"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	DateReported time.Time `json:"date_reported"`
	Status       string    `json:"status"`
	ImageURL     string    `json:"image_url,omitempty"`
	ContactInfo  string    `json:"contact_info,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	ReporterName  string `json:"reporter_name,omitempty"`
	ReporterEmail string `json:"reporter_email,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
}

// Item kinds.
const (
	KindLost  = "lost"
	KindFound = "found"
)

// Item lifecycle statuses.
const (
	StatusOpen    = "open"
	StatusMatched = "matched"
	StatusClosed  = "closed"
)

// ValidKind reports whether kind is one of the closed kind values.
func ValidKind(kind string) bool {
	return kind == KindLost || kind == KindFound
}

// ValidStatus reports whether status is one of the closed status values.
func ValidStatus(status string) bool {
	return status == StatusOpen || status == StatusMatched || status == StatusClosed
}

// statusRank orders the lifecycle for forward-only owner transitions.
var statusRank = map[string]int{
	StatusOpen:    1,
	StatusMatched: 2,
	StatusClosed:  3,
}

// CanTransition reports whether a status change is permitted. Admins may set
// any valid status; owners may only move forward along open → matched → closed.
func CanTransition(from, to string, admin bool) bool {
	if !ValidStatus(to) {
		return false
	}
	if admin {
		return true
	}
	return statusRank[to] > statusRank[from]
}

// NewItemInput carries the user-supplied fields of an item report.
// Status is intentionally absent: new items are always open.
type NewItemInput struct {
	Kind         string
	Title        string
	Description  string
	Location     string
	DateReported time.Time
	CategoryID   string
	ImageURL     string
	ContactInfo  string
}

// Validate checks required fields first, then the report date. The date check
// uses end of the current day so "today" is always accepted regardless of zone.
func (in *NewItemInput) Validate(now time.Time) error {
	if in.Title == "" {
		return fmt.Errorf("title required")
	}
	if in.Description == "" {
		return fmt.Errorf("description required")
	}
	if in.Location == "" {
		return fmt.Errorf("location required")
	}
	if in.DateReported.IsZero() {
		return fmt.Errorf("report date required")
	}
	if !ValidKind(in.Kind) {
		return fmt.Errorf("kind must be %q or %q", KindLost, KindFound)
	}

	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	if in.DateReported.After(endOfToday) {
		return fmt.Errorf("report date cannot be in the future")
	}
	return nil
}
