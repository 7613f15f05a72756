// Package filter narrows an item collection by free text, kind, category, and
// status. It is pure: no I/O, and the input slice is never modified. Callers
// re-run Apply against the full collection whenever any criterion changes
// instead of patching a previous result.
package filter

import (
	"strings"

	"github.com/findithq/findit/internal/model"
)

// KindFilter selects an item kind, with an explicit unconstrained variant so
// "any" is never a sentinel string.
type KindFilter int

const (
	KindAny KindFilter = iota
	KindLost
	KindFound
)

// StatusFilter selects a lifecycle status, with an explicit unconstrained
// variant.
type StatusFilter int

const (
	StatusAny StatusFilter = iota
	StatusOpen
	StatusMatched
	StatusClosed
)

// ParseKind maps a form/query value to a KindFilter. Empty and "all" mean
// unconstrained; anything unrecognized also falls back to unconstrained.
func ParseKind(s string) KindFilter {
	switch s {
	case model.KindLost:
		return KindLost
	case model.KindFound:
		return KindFound
	default:
		return KindAny
	}
}

// ParseStatus maps a form/query value to a StatusFilter.
func ParseStatus(s string) StatusFilter {
	switch s {
	case model.StatusOpen:
		return StatusOpen
	case model.StatusMatched:
		return StatusMatched
	case model.StatusClosed:
		return StatusClosed
	default:
		return StatusAny
	}
}

// String returns the wire value of the kind filter, empty for unconstrained.
func (k KindFilter) String() string {
	switch k {
	case KindLost:
		return model.KindLost
	case KindFound:
		return model.KindFound
	default:
		return ""
	}
}

// String returns the wire value of the status filter, empty for unconstrained.
func (s StatusFilter) String() string {
	switch s {
	case StatusOpen:
		return model.StatusOpen
	case StatusMatched:
		return model.StatusMatched
	case StatusClosed:
		return model.StatusClosed
	default:
		return ""
	}
}

// Spec describes the four independent, AND-combined constraints.
// The zero value matches everything.
type Spec struct {
	Term       string
	Kind       KindFilter
	CategoryID string
	Status     StatusFilter
}

// Active reports whether any constraint is set.
func (s Spec) Active() bool {
	return s.Term != "" || s.Kind != KindAny || s.CategoryID != "" || s.Status != StatusAny
}

// Apply returns the subsequence of items matching every active constraint,
// preserving the relative order of the input.
func Apply(items []model.Item, spec Spec) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if Matches(item, spec) {
			out = append(out, item)
		}
	}
	return out
}

// Matches reports whether a single item satisfies every active constraint.
func Matches(item model.Item, spec Spec) bool {
	if spec.Term != "" && !matchesTerm(item, spec.Term) {
		return false
	}
	if !matchesKind(item, spec.Kind) {
		return false
	}
	if spec.CategoryID != "" && item.CategoryID != spec.CategoryID {
		return false
	}
	if !matchesStatus(item, spec.Status) {
		return false
	}
	return true
}

// matchesTerm does a case-insensitive substring match against title,
// description, and location.
func matchesTerm(item model.Item, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(item.Title), term) ||
		strings.Contains(strings.ToLower(item.Description), term) ||
		strings.Contains(strings.ToLower(item.Location), term)
}

// matchesKind exhaustively matches the kind filter. An item with an unknown
// kind only matches the unconstrained case.
func matchesKind(item model.Item, kind KindFilter) bool {
	switch kind {
	case KindAny:
		return true
	case KindLost:
		return item.Kind == model.KindLost
	case KindFound:
		return item.Kind == model.KindFound
	default:
		return false
	}
}

func matchesStatus(item model.Item, status StatusFilter) bool {
	switch status {
	case StatusAny:
		return true
	case StatusOpen:
		return item.Status == model.StatusOpen
	case StatusMatched:
		return item.Status == model.StatusMatched
	case StatusClosed:
		return item.Status == model.StatusClosed
	default:
		return false
	}
}
