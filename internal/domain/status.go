package domain

import "strings"

// Status represents lifecycle states for content entities
type Status string

const (
	// StatusDraft indicates content still under preparation
	StatusDraft Status = "draft"
	// StatusProcessed identifies content whose underlying file passed format validation
	StatusProcessed Status = "processed"
	// StatusPublished identifies content available to consumers
	StatusPublished Status = "published"
	// StatusArchived marks content that is retained for history but not publicly visible
	StatusArchived Status = "archived"
	// StatusScheduled marks content that has a future publish time configured
	StatusScheduled Status = "scheduled"
)

// NormalizeStatus coerces arbitrary status strings into a known representation,
// defaulting to draft for empty input.
func NormalizeStatus(input string) Status {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return StatusDraft
	}
	return Status(trimmed)
}

// IsTerminal reports whether the status allows no further workflow transitions.
func (s Status) IsTerminal() bool {
	return s == StatusArchived
}
