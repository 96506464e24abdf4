package domain

import (
	"strings"
	"time"
)

type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Tags      []string
	Pinned    bool
	Archived  bool
	Trashed   bool
	UpdatedAt time.Time
}

// Checklist counts "[ ]" and "[x]" markers in the note body. Markers are
// matched case-insensitively so "[X]" counts as done.
func (n Note) Checklist() (done, total int) {
	lower := strings.ToLower(n.Content)
	done = strings.Count(lower, "[x]")
	total = done + strings.Count(lower, "[ ]")
	return done, total
}
