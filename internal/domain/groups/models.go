package groups

import (
	"strings"

	"github.com/preston-bernstein/borga-service/internal/domain/games"
)

// Group is a named collection of cached games. Games keep insertion order.
type Group struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Games       []games.Game `json:"games"`
}

// ValidName reports whether name is usable as a group name. Whitespace-only names are rejected.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}
