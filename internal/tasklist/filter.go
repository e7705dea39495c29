package tasklist

import (
	"fmt"
	"strings"

	"tasklist/internal/service"
)

// Filter selects which tasks are visible. It never reaches the Task Service.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterPending}

// ParseFilter parses a filter name, case-insensitively.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FilterAll, FilterCompleted, FilterPending:
		return f, nil
	}
	return "", fmt.Errorf("invalid filter: %s", s)
}

// Match reports whether t is visible under f. Unknown filters match everything.
func (f Filter) Match(t service.Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}
