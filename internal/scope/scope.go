// package scope parses chart time-window tokens into concrete boundaries.
package scope

import (
	"strconv"
	"strings"
	"time"
)

// AllTime is the canonical token for an unbounded window.
const AllTime = "all-time"

// Window is a resolved time boundary. A nil Since means no lower bound.
type Window struct {
	Since *time.Time
}

// Resolve parses a scope key into a [Window], evaluated in UTC at call time.
//
// Grammar:
//   - "all-time"       unbounded
//   - "<N>d"           now minus N days (e.g. "7d", "30d", "90d")
//   - "year:<YYYY>"    January 1 of that year, UTC midnight
//
// Any other token falls back to an unbounded window. The fallback is
// deliberately permissive; Resolve never returns an error.
func Resolve(scopeKey string) Window {
	now := time.Now().UTC()

	switch {
	case scopeKey == AllTime:
		return Window{}

	case strings.HasSuffix(scopeKey, "d"):
		days, err := strconv.Atoi(strings.TrimSuffix(scopeKey, "d"))
		if err != nil || days <= 0 {
			return Window{}
		}
		since := now.AddDate(0, 0, -days)
		return Window{Since: &since}

	case strings.HasPrefix(scopeKey, "year:"):
		year, err := strconv.Atoi(strings.TrimPrefix(scopeKey, "year:"))
		if err != nil || year <= 0 {
			return Window{}
		}
		since := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Window{Since: &since}
	}

	return Window{}
}
