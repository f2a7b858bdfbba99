package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Mode selects which warehouse tables feed the symbol catalog.
// The choice is configuration, never inferred from data content.
type Mode string

const (
	// ModeForecastOnly lists symbols present in the forecast table.
	ModeForecastOnly Mode = "forecast"
	// ModeUnion lists symbols present in either the actuals table or the
	// forecast table.
	ModeUnion Mode = "union"
)

// ParseMode validates a configured catalog mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeForecastOnly:
		return ModeForecastOnly, nil
	case ModeUnion:
		return ModeUnion, nil
	default:
		return "", fmt.Errorf("invalid catalog mode %q (want %q or %q)", s, ModeForecastOnly, ModeUnion)
	}
}

// Normalize canonicalizes a raw symbol: trims whitespace and uppercases.
// Returns "" for null-ish input, which callers drop.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Build merges one or more raw symbol listings into a catalog: each entry is
// normalized, empties are dropped, duplicates collapse via set union, and the
// result is sorted ascending. Build is pure; calling it twice on the same
// listings yields identical output.
func Build(listings ...[]string) []string {
	seen := make(map[string]struct{})
	for _, listing := range listings {
		for _, raw := range listing {
			sym := Normalize(raw)
			if sym == "" {
				continue
			}
			seen[sym] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
