package resolve

import (
	"regexp"
	"strings"

	"github.com/transport-telemetry/simtelemetry/host"
)

// nameFields is the ordered list of fields that may carry a display
// name. Like refFields, the order mirrors observed host behavior.
var nameFields = []string{
	"name",
	"label",
	"title",
	"displayName",
}

// placeholderPattern matches auto-generated labels the host leaves on
// unnamed entities. These must never win over a real name, at any step
// of resolution.
var placeholderPattern = regexp.MustCompile(`^(Stop|Station) #\d+$`)

// IsPlaceholderName reports whether a candidate is empty, whitespace,
// or an auto-generated label.
func IsPlaceholderName(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return true
	}
	return placeholderPattern.MatchString(trimmed)
}

// explicitName returns the first usable name field directly on the
// entity, or "".
func explicitName(e *host.Entity) string {
	for _, field := range nameFields {
		if s := e.FieldString(field); !IsPlaceholderName(s) {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// searchName chases the entity reference graph for a usable name,
// bounded in depth and cycle-safe. Returns "" when nothing plausible
// is reachable.
func searchName(acc *host.Accessor, id int64) string {
	var found string
	walkRefs(acc, id, func(e *host.Entity) bool {
		if s := explicitName(e); s != "" {
			found = s
			return true
		}
		return false
	})
	return found
}
