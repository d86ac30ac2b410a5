package schemaengine

import "strings"

// Issue is one field-level validation failure. Path locates the failing
// value inside the raw input with slash-separated segments; list element
// failures are prefixed with the element index (for example "items/1/id").
// An empty path refers to the whole value.
type Issue struct {
	Path       string
	Constraint string
	Message    string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Issues is the diagnostic error returned by validators. It is never
// empty.
type Issues []Issue

func (e Issues) Error() string {
	parts := make([]string, len(e))
	for i, issue := range e {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

// prefix returns a copy of the issues with a leading path segment added,
// used to report the index of a failing list element.
func (e Issues) prefix(segment string) Issues {
	out := make(Issues, len(e))
	for i, issue := range e {
		p := segment
		if issue.Path != "" {
			p = segment + "/" + issue.Path
		}
		out[i] = Issue{Path: p, Constraint: issue.Constraint, Message: issue.Message}
	}
	return out
}
