package core

import "fmt"

// ValidationError is returned when a tool argument fails local checks. No
// upstream request is made in that case.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid argument: " + e.Message
	}
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Message)
}

func (e *ValidationError) ErrorCode() string { return "invalid_argument" }

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PolicyError is returned when a tool is disabled by configuration.
type PolicyError struct {
	Tool   string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("tool %q not allowed: %s", e.Tool, e.Reason)
}

func (e *PolicyError) ErrorCode() string { return "tool_not_allowed" }
