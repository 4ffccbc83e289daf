package schema

import "fmt"

// ValidationError reports a field value outside the expected range or set.
// Record identifies the offending source record when known.
type ValidationError struct {
	Record string
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	msg := "validation"
	if e.Record != "" {
		msg += fmt.Sprintf(" record %q", e.Record)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" value %q", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
