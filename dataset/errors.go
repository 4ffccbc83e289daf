package dataset

import "fmt"

// ParseError reports missing or malformed input. The run aborts; there is no
// retry or partial recovery.
type ParseError struct {
	Path   string
	Record string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("parse %s record %q: %v", e.Path, e.Record, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
