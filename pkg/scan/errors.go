package scan

import (
	"fmt"
	"strings"
)

// FormatError reports input that does not follow the scan export format:
// a missing header column, a field that is not a number, or a row whose
// width differs from the header. It is always fatal for the pass.
type FormatError struct {
	// Line is the 1-based source line, 0 when the error is not tied to a line
	Line int

	// Column is the header name of the offending field, if known
	Column string

	// Value is the literal text that failed to parse, if any
	Value string

	// Msg describes the problem
	Msg string

	// Err is the underlying parse error, if any
	Err error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("format error")
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ", column %q", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Value != "" {
		fmt.Fprintf(&b, " (value %q)", e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
