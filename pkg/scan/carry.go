package scan

// Carry is the state threaded between successive CarryForward calls. It
// holds the most recent row that was read without a missing value. The zero
// value means no valid row has been seen yet.
type Carry struct {
	fields []string
	line   int
	valid  bool
}

// Valid reports whether the carry holds a previously seen valid row
func (c Carry) Valid() bool {
	return c.valid
}

// Line returns the source line of the carried row, 0 if there is none
func (c Carry) Line() int {
	return c.line
}

// HasMissing reports whether any field of row equals the sentinel
func HasMissing(row Row, sentinel string) bool {
	for _, f := range row.Fields {
		if f == sentinel {
			return true
		}
	}
	return false
}

// CarryForward repairs row against the carried state. A row holding the
// sentinel in any field is discarded as a whole and replaced by the carried
// row; it is never merged field by field. When nothing has been carried yet
// the replacement is an all-zero placeholder of the same width.
//
// The returned Carry must be passed to the next call. A substituted row does
// not replace the carried row, so a run of missing rows all repeat the last
// valid one. The returned row keeps the line number of the input row.
func CarryForward(prev Carry, row Row, sentinel string) (next Carry, repaired Row, substituted bool) {
	if !HasMissing(row, sentinel) {
		next = Carry{fields: row.Fields, line: row.Line, valid: true}
		return next, row, false
	}

	var fields []string
	if prev.valid {
		fields = make([]string, len(prev.fields))
		copy(fields, prev.fields)
	} else {
		fields = placeholder(len(row.Fields))
	}
	return prev, Row{Line: row.Line, Fields: fields}, true
}

func placeholder(width int) []string {
	fields := make([]string, width)
	for i := range fields {
		fields[i] = "0"
	}
	return fields
}
