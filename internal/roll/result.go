package roll

import "strconv"

// Result is the outcome of one roll. The zero value is an unknown result.
type Result struct {
	Label int
	Known bool
}

// KnownResult returns a resolved result for label.
func KnownResult(label int) Result {
	return Result{Label: label, Known: true}
}

// Value is the label as text, or "unknown".
func (r Result) Value() string {
	if !r.Known {
		return "unknown"
	}
	return strconv.Itoa(r.Label)
}

// String is the display line, e.g. "Result: 17".
func (r Result) String() string {
	return "Result: " + r.Value()
}
