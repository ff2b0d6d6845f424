package holders_chart

import "fmt"

// LengthMismatchError is returned when the date and count sequences are not index-aligned.
type LengthMismatchError struct {
	Dates  int
	Counts int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: %d dates vs %d counts", e.Dates, e.Counts)
}

// RenderError covers failures to produce or show the chart image.
type RenderError struct {
	Op   string // "save", "open viewer", "send telegram", ...
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("render: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("render: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
