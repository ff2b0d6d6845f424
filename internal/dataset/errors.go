package dataset

import (
	"fmt"
	"strings"
)

// DataLoadError reports a file that could not be opened or parsed.
// Line is 1-based and zero when the failure is not tied to a row.
type DataLoadError struct {
	Path string
	Line int
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// MissingColumnError reports a configured column absent from the header row.
type MissingColumnError struct {
	Path   string
	Column string
	Header []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("load %s: column %q not found in header [%s]",
		e.Path, e.Column, strings.Join(e.Header, ", "))
}
