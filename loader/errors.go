package loader

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for files whose extension has no parser.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// RowError reports one bad row of a tabular file. Row is 1-based, as shown
// by spreadsheet tools.
type RowError struct {
	Source string
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Row, e.Reason)
}

// ErrorCollector gathers row errors so a file reports all of its problems
// at once.
type ErrorCollector struct {
	Errors []error

	// Max errors before we give up on the file.
	// 0 => no limit
	MaxErrors int
}

func (c *ErrorCollector) HasErrors() bool {
	return len(c.Errors) > 0
}

// Full reports whether MaxErrors has been reached.
func (c *ErrorCollector) Full() bool {
	return c.MaxErrors > 0 && len(c.Errors) >= c.MaxErrors
}

func (c *ErrorCollector) AddErrors(errs ...error) {
	for _, err := range errs {
		if c.Full() {
			return
		}
		c.Errors = append(c.Errors, err)
	}
}

func (c *ErrorCollector) Errorf(source string, row int, format string, args ...any) {
	c.AddErrors(&RowError{Source: source, Row: row, Reason: fmt.Sprintf(format, args...)})
}

// Err joins the collected errors, or returns nil.
func (c *ErrorCollector) Err() error {
	return errors.Join(c.Errors...)
}
