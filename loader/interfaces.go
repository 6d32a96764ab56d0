// Package loader reads chart series from JSON, CSV and XLSX files.
package loader

import (
	"io"

	"github.com/panyam/svggraph/viz"
)

// Parser decodes one file format into raw series.
type Parser interface {
	// Parse reads from the input reader and returns the series it holds.
	// sourceName is used for context in error messages (e.g., file path).
	Parse(input io.Reader, sourceName string) ([]viz.RawSeries, error)
}
