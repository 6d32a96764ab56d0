package loader

import (
	"strconv"
	"strings"

	"github.com/panyam/svggraph/viz"
)

// maxRowErrors caps how many bad rows a single table reports.
const maxRowErrors = 20

// columns maps the fields of a series row to table columns. color is -1
// when the table has none.
type columns struct {
	series, time, value, color int
}

var positional = columns{series: 0, time: 1, value: 2, color: 3}

// headerColumns recognizes a header row by its names. ok is false when row
// does not look like a header.
func headerColumns(row []string) (columns, bool) {
	cols := columns{series: -1, time: -1, value: -1, color: -1}
	for i, name := range row {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "series", "title":
			cols.series = i
		case "time", "date", "timestamp":
			cols.time = i
		case "value":
			cols.value = i
		case "color":
			cols.color = i
		}
	}
	if cols.series < 0 || cols.time < 0 || cols.value < 0 {
		return columns{}, false
	}
	return cols, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// rowsToSeries groups rows of (series, time, value[, color]) into series,
// in order of first appearance. An optional first row naming the columns
// may reorder them. Blank rows are skipped.
func rowsToSeries(rows [][]string, source string) ([]viz.RawSeries, error) {
	cols := positional
	first := 0
	if len(rows) > 0 {
		if hc, ok := headerColumns(rows[0]); ok {
			cols, first = hc, 1
		}
	}

	var out []viz.RawSeries
	index := map[string]int{}
	errs := &ErrorCollector{MaxErrors: maxRowErrors}
	for r := first; r < len(rows) && !errs.Full(); r++ {
		row := rows[r]
		if blank(row) {
			continue
		}
		title := cell(row, cols.series)
		if title == "" {
			errs.Errorf(source, r+1, "missing series name")
			continue
		}
		at, err := viz.ParseInstant(cell(row, cols.time))
		if err != nil {
			errs.Errorf(source, r+1, "bad time: %v", err)
			continue
		}
		value, err := strconv.ParseFloat(cell(row, cols.value), 64)
		if err != nil {
			errs.Errorf(source, r+1, "bad value %q", cell(row, cols.value))
			continue
		}

		i, ok := index[title]
		if !ok {
			i = len(out)
			index[title] = i
			out = append(out, viz.RawSeries{Title: title})
		}
		if color := cell(row, cols.color); color != "" && out[i].Color == "" {
			out[i].Color = color
		}
		out[i].Points = append(out[i].Points, viz.RawPoint{Time: at, Value: value})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
