package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/panyam/svggraph/viz"
	"github.com/xuri/excelize/v2"
)

// JSONParser reads an array of {title, color, points: [{time|date, value}]}.
type JSONParser struct{}

func (JSONParser) Parse(input io.Reader, sourceName string) ([]viz.RawSeries, error) {
	var series []viz.RawSeries
	dec := json.NewDecoder(input)
	if err := dec.Decode(&series); err != nil {
		return nil, fmt.Errorf("in '%s': %w", sourceName, err)
	}
	return series, nil
}

// CSVParser reads series,time,value[,color] rows, with an optional header.
type CSVParser struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

func (p CSVParser) Parse(input io.Reader, sourceName string) ([]viz.RawSeries, error) {
	r := csv.NewReader(input)
	if p.Comma != 0 {
		r.Comma = p.Comma
	}
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("in '%s': %w", sourceName, err)
	}
	return rowsToSeries(rows, sourceName)
}

// XLSXParser reads the same columns as CSVParser from a spreadsheet.
type XLSXParser struct {
	// Sheet names the sheet to read. Empty means the first one.
	Sheet string
}

func (p XLSXParser) Parse(input io.Reader, sourceName string) ([]viz.RawSeries, error) {
	f, err := excelize.OpenReader(input)
	if err != nil {
		return nil, fmt.Errorf("in '%s': %w", sourceName, err)
	}
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("in '%s': workbook has no sheets", sourceName)
		}
		sheet = sheets[0]
	}
	// Raw values keep large millisecond timestamps from being shown in
	// scientific notation.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("in '%s' sheet %q: %w", sourceName, sheet, err)
	}
	return rowsToSeries(rows, sourceName+"["+sheet+"]")
}
