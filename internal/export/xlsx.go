// Package export writes the guest list as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/xuri/excelize/v2"

	"wedding-guests/internal/models"
)

const (
	// FileName is the name every export is saved under
	FileName  = "רשימת מוזמנים.xlsx"
	SheetName = "Sheet1"

	minColumnWidth = 10
)

// Column labels, in output order
const (
	ColFullName    = "שם מלא"
	ColDescription = "תיאור"
	ColSide        = "צד"
	ColRelation    = "קירבה"
)

// Record is one output row keyed by column label
type Record = *orderedmap.OrderedMap[string, string]

// Relabel turns guests into records keyed by the Hebrew column labels
func Relabel(guests []models.Guest) []Record {
	records := make([]Record, 0, len(guests))
	for _, g := range guests {
		r := orderedmap.NewOrderedMapWithCapacity[string, string](4)
		r.Set(ColFullName, g.FullName)
		r.Set(ColDescription, g.Description)
		r.Set(ColSide, g.Side)
		r.Set(ColRelation, g.Relation)
		records = append(records, r)
	}
	return records
}

// Workbook builds a single-sheet workbook from records. The header row holds
// every key in first-seen order. It returns nil when there are no records.
func Workbook(records []Record) (*excelize.File, error) {
	if len(records) == 0 {
		return nil, nil
	}

	columns := columnsOf(records)
	f := excelize.NewFile()

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	widths := make([]int, len(columns))
	for i := range widths {
		widths[i] = minColumnWidth
	}

	for r, rec := range records {
		for c, col := range columns {
			value, ok := rec.Get(col)
			if !ok {
				continue
			}
			if n := utf8.RuneCountInString(value); n > widths[c] {
				widths[c] = n
			}
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellStr(SheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	for c, w := range widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, float64(w)); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}

	rtl := true
	if err := f.SetSheetView(SheetName, -1, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set sheet view: %w", err)
	}

	return f, nil
}

func columnsOf(records []Record) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, rec := range records {
		for key := range rec.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}
	return columns
}

// Write streams the workbook to w. It writes nothing and reports false when
// there are no records.
func Write(w io.Writer, records []Record) (bool, error) {
	f, err := Workbook(records)
	if err != nil || f == nil {
		return false, err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return false, fmt.Errorf("failed to write workbook: %w", err)
	}
	return true, nil
}

// ToDir saves the workbook as FileName inside dir and returns its path. No
// file is created when there are no records.
func ToDir(dir string, records []Record) (string, error) {
	f, err := Workbook(records)
	if err != nil || f == nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}
