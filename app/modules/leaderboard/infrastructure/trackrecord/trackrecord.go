// Package trackrecord merges the in-session leader board into the club's
// running spreadsheet of past outings.
package trackrecord

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	leaderboardservice "github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard/application"
)

const (
	// SheetName is the sheet read from uploads and written to downloads.
	SheetName = "Sheet1"

	// UpdatedWorkbookName is the download name of the merged workbook.
	UpdatedWorkbookName = "updated_golf_scores.xlsx"

	// OutingDateColumn is added to current rows when the session has a date.
	OutingDateColumn = "Outing Date"
)

var (
	// ErrMissingSheet indicates the uploaded workbook has no Sheet1.
	ErrMissingSheet = errors.New("workbook has no " + SheetName + " sheet")

	// ErrInvalidWorkbook indicates the upload is not a readable XLSX file.
	ErrInvalidWorkbook = errors.New("upload is not a valid XLSX workbook")
)

// Table is a header plus rows of cells aligned to it.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ReadHistory parses the Sheet1 of an uploaded workbook. The first row is
// the header; rows are padded to the header width.
func ReadHistory(data []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(SheetName); err != nil || idx < 0 {
		return Table{}, ErrMissingSheet
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return Table{Header: []string{}, Rows: [][]string{}}, nil
	}

	header := trimAll(rows[0])
	body := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if isBlank(r) {
			continue
		}
		body = append(body, r)
		for len(header) < len(r) {
			header = append(header, "")
		}
	}
	for i, h := range header {
		if h == "" {
			header[i] = unnamedColumn(i)
		}
	}

	t := Table{Header: header, Rows: make([][]string, 0, len(body))}
	for _, r := range body {
		row := make([]string, len(header))
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// unnamedColumn names a column with no header cell, as pandas does.
func unnamedColumn(idx int) string {
	return fmt.Sprintf("Unnamed: %d", idx)
}

// FromSummary converts leader board rows into a table. A non-zero outing date
// adds an Outing Date column in YYYY-MM-DD form.
func FromSummary(rows []leaderboardservice.SummaryRow, outingDate time.Time) Table {
	header := append([]string(nil), leaderboardservice.SummaryHeader...)
	if !outingDate.IsZero() {
		header = append(header, OutingDateColumn)
	}

	t := Table{Header: header, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		cells := r.Cells()
		if !outingDate.IsZero() {
			cells = append(cells, outingDate.Format(time.DateOnly))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// Merge appends current below history. Columns are matched by header name;
// the result carries history's columns first, then any new ones, and cells
// a row has no value for are left blank.
func Merge(history, current Table) Table {
	header := append([]string(nil), history.Header...)
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}
	for _, h := range current.Header {
		if _, ok := pos[h]; !ok {
			pos[h] = len(header)
			header = append(header, h)
		}
	}

	out := Table{Header: header, Rows: make([][]string, 0, len(history.Rows)+len(current.Rows))}
	realign := func(src Table) {
		for _, r := range src.Rows {
			row := make([]string, len(header))
			for i, h := range src.Header {
				if i < len(r) {
					row[pos[h]] = r[i]
				}
			}
			out.Rows = append(out.Rows, row)
		}
	}
	realign(history)
	realign(current)
	return out
}

// WriteWorkbook renders the table into a single-sheet workbook. Cells that
// look numeric are written as numbers.
func WriteWorkbook(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	write := func(rowIdx int, cells []string) error {
		values := make([]any, len(cells))
		for i, c := range cells {
			values[i] = cellValue(c)
		}
		ref, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		return f.SetSheetRow(SheetName, ref, &values)
	}

	if err := write(1, t.Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.Rows {
		if err := write(i+2, r); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, ".") {
		return f
	}
	return s
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
