package parsers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
)

// CSVParser implements the Parser interface for CSV roster exports.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse reads CSV data laid out like the roster sheet: a header row, a title
// row, then one member per row. A UTF-8 byte order mark is tolerated.
func (p *CSVParser) Parse(fileData []byte, fileName string) ([]memberdomain.Member, error) {
	fileData = bytes.TrimPrefix(fileData, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(fileData))
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &memberdomain.LoadError{Source: fileName, Reason: "failed to parse CSV", Err: err}
		}
		rows = append(rows, record)
	}

	return membersFromRows(rows, fileName)
}
