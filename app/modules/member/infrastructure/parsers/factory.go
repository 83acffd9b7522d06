package parsers

import (
	"fmt"
	"strings"
)

// Factory creates the appropriate parser based on file extension.
type Factory struct {
	sheet string
}

// NewFactory creates a new parser factory. sheet names the workbook sheet
// holding the roster; it is ignored for CSV files.
func NewFactory(sheet string) *Factory {
	return &Factory{sheet: sheet}
}

// GetParser returns a parser for the given file name.
func (f *Factory) GetParser(fileName string) (Parser, error) {
	fileName = strings.ToLower(fileName)

	if strings.HasSuffix(fileName, ".csv") {
		return NewCSVParser(), nil
	}

	if strings.HasSuffix(fileName, ".xlsx") || strings.HasSuffix(fileName, ".xlsm") {
		return NewXLSXParser(f.sheet), nil
	}

	return nil, fmt.Errorf("unsupported file type: %s (must be .csv or .xlsx)", fileName)
}
