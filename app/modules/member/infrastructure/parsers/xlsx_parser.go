package parsers

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
)

// ================ XLSX Parser ================

type XLSXParser struct {
	sheet string
}

func NewXLSXParser(sheet string) *XLSXParser {
	return &XLSXParser{sheet: sheet}
}

func (p *XLSXParser) Parse(fileData []byte, fileName string) ([]memberdomain.Member, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileData))
	if err != nil {
		return nil, &memberdomain.LoadError{Source: fileName, Reason: "failed to parse XLSX", Err: err}
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(p.sheet)
	if err != nil || idx < 0 {
		return nil, &memberdomain.LoadError{Source: fileName, Reason: "sheet " + p.sheet + " not found"}
	}

	rows, err := f.GetRows(p.sheet)
	if err != nil {
		return nil, &memberdomain.LoadError{Source: fileName, Reason: "failed to read sheet " + p.sheet, Err: err}
	}

	return membersFromRows(rows, fileName)
}
