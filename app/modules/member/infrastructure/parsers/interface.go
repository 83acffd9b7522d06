package parsers

import (
	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
)

const (
	// NameColumn and GenderColumn are the roster headers the parsers look for.
	NameColumn   = "회원이름"
	GenderColumn = "성별"
)

// Parser defines the interface for roster parsers.
type Parser interface {
	// Parse reads roster data and returns the members in file order.
	// fileName is used for error messages only.
	Parse(fileData []byte, fileName string) ([]memberdomain.Member, error)
}
