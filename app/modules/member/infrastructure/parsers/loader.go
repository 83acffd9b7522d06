package parsers

import (
	"fmt"
	"os"
	"path/filepath"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
)

// LoadDirectory reads the roster file at path and builds the directory that
// seeds every session.
func LoadDirectory(path, sheet string) (memberdomain.Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return memberdomain.Directory{}, &memberdomain.LoadError{Source: path, Reason: "cannot read roster file", Err: err}
	}

	parser, err := NewFactory(sheet).GetParser(filepath.Base(path))
	if err != nil {
		return memberdomain.Directory{}, &memberdomain.LoadError{Source: path, Reason: fmt.Sprintf("unsupported roster: %v", err)}
	}

	members, err := parser.Parse(data, path)
	if err != nil {
		return memberdomain.Directory{}, err
	}
	return memberdomain.NewDirectory(members...), nil
}
