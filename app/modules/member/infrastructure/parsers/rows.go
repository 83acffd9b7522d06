package parsers

import (
	"strings"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
)

// membersFromRows turns a header row, a title row and the member rows below
// it into directory entries. Every member starts out available.
func membersFromRows(rows [][]string, source string) ([]memberdomain.Member, error) {
	if len(rows) == 0 {
		return nil, &memberdomain.LoadError{Source: source, Reason: "roster is empty"}
	}

	header := rows[0]
	nameIdx := findColumn(header, NameColumn)
	genderIdx := findColumn(header, GenderColumn)
	if nameIdx < 0 || genderIdx < 0 {
		return nil, &memberdomain.LoadError{
			Source: source,
			Row:    1,
			Reason: "missing required columns " + NameColumn + " and " + GenderColumn,
		}
	}

	// rows[1] is the title row under the header.
	members := make([]memberdomain.Member, 0, len(rows))
	for i := 2; i < len(rows); i++ {
		row := rows[i]
		name := cell(row, nameIdx)
		if name == "" {
			continue
		}

		gender, err := memberdomain.ParseGender(cell(row, genderIdx))
		if err != nil {
			return nil, &memberdomain.LoadError{Source: source, Row: i + 1, Reason: "invalid gender", Err: err}
		}

		members = append(members, memberdomain.Member{
			Name:      name,
			Gender:    gender,
			Available: true,
		})
	}

	return members, nil
}

func findColumn(header []string, want string) int {
	for i, col := range header {
		if strings.TrimSpace(col) == want {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
