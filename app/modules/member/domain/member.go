package memberdomain

import (
	"fmt"
	"strings"
)

// Gender is the roster gender of a member.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ParseGender accepts the English labels used by the API and the Korean
// forms found in club rosters.
func ParseGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m", "남", "남자", "남성":
		return GenderMale, nil
	case "female", "f", "여", "여자", "여성":
		return GenderFemale, nil
	}
	return "", fmt.Errorf("unrecognized gender %q", raw)
}

// Member is one roster entry. Name is the unique key.
type Member struct {
	Name      string `json:"name"`
	Gender    Gender `json:"gender"`
	Available bool   `json:"available"`
}

// Availability splits the directory into attending and absent members.
type Availability struct {
	Available   []string `json:"available"`
	Unavailable []string `json:"unavailable"`
}
