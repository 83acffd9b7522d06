package groupservice

import (
	"strings"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
)

// ValidateOverride checks a manual replacement of the groups. Every name must
// be an available member and may appear in only one group. Empty groups are
// dropped; the groups need not cover every available member.
func ValidateOverride(groups []Group, directory memberdomain.Directory) ([]Group, error) {
	seen := make(map[string]int)
	out := make([]Group, 0, len(groups))

	for gi, g := range groups {
		cleaned := make(Group, 0, len(g))
		for _, raw := range g {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			if prev, dup := seen[name]; dup {
				reason := "appears more than once in a group"
				if prev != gi {
					reason = "is already assigned to another group"
				}
				return nil, &OverrideError{Member: name, Reason: reason}
			}
			m, ok := directory.Get(name)
			if !ok {
				return nil, &OverrideError{Member: name, Reason: "is not a member"}
			}
			if !m.Available {
				return nil, &OverrideError{Member: name, Reason: "is not available"}
			}
			seen[name] = gi
			cleaned = append(cleaned, name)
		}
		if len(cleaned) > 0 {
			out = append(out, cleaned)
		}
	}

	return out, nil
}
