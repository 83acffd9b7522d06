package groupservice

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
)

// GroupsText renders the groups as the plain-text listing members paste into
// the club chat.
func GroupsText(groups []Group, directory memberdomain.Directory) string {
	var b strings.Builder
	b.WriteString("Golf Groups:\n\n")
	for i, g := range groups {
		fmt.Fprintf(&b, "Group %d:\n", i+1)
		for _, name := range g {
			gender := "N/A"
			if m, ok := directory.Get(name); ok {
				gender = string(m.Gender)
			}
			fmt.Fprintf(&b, "- %s (%s)\n", name, gender)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// GenderCount is one entry of a group's gender distribution.
type GenderCount struct {
	Gender memberdomain.Gender `json:"gender"`
	Count  int                 `json:"count"`
}

// GenderDistribution counts genders in a group, most frequent first; ties keep
// first-seen order. Names missing from the directory are skipped.
func GenderDistribution(g Group, directory memberdomain.Directory) []GenderCount {
	var out []GenderCount
	index := make(map[memberdomain.Gender]int)
	for _, name := range g {
		m, ok := directory.Get(name)
		if !ok {
			continue
		}
		if i, ok := index[m.Gender]; ok {
			out[i].Count++
			continue
		}
		index[m.Gender] = len(out)
		out = append(out, GenderCount{Gender: m.Gender, Count: 1})
	}
	slices.SortStableFunc(out, func(a, b GenderCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// FormatDistribution renders a distribution as "Male: 2, Female: 1".
func FormatDistribution(counts []GenderCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s: %d", c.Gender, c.Count))
	}
	return strings.Join(parts, ", ")
}
