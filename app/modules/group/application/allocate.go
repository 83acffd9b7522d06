package groupservice

import (
	"fmt"
	"math/rand/v2"
)

// Group is an ordered list of member names playing together.
type Group []string

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// DefaultShuffler draws from the unseeded global source.
var DefaultShuffler Shuffler = globalShuffler{}

// Allocate randomly splits names into groups of at most maxGroupSize. When
// the last chunk comes up short and there is more than one chunk, its
// members are dealt round-robin onto the others. The input is not modified.
func Allocate(names []string, maxGroupSize int, shuffler Shuffler) ([]Group, error) {
	if maxGroupSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGroupSize, maxGroupSize)
	}
	if len(names) == 0 {
		return []Group{}, nil
	}
	if shuffler == nil {
		shuffler = DefaultShuffler
	}

	pool := make([]string, len(names))
	copy(pool, names)
	shuffler.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	groups := make([]Group, 0, (len(pool)+maxGroupSize-1)/maxGroupSize)
	for start := 0; start < len(pool); start += maxGroupSize {
		end := min(start+maxGroupSize, len(pool))
		chunk := make(Group, end-start, maxGroupSize+1)
		copy(chunk, pool[start:end])
		groups = append(groups, chunk)
	}

	if last := groups[len(groups)-1]; len(groups) > 1 && len(last) < maxGroupSize {
		groups = groups[:len(groups)-1]
		for i, name := range last {
			groups[i%len(groups)] = append(groups[i%len(groups)], name)
		}
	}

	return groups, nil
}

// Members flattens groups into the distinct names they contain, in order.
func Members(groups []Group) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range groups {
		for _, name := range g {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// Clone deep-copies a group list.
func Clone(groups []Group) []Group {
	if groups == nil {
		return nil
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = append(Group(nil), g...)
	}
	return out
}

// Without returns groups with the given names removed. Groups left empty
// are dropped.
func Without(groups []Group, names ...string) []Group {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		kept := make(Group, 0, len(g))
		for _, name := range g {
			if _, ok := drop[name]; !ok {
				kept = append(kept, name)
			}
		}
		if len(kept) > 0 {
			out = append(out, kept)
		}
	}
	return out
}
