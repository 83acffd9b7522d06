package memberdomain

import "strings"

// Directory is the insertion-ordered set of members keyed by name.
// The zero value is an empty directory ready to use.
type Directory struct {
	order   []string
	members map[string]Member
}

// NewDirectory builds a directory from roster entries. A repeated name keeps
// its first position and takes the later entry's attributes.
func NewDirectory(members ...Member) Directory {
	d := Directory{}
	for _, m := range members {
		d.put(m)
	}
	return d
}

func (d *Directory) put(m Member) {
	if d.members == nil {
		d.members = make(map[string]Member)
	}
	if _, ok := d.members[m.Name]; !ok {
		d.order = append(d.order, m.Name)
	}
	d.members[m.Name] = m
}

// Clone returns an independent copy.
func (d Directory) Clone() Directory {
	out := Directory{
		order:   make([]string, len(d.order)),
		members: make(map[string]Member, len(d.members)),
	}
	copy(out.order, d.order)
	for k, v := range d.members {
		out.members[k] = v
	}
	return out
}

// Len reports the number of members.
func (d Directory) Len() int {
	return len(d.order)
}

// Get looks a member up by name.
func (d Directory) Get(name string) (Member, bool) {
	m, ok := d.members[name]
	return m, ok
}

// Has reports whether name is in the directory.
func (d Directory) Has(name string) bool {
	_, ok := d.members[name]
	return ok
}

// Add inserts a new available member. It reports false, leaving the existing
// entry untouched, when the name is already present.
func (d *Directory) Add(name string, gender Gender) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrInvalidName
	}
	if d.Has(name) {
		return false, nil
	}
	d.put(Member{Name: name, Gender: gender, Available: true})
	return true, nil
}

// Remove deletes the named members and returns the names actually removed.
// Unknown names are ignored.
func (d *Directory) Remove(names ...string) []string {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		if d.Has(n) {
			drop[n] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return nil
	}

	removed := make([]string, 0, len(drop))
	kept := d.order[:0:0]
	for _, n := range d.order {
		if _, ok := drop[n]; ok {
			removed = append(removed, n)
			delete(d.members, n)
			continue
		}
		kept = append(kept, n)
	}
	d.order = kept
	return removed
}

// SetAvailability sets the attendance flag of one member.
func (d *Directory) SetAvailability(name string, available bool) error {
	m, ok := d.members[name]
	if !ok {
		return ErrMemberNotFound
	}
	m.Available = available
	d.members[name] = m
	return nil
}

// List returns members in roster order.
func (d Directory) List() []Member {
	out := make([]Member, 0, len(d.order))
	for _, n := range d.order {
		out = append(out, d.members[n])
	}
	return out
}

// AvailableNames returns the attending members in roster order.
func (d Directory) AvailableNames() []string {
	out := make([]string, 0, len(d.order))
	for _, n := range d.order {
		if d.members[n].Available {
			out = append(out, n)
		}
	}
	return out
}

// Availability partitions the roster by attendance.
func (d Directory) Availability() Availability {
	a := Availability{Available: []string{}, Unavailable: []string{}}
	for _, n := range d.order {
		if d.members[n].Available {
			a.Available = append(a.Available, n)
		} else {
			a.Unavailable = append(a.Unavailable, n)
		}
	}
	return a
}
