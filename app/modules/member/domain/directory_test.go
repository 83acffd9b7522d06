package memberdomain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDirectory() Directory {
	return NewDirectory(
		Member{Name: "김철수", Gender: GenderMale, Available: true},
		Member{Name: "이영희", Gender: GenderFemale, Available: true},
		Member{Name: "박민수", Gender: GenderMale, Available: true},
	)
}

func TestNewDirectory_DuplicateKeepsFirstPosition(t *testing.T) {
	d := NewDirectory(
		Member{Name: "A", Gender: GenderMale, Available: true},
		Member{Name: "B", Gender: GenderMale, Available: true},
		Member{Name: "A", Gender: GenderFemale, Available: true},
	)

	want := []Member{
		{Name: "A", Gender: GenderFemale, Available: true},
		{Name: "B", Gender: GenderMale, Available: true},
	}
	if diff := cmp.Diff(want, d.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestDirectory_Add(t *testing.T) {
	tests := []struct {
		name      string
		addName   string
		gender    Gender
		wantAdded bool
		wantErr   error
		wantLen   int
	}{
		{name: "new member", addName: "최지은", gender: GenderFemale, wantAdded: true, wantLen: 4},
		{name: "existing member is a no-op", addName: "김철수", gender: GenderFemale, wantAdded: false, wantLen: 3},
		{name: "blank name rejected", addName: "   ", gender: GenderMale, wantErr: ErrInvalidName, wantLen: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDirectory()
			added, err := d.Add(tt.addName, tt.gender)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add() error = %v, want %v", err, tt.wantErr)
			}
			if added != tt.wantAdded {
				t.Errorf("Add() added = %v, want %v", added, tt.wantAdded)
			}
			if d.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", d.Len(), tt.wantLen)
			}
		})
	}
}

func TestDirectory_AddIsIdempotent(t *testing.T) {
	d := sampleDirectory()
	if err := d.SetAvailability("김철수", false); err != nil {
		t.Fatal(err)
	}

	if _, err := d.Add("김철수", GenderFemale); err != nil {
		t.Fatal(err)
	}

	m, _ := d.Get("김철수")
	if m.Available || m.Gender != GenderMale {
		t.Errorf("existing member was reset: %+v", m)
	}
}

func TestDirectory_Remove(t *testing.T) {
	d := sampleDirectory()
	removed := d.Remove("이영희", "없는사람")

	if diff := cmp.Diff([]string{"이영희"}, removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if d.Has("이영희") {
		t.Error("member still present after Remove")
	}
	if diff := cmp.Diff([]string{"김철수", "박민수"}, d.AvailableNames()); diff != "" {
		t.Errorf("AvailableNames mismatch (-want +got):\n%s", diff)
	}
	if got := d.Remove("없는사람"); got != nil {
		t.Errorf("Remove(unknown) = %v, want nil", got)
	}
}

func TestDirectory_SetAvailability(t *testing.T) {
	d := sampleDirectory()
	if err := d.SetAvailability("박민수", false); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if err := d.SetAvailability("nobody", true); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("SetAvailability(unknown) error = %v, want ErrMemberNotFound", err)
	}

	want := Availability{
		Available:   []string{"김철수", "이영희"},
		Unavailable: []string{"박민수"},
	}
	if diff := cmp.Diff(want, d.Availability()); diff != "" {
		t.Errorf("Availability mismatch (-want +got):\n%s", diff)
	}
}

func TestDirectory_CloneIsIndependent(t *testing.T) {
	orig := sampleDirectory()
	clone := orig.Clone()

	clone.Remove("김철수")
	_ = clone.SetAvailability("이영희", false)

	if !orig.Has("김철수") {
		t.Error("removing from clone affected original")
	}
	if m, _ := orig.Get("이영희"); !m.Available {
		t.Error("availability change on clone affected original")
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		raw     string
		want    Gender
		wantErr bool
	}{
		{raw: "Male", want: GenderMale},
		{raw: " female ", want: GenderFemale},
		{raw: "남", want: GenderMale},
		{raw: "여자", want: GenderFemale},
		{raw: "?", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseGender(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGender(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGender(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
