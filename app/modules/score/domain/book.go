package scoredomain

// Book is the score store: one sheet per member name.
// The zero value is an empty book ready to use.
type Book struct {
	sheets map[string]ScoreSheet
}

// NewBook creates a book with an empty sheet for each name.
func NewBook(names ...string) Book {
	b := Book{sheets: make(map[string]ScoreSheet, len(names))}
	for _, n := range names {
		b.sheets[n] = ScoreSheet{}
	}
	return b
}

// Clone returns an independent copy.
func (b Book) Clone() Book {
	out := Book{sheets: make(map[string]ScoreSheet, len(b.sheets))}
	for k, v := range b.sheets {
		out.sheets[k] = v
	}
	return out
}

// Len reports the number of sheets.
func (b Book) Len() int {
	return len(b.sheets)
}

// Open creates an empty sheet for name unless one already exists.
func (b *Book) Open(name string) {
	if b.sheets == nil {
		b.sheets = make(map[string]ScoreSheet)
	}
	if _, ok := b.sheets[name]; !ok {
		b.sheets[name] = ScoreSheet{}
	}
}

// Delete drops the sheets of the given names.
func (b *Book) Delete(names ...string) {
	for _, n := range names {
		delete(b.sheets, n)
	}
}

// Sheet returns the sheet of name.
func (b Book) Sheet(name string) (ScoreSheet, bool) {
	s, ok := b.sheets[name]
	return s, ok
}

// SetScore records or clears one hole. Rounds are 1-4, holes 1-9 and
// recorded strokes 1-20.
func (b *Book) SetScore(name string, round, hole int, score HoleScore) error {
	if err := validateRound(round); err != nil {
		return err
	}
	if err := validateHole(hole); err != nil {
		return err
	}
	if v, ok := score.Value(); ok {
		if err := ValidateStrokes(v); err != nil {
			return err
		}
	}

	sheet, ok := b.sheets[name]
	if !ok {
		return ErrSheetNotFound
	}
	sheet.Rounds[round-1][hole-1] = score
	b.sheets[name] = sheet
	return nil
}

// RoundStats returns the per-round total and average for name.
func (b Book) RoundStats(name string, round int) (RoundStats, error) {
	sheet, ok := b.sheets[name]
	if !ok {
		return RoundStats{}, ErrSheetNotFound
	}
	return sheet.RoundStats(round)
}

// OverallStats returns total, best and worst hole across all rounds for name.
func (b Book) OverallStats(name string) (OverallStats, error) {
	sheet, ok := b.sheets[name]
	if !ok {
		return OverallStats{}, ErrSheetNotFound
	}
	return sheet.OverallStats(), nil
}

// AnyRecorded reports whether any member has at least one recorded hole.
func (b Book) AnyRecorded() bool {
	for _, s := range b.sheets {
		if s.OverallStats().HasData() {
			return true
		}
	}
	return false
}
