package musictext

import "unicode"

// Source is a marker's text payload with move semantics. Attaching a
// marker to a content element takes the string out, leaving nil behind,
// so a later validation pass can assert that every marker was consumed.
type Source struct {
	value *string
}

// NewSource wraps a payload.
func NewSource(v string) Source {
	return Source{value: &v}
}

// Take moves the payload out. The second return is false when the
// payload was already consumed.
func (s *Source) Take() (string, bool) {
	if s.value == nil {
		return "", false
	}
	v := *s.value
	s.value = nil
	return v, true
}

// Consumed reports whether the payload has been taken.
func (s *Source) Consumed() bool { return s.value == nil }

// AnnotKind tags the variants of Annot.
type AnnotKind uint8

const (
	AnnotSpace AnnotKind = iota
	AnnotOctaveMarker
	AnnotSlur
	AnnotBeatGroup
	AnnotOrnament
	AnnotTala
	AnnotSyllable
	AnnotUnknown
)

// String returns the annot kind name.
func (k AnnotKind) String() string {
	switch k {
	case AnnotSpace:
		return "space"
	case AnnotOctaveMarker:
		return "octave-marker"
	case AnnotSlur:
		return "slur"
	case AnnotBeatGroup:
		return "beat-group"
	case AnnotOrnament:
		return "ornament"
	case AnnotTala:
		return "tala"
	case AnnotSyllable:
		return "syllable"
	default:
		return "unknown"
	}
}

// Annot is one element of an upper or lower annotation line. StartCol
// and EndCol span the run for slurs, beat groups and spaces; for single
// glyphs they both equal Pos.Col. The retained columns make spatial
// assignment a pure zip, with no re-scan of the line.
type Annot struct {
	Kind     AnnotKind
	Source   Source
	Pos      Position
	StartCol int
	EndCol   int
	Count    int          // spaces
	Shift    int          // octave delta for markers
	Ornament OrnamentKind // for AnnotOrnament
	Digit    int          // for AnnotTala
}

// Syllable is one lyrics word with a movable payload.
type Syllable struct {
	Source Source
	Pos    Position
}

// octaveShift maps a marker glyph to its octave delta. Upper-line
// markers raise, lower-line markers lower.
func octaveShift(ch rune, upper bool) (int, bool) {
	var n int
	switch ch {
	case '.':
		n = 1
	case ':':
		n = 2
	case '*':
		n = 3
	case '\'':
		n = 4
	default:
		return 0, false
	}
	if !upper {
		n = -n
	}
	return n, true
}

// parseUpperLine tokenizes an upper annotation line into an ordered
// element stream. lineStart is the character index of column 0.
func parseUpperLine(text string, row, lineStart int) []Annot {
	runes := []rune(text)
	var out []Annot
	col := 0
	pos := func(c int) Position {
		return Position{Row: row, Col: c, CharIndex: lineStart + c}
	}
	for col < len(runes) {
		ch := runes[col]
		start := col
		switch {
		case ch == ' ' || ch == '\t':
			for col < len(runes) && (runes[col] == ' ' || runes[col] == '\t') {
				col++
			}
			out = append(out, Annot{
				Kind: AnnotSpace, Pos: pos(start),
				StartCol: start, EndCol: col - 1, Count: col - start,
			})
		case ch == '_':
			for col < len(runes) && runes[col] == '_' {
				col++
			}
			kind := AnnotSlur
			if col-start < 2 {
				kind = AnnotUnknown
			}
			out = append(out, Annot{
				Kind: kind, Source: NewSource(string(runes[start:col])),
				Pos: pos(start), StartCol: start, EndCol: col - 1,
			})
		case ch == '~':
			for col < len(runes) && runes[col] == '~' {
				col++
			}
			out = append(out, Annot{
				Kind: AnnotOrnament, Source: NewSource(string(runes[start:col])),
				Pos: pos(start), StartCol: start, EndCol: col - 1,
				Ornament: OrnamentMordent,
			})
		case ch == '<' || ch == '[':
			closer := '>'
			if ch == '[' {
				closer = ']'
			}
			col++
			for col < len(runes) && runes[col] != closer {
				col++
			}
			if col < len(runes) {
				col++ // include the closing bracket
			}
			out = append(out, Annot{
				Kind: AnnotOrnament, Source: NewSource(string(runes[start:col])),
				Pos: pos(start), StartCol: start, EndCol: col - 1,
				Ornament: OrnamentGrace,
			})
		case ch >= '0' && ch <= '6':
			col++
			out = append(out, Annot{
				Kind: AnnotTala, Source: NewSource(string(ch)),
				Pos: pos(start), StartCol: start, EndCol: start,
				Digit: int(ch - '0'),
			})
		default:
			if shift, ok := octaveShift(ch, true); ok {
				col++
				out = append(out, Annot{
					Kind: AnnotOctaveMarker, Source: NewSource(string(ch)),
					Pos: pos(start), StartCol: start, EndCol: start,
					Shift: shift,
				})
				break
			}
			col++
			out = append(out, Annot{
				Kind: AnnotUnknown, Source: NewSource(string(ch)),
				Pos: pos(start), StartCol: start, EndCol: start,
			})
		}
	}
	return out
}

// parseLowerLine tokenizes a lower annotation line. Octave markers
// lower here; underscore runs are beat groups; alphabetic words are
// inline syllables.
func parseLowerLine(text string, row, lineStart int) []Annot {
	runes := []rune(text)
	var out []Annot
	col := 0
	pos := func(c int) Position {
		return Position{Row: row, Col: c, CharIndex: lineStart + c}
	}
	for col < len(runes) {
		ch := runes[col]
		start := col
		switch {
		case ch == ' ' || ch == '\t':
			for col < len(runes) && (runes[col] == ' ' || runes[col] == '\t') {
				col++
			}
			out = append(out, Annot{
				Kind: AnnotSpace, Pos: pos(start),
				StartCol: start, EndCol: col - 1, Count: col - start,
			})
		case ch == '_':
			for col < len(runes) && runes[col] == '_' {
				col++
			}
			kind := AnnotBeatGroup
			if col-start < 2 {
				kind = AnnotUnknown
			}
			out = append(out, Annot{
				Kind: kind, Source: NewSource(string(runes[start:col])),
				Pos: pos(start), StartCol: start, EndCol: col - 1,
			})
		case unicode.IsLetter(ch):
			for col < len(runes) && (unicode.IsLetter(runes[col]) || runes[col] == '-' || runes[col] == '\'') {
				col++
			}
			out = append(out, Annot{
				Kind: AnnotSyllable, Source: NewSource(string(runes[start:col])),
				Pos: pos(start), StartCol: start, EndCol: col - 1,
			})
		default:
			if shift, ok := octaveShift(ch, false); ok {
				col++
				out = append(out, Annot{
					Kind: AnnotOctaveMarker, Source: NewSource(string(ch)),
					Pos: pos(start), StartCol: start, EndCol: start,
					Shift: shift,
				})
				break
			}
			col++
			out = append(out, Annot{
				Kind: AnnotUnknown, Source: NewSource(string(ch)),
				Pos: pos(start), StartCol: start, EndCol: start,
			})
		}
	}
	return out
}

// parseLyricsLine splits a lyrics line into space-separated syllables.
func parseLyricsLine(text string, row, lineStart int) []Syllable {
	runes := []rune(text)
	var out []Syllable
	col := 0
	for col < len(runes) {
		if runes[col] == ' ' || runes[col] == '\t' {
			col++
			continue
		}
		start := col
		for col < len(runes) && runes[col] != ' ' && runes[col] != '\t' {
			col++
		}
		out = append(out, Syllable{
			Source: NewSource(string(runes[start:col])),
			Pos:    Position{Row: row, Col: start, CharIndex: lineStart + start},
		})
	}
	return out
}
