package musictext

import "fmt"

// NotationSystem identifies the pitch vocabulary of a stave.
type NotationSystem uint8

const (
	SystemNumber  NotationSystem = iota // 1 2 3 4 5 6 7
	SystemWestern                       // C D E F G A B
	SystemSargam                        // S R G M P D N
)

// String returns the system name.
func (s NotationSystem) String() string {
	switch s {
	case SystemNumber:
		return "number"
	case SystemWestern:
		return "western"
	case SystemSargam:
		return "sargam"
	default:
		return "unknown"
	}
}

// Position represents a source location. Row and Col are 0-based;
// CharIndex is the absolute character (rune) offset into the source,
// so back-end spans line up with the original input.
type Position struct {
	Row       int
	Col       int
	CharIndex int
}

// String returns position as "row:col".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Degree is a scale degree with accidental: seven degrees times five
// accidentals (bb, b, natural, #, ##). It carries no octave.
type Degree uint8

const (
	// 1 series (Do/Sa/C)
	N1bb Degree = iota
	N1b
	N1
	N1s
	N1ss
	// 2 series (Re/D)
	N2bb
	N2b
	N2
	N2s
	N2ss
	// 3 series (Mi/Ga/E)
	N3bb
	N3b
	N3
	N3s
	N3ss
	// 4 series (Fa/Ma/F)
	N4bb
	N4b
	N4
	N4s
	N4ss
	// 5 series (Sol/Pa/G)
	N5bb
	N5b
	N5
	N5s
	N5ss
	// 6 series (La/Dha/A)
	N6bb
	N6b
	N6
	N6s
	N6ss
	// 7 series (Ti/Ni/B)
	N7bb
	N7b
	N7
	N7s
	N7ss

	degreeCount
)

// Step returns the 0-based scale step (0..6).
func (d Degree) Step() int { return int(d) / 5 }

// Alter returns the accidental offset in semitones (-2..+2).
func (d Degree) Alter() int { return int(d)%5 - 2 }

// degreeAt builds a Degree from a scale step (0..6) and accidental (-2..+2).
func degreeAt(step, alter int) Degree {
	return Degree(step*5 + alter + 2)
}

// String returns a notation-neutral spelling like "1", "4#", "7bb".
func (d Degree) String() string {
	base := fmt.Sprintf("%d", d.Step()+1)
	switch d.Alter() {
	case -2:
		return base + "bb"
	case -1:
		return base + "b"
	case 1:
		return base + "#"
	case 2:
		return base + "##"
	default:
		return base
	}
}

// Role marks an element's place in a slur or beat group.
type Role uint8

const (
	RoleNone Role = iota
	RoleStart
	RoleMiddle
	RoleEnd
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleMiddle:
		return "middle"
	case RoleEnd:
		return "end"
	default:
		return "none"
	}
}

// BarlineStyle enumerates the recognised barline glyphs.
type BarlineStyle uint8

const (
	BarSingle      BarlineStyle = iota // |
	BarDouble                          // ||
	BarRepeatStart                     // |:
	BarRepeatEnd                       // :|
	BarFinal                           // |.
	BarRepeatBoth                      // :|:
)

// String returns the source spelling of the barline.
func (b BarlineStyle) String() string {
	switch b {
	case BarDouble:
		return "||"
	case BarRepeatStart:
		return "|:"
	case BarRepeatEnd:
		return ":|"
	case BarFinal:
		return "|."
	case BarRepeatBoth:
		return ":|:"
	default:
		return "|"
	}
}

// barlineStyleOf maps a scanned barline spelling to its style.
func barlineStyleOf(s string) (BarlineStyle, bool) {
	switch s {
	case "|":
		return BarSingle, true
	case "||":
		return BarDouble, true
	case "|:":
		return BarRepeatStart, true
	case ":|":
		return BarRepeatEnd, true
	case "|.":
		return BarFinal, true
	case ":|:":
		return BarRepeatBoth, true
	default:
		return BarSingle, false
	}
}

// ElementKind tags the variants of Element.
type ElementKind uint8

const (
	KindNote ElementKind = iota
	KindRest
	KindDash
	KindBarline
	KindWhitespace
	KindNewline
	KindSymbol
	KindUnknown
	KindSlurStart
	KindSlurEnd
)

// String returns the kind name in kebab case (used by the editor backend).
func (k ElementKind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindRest:
		return "rest"
	case KindDash:
		return "dash"
	case KindBarline:
		return "barline"
	case KindWhitespace:
		return "whitespace"
	case KindNewline:
		return "newline"
	case KindSymbol:
		return "symbol"
	case KindSlurStart:
		return "slur-start"
	case KindSlurEnd:
		return "slur-end"
	default:
		return "unknown"
	}
}

// OrnamentKind enumerates ornament children.
type OrnamentKind uint8

const (
	OrnamentMordent OrnamentKind = iota
	OrnamentGrace
)

// String returns the ornament name.
func (o OrnamentKind) String() string {
	if o == OrnamentMordent {
		return "mordent"
	}
	return "grace"
}

// ChildKind tags the variants of Child.
type ChildKind uint8

const (
	ChildOctaveMarker ChildKind = iota
	ChildOrnament
	ChildSyllable
	ChildBeatGroup
)

// Child is an annotation attached to a note by the spatial assigner.
// Distance is the row offset of the source line relative to the content
// line (negative above, positive below). For beat groups Span is the
// column width of the underscore run.
type Child struct {
	Kind     ChildKind
	Symbol   string
	Distance int
	Ornament OrnamentKind
	Text     string
	Span     int
}

// Element is one token of a content line, enriched in place by the
// spatial assigner. Kind selects which fields are meaningful:
//
//	Note:     Degree, Octave, Children, Slur/BeatGroup flags
//	Dash:     Degree/HasDegree and Octave when a tie was inferred
//	Barline:  Bar, Tala (-1 when absent)
//	others:   Value and Pos only
type Element struct {
	Kind  ElementKind
	Value string
	Pos   Position

	Degree    Degree
	HasDegree bool
	Octave    int
	Children  []Child

	Slur        Role
	InSlur      bool
	BeatGroup   Role
	InBeatGroup bool

	Bar  BarlineStyle
	Tala int
}

// BeatElement is one event inside a finished beat. Duration is the
// element's exact share of a quarter-note beat; TupletDuration is the
// display duration inside a tuplet wrapper. Both are always set.
type BeatElement struct {
	Kind         ElementKind // KindNote, KindRest or KindUnknown
	Degree       Degree
	HasDegree    bool
	Octave       int
	Subdivisions int

	Duration              Fraction
	TupletDuration        Fraction
	TupletDisplayDuration *Fraction

	Value    string
	Pos      Position
	Children []Child
	Syllable string

	Slur        Role
	InSlur      bool
	BeatGroup   Role
	InBeatGroup bool
}

// Beat is a maximal run of subdivisions uninterrupted by whitespace or
// barlines; the unit of tuplet analysis.
type Beat struct {
	Divisions      int
	Elements       []BeatElement
	TiedToPrevious bool
	IsTuplet       bool
	TupletRatio    [2]int // (divisions, power of two) when IsTuplet
}

// ItemKind tags the rhythm FSM's output alphabet.
type ItemKind uint8

const (
	ItemBeat ItemKind = iota
	ItemBarline
	ItemBreathmark
	ItemTonic
)

// Item is one output symbol of the rhythm FSM.
type Item struct {
	Kind  ItemKind
	Beat  *Beat
	Bar   BarlineStyle
	Tala  int // -1 when absent
	Tonic Degree
}

// LineKind classifies a line within a stave.
type LineKind uint8

const (
	LineContent LineKind = iota
	LineUpper
	LineLower
	LineLyrics
	LineText
)

// String returns the line kind name.
func (k LineKind) String() string {
	switch k {
	case LineContent:
		return "content"
	case LineUpper:
		return "upper"
	case LineLower:
		return "lower"
	case LineLyrics:
		return "lyrics"
	default:
		return "text"
	}
}

// StaveLine is one classified line of a stave. Content lines carry
// Elements; upper/lower lines carry Annots; lyrics lines carry Syllables.
type StaveLine struct {
	Kind      LineKind
	Row       int
	Start     int // char index of column 0 in the source
	Text      string
	Elements  []Element
	Annots    []Annot
	Syllables []Syllable
}

// Stave is one recognised stave: its classified lines, the notation
// system fixed by the detector, and (after the rhythm FSM) the resolved
// rhythm items.
type Stave struct {
	Lines           []StaveLine
	Rhythm          []Item // nil until the rhythm FSM has run
	Notation        NotationSystem
	Source          string
	BeginMultiStave bool
	EndMultiStave   bool
}

// contentLine returns the stave's content line, if any.
func (s *Stave) contentLine() *StaveLine {
	for i := range s.Lines {
		if s.Lines[i].Kind == LineContent {
			return &s.Lines[i]
		}
	}
	return nil
}

// Directive is one key:value header entry. Keys are matched
// case-insensitively but stored case-preserving, in insertion order.
type Directive struct {
	Key   string
	Value string
	Pos   Position
}

// DocElementKind tags the variants of DocElement.
type DocElementKind uint8

const (
	DocBlankLines DocElementKind = iota
	DocStave
)

// DocElement is either a run of blank lines or a stave.
type DocElement struct {
	Kind       DocElementKind
	BlankCount int
	Stave      *Stave
}

// Document is the fully resolved notation document.
type Document struct {
	Directives []Directive
	Elements   []DocElement
	Source     string
}

// Directive returns the value of the named directive, matched
// case-insensitively.
func (d *Document) Directive(key string) (string, bool) {
	for _, dir := range d.Directives {
		if equalFold(dir.Key, key) {
			return dir.Value, true
		}
	}
	return "", false
}

// Title returns the title directive, if present.
func (d *Document) Title() (string, bool) { return d.Directive("title") }

// Author returns the author (or composer) directive, if present.
func (d *Document) Author() (string, bool) {
	if v, ok := d.Directive("author"); ok {
		return v, true
	}
	return d.Directive("composer")
}

// Staves returns the document's staves in order.
func (d *Document) Staves() []*Stave {
	var out []*Stave
	for _, el := range d.Elements {
		if el.Kind == DocStave {
			out = append(out, el.Stave)
		}
	}
	return out
}

// equalFold is ASCII case-insensitive equality (directive keys are ASCII).
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
