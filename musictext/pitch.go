package musictext

import (
	"sort"
	"strings"
)

// Pitch vocabularies. Each notation system maps multi-character symbols
// to degrees; the tokenizer scans them longest-first so "1bb" beats
// "1b" and the Unicode accidentals are tried before their ASCII forms.

var numberDegrees = map[string]Degree{
	"1": N1, "2": N2, "3": N3, "4": N4, "5": N5, "6": N6, "7": N7,
	"1#": N1s, "2#": N2s, "3#": N3s, "4#": N4s, "5#": N5s, "6#": N6s, "7#": N7s,
	"1b": N1b, "2b": N2b, "3b": N3b, "4b": N4b, "5b": N5b, "6b": N6b, "7b": N7b,
	"1##": N1ss, "2##": N2ss, "3##": N3ss, "4##": N4ss, "5##": N5ss, "6##": N6ss, "7##": N7ss,
	"1bb": N1bb, "2bb": N2bb, "3bb": N3bb, "4bb": N4bb, "5bb": N5bb, "6bb": N6bb, "7bb": N7bb,
}

var westernDegrees = map[string]Degree{
	"C": N1, "D": N2, "E": N3, "F": N4, "G": N5, "A": N6, "B": N7,
	"C#": N1s, "D#": N2s, "E#": N3s, "F#": N4s, "G#": N5s, "A#": N6s, "B#": N7s,
	"Cb": N1b, "Db": N2b, "Eb": N3b, "Fb": N4b, "Gb": N5b, "Ab": N6b, "Bb": N7b,
	"C##": N1ss, "D##": N2ss, "E##": N3ss, "F##": N4ss, "G##": N5ss, "A##": N6ss, "B##": N7ss,
	"Cbb": N1bb, "Dbb": N2bb, "Ebb": N3bb, "Fbb": N4bb, "Gbb": N5bb, "Abb": N6bb, "Bbb": N7bb,
}

// Sargam case conveys the accidental: lowercase r g d n are the komal
// (flat) forms, M is tivra Ma. Explicit accidentals attach to the
// uppercase letters.
var sargamDegrees = map[string]Degree{
	"S": N1, "s": N1,
	"R": N2, "r": N2b,
	"G": N3, "g": N3b,
	"m": N4, "M": N4s,
	"P": N5, "p": N5,
	"D": N6, "d": N6b,
	"N": N7, "n": N7b,
	"S#": N1s, "s#": N1s,
	"R#": N2s, "Rb": N2b,
	"G#": N3s, "Gb": N3b,
	"M#": N4ss, "Mb": N4b,
	"P#": N5s, "p#": N5s, "Pb": N5b, "pb": N5b,
	"D#": N6s, "Db": N6b,
	"N#": N7s, "Nb": N7b,
}

// unicodeAccidentals rewrites ♯/♭ to their ASCII forms before lookup,
// so the tables above stay small.
var unicodeAccidentals = strings.NewReplacer("♯", "#", "♭", "b")

// degreeTable returns the symbol table for a system.
func degreeTable(system NotationSystem) map[string]Degree {
	switch system {
	case SystemWestern:
		return westernDegrees
	case SystemSargam:
		return sargamDegrees
	default:
		return numberDegrees
	}
}

// lookupPitch resolves a source symbol within a notation system.
func lookupPitch(symbol string, system NotationSystem) (Degree, bool) {
	d, ok := degreeTable(system)[unicodeAccidentals.Replace(symbol)]
	return d, ok
}

// vocabulary returns the system's symbols sorted longest-first (then
// lexically, for a stable scan order), with Unicode accidental variants
// included ahead of their ASCII spellings of the same length class.
func vocabulary(system NotationSystem) []string {
	table := degreeTable(system)
	syms := make([]string, 0, len(table)*2)
	for s := range table {
		syms = append(syms, s)
		if strings.ContainsAny(s, "#b") && len(s) > 1 {
			u := strings.ReplaceAll(s, "#", "♯")
			// Only the accidental suffix is rewritten; a leading "b"
			// base letter never occurs in these tables.
			u = u[:1] + strings.ReplaceAll(u[1:], "b", "♭")
			syms = append(syms, u)
		}
	}
	sortVocabulary(syms)
	return syms
}

func sortVocabulary(syms []string) {
	sort.Slice(syms, func(i, j int) bool {
		li, lj := len([]rune(syms[i])), len([]rune(syms[j]))
		if li != lj {
			return li > lj
		}
		return syms[i] < syms[j]
	})
}

// majorScaleSemitones maps scale step 0..6 to semitones above the tonic.
var majorScaleSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

// Semitone returns the degree's semitone offset from the tonic (may be
// negative or exceed 11 for extreme accidentals).
func (d Degree) Semitone() int {
	return majorScaleSemitones[d.Step()] + d.Alter()
}

// semitoneSpelling maps a semitone within the octave to (step, alter),
// preferring flats for the black keys. This is the fixed
// semitone-to-letter table used by both back-ends.
var semitoneSpelling = [12][2]int{
	{0, 0},  // C
	{0, 1},  // C#
	{1, 0},  // D
	{2, -1}, // Eb
	{2, 0},  // E
	{3, 0},  // F
	{3, 1},  // F#
	{4, 0},  // G
	{5, -1}, // Ab
	{5, 0},  // A
	{6, -1}, // Bb
	{6, 0},  // B
}

// transposeDegree shifts a degree (with octave) from movable-do into the
// declared tonic. The result is respelled by the fixed table; octave
// carries any wrap.
func transposeDegree(d Degree, octave int, tonic Degree) (Degree, int) {
	total := d.Semitone() + tonic.Semitone()
	shift := total
	oct := octave
	for shift < 0 {
		shift += 12
		oct--
	}
	oct += shift / 12
	shift %= 12
	sp := semitoneSpelling[shift]
	return degreeAt(sp[0], sp[1]), oct
}

// keySignature returns, for a declared key degree, the accidental
// applied by the signature to each letter step (0..6): -1 flat, 0
// natural, +1 sharp. Derived from the circle of fifths.
func keySignature(tonic Degree) [7]int {
	var sig [7]int
	// Order in which sharps/flats accumulate, as letter steps:
	// F C G D A E B for sharps, reversed for flats.
	sharpOrder := [7]int{3, 0, 4, 1, 5, 2, 6}
	// Count of sharps (positive) or flats (negative) per tonic semitone,
	// preferring the flat-side spelling used by semitoneSpelling.
	var count int
	switch ((tonic.Semitone() % 12) + 12) % 12 {
	case 0:
		count = 0 // C
	case 7:
		count = 1 // G
	case 2:
		count = 2 // D
	case 9:
		count = 3 // A
	case 4:
		count = 4 // E
	case 11:
		count = 5 // B
	case 5:
		count = -1 // F
	case 10:
		count = -2 // Bb
	case 3:
		count = -3 // Eb
	case 8:
		count = -4 // Ab
	case 1:
		count = -5 // Db
	case 6:
		count = -6 // Gb
	}
	if count > 0 {
		for i := 0; i < count; i++ {
			sig[sharpOrder[i]] = 1
		}
	} else if count < 0 {
		for i := 0; i < -count; i++ {
			sig[sharpOrder[6-i]] = -1
		}
	}
	return sig
}

// parseTonic reads a key directive value ("Bb", "f#", "D") as a Western
// degree. Fails quietly to C when the value is not a pitch.
func parseTonic(value string) Degree {
	v := strings.TrimSpace(value)
	if v == "" {
		return N1
	}
	v = strings.ToUpper(v[:1]) + v[1:]
	if d, ok := lookupPitch(v, SystemWestern); ok {
		return d
	}
	return N1
}

// letterNames spells letter steps for the score backend.
var letterNames = [7]string{"C", "D", "E", "F", "G", "A", "B"}

// accidentalNames spells alters for the score backend.
func accidentalName(alter int) string {
	switch alter {
	case -2:
		return "bb"
	case -1:
		return "b"
	case 1:
		return "#"
	case 2:
		return "##"
	default:
		return ""
	}
}

// lilyNoteNames spells a degree as a LilyPond note name ("cs", "ef").
var lilyAccidentals = [5]string{"ff", "f", "", "s", "ss"}

func lilyNoteName(d Degree) string {
	letters := [7]string{"c", "d", "e", "f", "g", "a", "b"}
	return letters[d.Step()] + lilyAccidentals[d.Alter()+2]
}
