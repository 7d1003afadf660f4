package musictext

import (
	"fmt"
	"strings"
)

// LilyOptions configures the engraver source emitter.
type LilyOptions struct {
	// Version string placed in the \version statement
	Version string

	// Minimal omits the header and layout wrapper, emitting just the
	// music expression
	Minimal bool

	// SourceComment reproduces the input text as a trailing comment
	SourceComment bool
}

// DefaultLilyOptions returns sensible defaults.
func DefaultLilyOptions() LilyOptions {
	return LilyOptions{Version: "2.24.0"}
}

// EmitLily converts a parsed document to LilyPond source.
func EmitLily(doc *Document) string {
	return EmitLilyWithOptions(doc, DefaultLilyOptions())
}

// EmitLilyWithOptions converts with custom options.
func EmitLilyWithOptions(doc *Document, opts LilyOptions) string {
	e := &lilyEmitter{opts: opts, tonic: N1}
	if v, ok := doc.Directive("key"); ok {
		e.tonic = parseTonic(v)
		e.hasTonic = true
	}
	return e.emit(doc)
}

type lilyEmitter struct {
	sb       strings.Builder
	opts     LilyOptions
	tonic    Degree
	hasTonic bool
}

func (e *lilyEmitter) emit(doc *Document) string {
	staves := doc.Staves()

	var bodies []string
	var lyrics []string
	for _, stave := range staves {
		bodies = append(bodies, e.emitStave(stave))
		lyrics = append(lyrics, staveLyrics(stave))
	}
	body := strings.Join(bodies, "\n    ")

	if e.opts.Minimal {
		if body == "" {
			return "% no musical content\n"
		}
		e.sb.WriteString("\\fixed c' { ")
		e.sb.WriteString(body)
		e.sb.WriteString(" }\n")
		return e.sb.String()
	}

	fmt.Fprintf(&e.sb, "\\version %q\n\n", e.opts.Version)
	if title, ok := doc.Title(); ok {
		e.sb.WriteString("\\header {\n")
		fmt.Fprintf(&e.sb, "  title = %q\n", title)
		if author, ok := doc.Author(); ok {
			fmt.Fprintf(&e.sb, "  composer = %q\n", author)
		}
		e.sb.WriteString("}\n\n")
	}
	if e.opts.SourceComment {
		for _, line := range strings.Split(strings.TrimRight(doc.Source, "\n"), "\n") {
			fmt.Fprintf(&e.sb, "%% %s\n", line)
		}
		e.sb.WriteString("\n")
	}

	if len(staves) > 1 {
		e.sb.WriteString("<<\n")
		for i, b := range bodies {
			e.sb.WriteString("  \\new Staff {\n    \\fixed c' {\n      ")
			e.sb.WriteString(e.preamble())
			e.sb.WriteString("\n      ")
			e.sb.WriteString(b)
			e.sb.WriteString("\n    }\n  }\n")
			if w := strings.TrimSpace(lyrics[i]); w != "" {
				fmt.Fprintf(&e.sb, "  \\addlyrics { %s }\n", w)
			}
		}
		e.sb.WriteString(">>\n")
		return e.sb.String()
	}

	e.sb.WriteString("\\fixed c' {\n  ")
	e.sb.WriteString(e.preamble())
	e.sb.WriteString("\n  ")
	if body == "" {
		e.sb.WriteString("R1")
	} else {
		e.sb.WriteString(body)
	}
	e.sb.WriteString("\n}\n")
	if len(lyrics) > 0 {
		if w := strings.TrimSpace(lyrics[0]); w != "" {
			fmt.Fprintf(&e.sb, "\\addlyrics { %s }\n", w)
		}
	}
	return e.sb.String()
}

func (e *lilyEmitter) preamble() string {
	return fmt.Sprintf("\\key %s \\major\n  \\time 4/4", lilyNoteName(e.tonic))
}

// emitStave folds one stave's item stream into a note sequence.
func (e *lilyEmitter) emitStave(stave *Stave) string {
	var notes []string
	for _, item := range stave.Rhythm {
		switch item.Kind {
		case ItemTonic:
			// Already folded into the emitter's tonic.
		case ItemBarline:
			notes = append(notes, lilyBarline(item.Bar))
		case ItemBreathmark:
			notes = append(notes, "\\breathe")
		case ItemBeat:
			beat := item.Beat
			beatNotes := e.emitBeat(beat)
			if beat.TiedToPrevious {
				if idx := lastNoteIndex(notes); idx >= 0 {
					notes[idx] = addTie(notes[idx])
				}
			}
			notes = append(notes, beatNotes...)
		}
	}
	return strings.Join(notes, " ")
}

func (e *lilyEmitter) emitBeat(beat *Beat) []string {
	var notes []string
	for i := range beat.Elements {
		el := &beat.Elements[i]
		dur := el.Duration
		if beat.IsTuplet {
			dur = el.TupletDuration
		}
		switch el.Kind {
		case KindNote:
			notes = append(notes, e.noteString(el, dur))
		case KindRest:
			notes = append(notes, restString(dur))
		}
	}
	if beat.IsTuplet {
		return []string{fmt.Sprintf("\\tuplet %d/%d { %s }",
			beat.TupletRatio[0], beat.TupletRatio[1], strings.Join(notes, " "))}
	}
	return notes
}

// noteString renders one pitched event: transposed pitch, octave marks,
// duration chain, ornaments and slur marks.
func (e *lilyEmitter) noteString(el *BeatElement, dur Fraction) string {
	degree, octave := el.Degree, el.Octave
	if e.hasTonic {
		degree, octave = transposeDegree(degree, octave, e.tonic)
	}
	pitch := lilyNoteName(degree) + lilyOctaveMarks(octave)

	durs := lilyDurations(dur)
	parts := make([]string, len(durs))
	for i, d := range durs {
		parts[i] = pitch + d
	}
	s := strings.Join(parts, "~ ")

	for _, c := range el.Children {
		if c.Kind == ChildOrnament && c.Ornament == OrnamentMordent {
			s += "\\mordent"
		}
	}
	if el.InSlur {
		switch el.Slur {
		case RoleStart:
			s += "("
		case RoleEnd:
			s += ")"
		}
	}
	return s
}

func restString(dur Fraction) string {
	durs := lilyDurations(dur)
	parts := make([]string, len(durs))
	for i, d := range durs {
		parts[i] = "r" + d
	}
	return strings.Join(parts, " ")
}

func lilyOctaveMarks(octave int) string {
	switch {
	case octave > 0:
		return strings.Repeat("'", octave)
	case octave < 0:
		return strings.Repeat(",", -octave)
	default:
		return ""
	}
}

// lilyBarline maps a barline style to engraver syntax. Plain bars stay
// implicit checks; decorated bars need an explicit \bar command.
func lilyBarline(style BarlineStyle) string {
	switch style {
	case BarDouble:
		return `\bar "||"`
	case BarRepeatStart:
		return `\bar ".|:"`
	case BarRepeatEnd:
		return `\bar ":|."`
	case BarRepeatBoth:
		return `\bar ":|.|:"`
	case BarFinal:
		return `\bar "|."`
	default:
		return "|"
	}
}

// lastNoteIndex finds the last entry that is an actual note, skipping
// barlines and breath marks, so a cross-beat tie lands on sound.
func lastNoteIndex(notes []string) int {
	for i := len(notes) - 1; i >= 0; i-- {
		n := notes[i]
		if strings.HasPrefix(n, "\\bar") || strings.HasPrefix(n, "\\breathe") || strings.HasPrefix(n, "|") || strings.HasPrefix(n, "r") {
			continue
		}
		return i
	}
	return -1
}

// addTie appends a tie, keeping it inside a closing slur mark.
func addTie(note string) string {
	if strings.HasSuffix(note, "~") {
		return note
	}
	if strings.HasSuffix(note, ")") {
		return note[:len(note)-1] + "~)"
	}
	return note + "~"
}

// staveLyrics collects the stave's syllables in note order for an
// \addlyrics block. Slur continuations keep their underscore, which the
// engraver reads as a melisma skip.
func staveLyrics(stave *Stave) string {
	var out []string
	any := false
	for _, item := range stave.Rhythm {
		if item.Kind != ItemBeat {
			continue
		}
		for i := range item.Beat.Elements {
			el := &item.Beat.Elements[i]
			if el.Kind != KindNote {
				continue
			}
			syl := el.Syllable
			if syl == "" {
				syl = "_"
			} else if syl != "_" {
				any = true
			}
			out = append(out, lyricToken(syl))
		}
	}
	if !any {
		return ""
	}
	return strings.Join(out, " ")
}

// lyricToken rewrites a syllable's trailing hyphen into the engraver's
// " -- " continuation.
func lyricToken(syl string) string {
	if strings.HasSuffix(syl, "-") && len(syl) > 1 {
		return strings.TrimSuffix(syl, "-") + " --"
	}
	return syl
}

// lilyDurations decomposes an exact duration into engraver duration
// strings. A single standard or dotted value maps directly; anything
// else becomes a chain of standard values to be tied by the caller.
func lilyDurations(dur Fraction) []string {
	if dur.Num <= 0 || dur.Den <= 0 {
		return []string{"4"}
	}
	if s, ok := lilyDurationMap[dur]; ok {
		return []string{s}
	}

	var out []string
	rem := dur
	for rem.Num > 0 {
		if s, ok := lilyDurationMap[rem]; ok {
			out = append(out, s)
			break
		}
		// Largest standard value not exceeding the remainder.
		best := -1
		for _, d := range standardDenoms {
			if Frac(1, d).Cmp(rem) <= 0 {
				best = d
				break
			}
		}
		if best < 0 {
			return tieChain(dur)
		}
		out = append(out, fmt.Sprintf("%d", best))
		rem = rem.Add(Frac(-1, best))
	}
	return out
}

var standardDenoms = []int{1, 2, 4, 8, 16, 32, 64, 128}

var lilyDurationMap = map[Fraction]string{
	{1, 1}: "1", {1, 2}: "2", {1, 4}: "4", {1, 8}: "8",
	{1, 16}: "16", {1, 32}: "32", {1, 64}: "64", {1, 128}: "128",
	{3, 2}: "1.", {3, 4}: "2.", {3, 8}: "4.", {3, 16}: "8.",
	{3, 32}: "16.", {3, 64}: "32.", {3, 128}: "64.",
	{7, 4}: "1..", {7, 8}: "2..", {7, 16}: "4..", {7, 32}: "8..",
	{7, 64}: "16..", {7, 128}: "32..",
}

// tieChain falls back to repeating the unit note of the fraction's own
// denominator.
func tieChain(dur Fraction) []string {
	out := make([]string, 0, dur.Num)
	for i := 0; i < dur.Num; i++ {
		out = append(out, fmt.Sprintf("%d", dur.Den))
	}
	return out
}
