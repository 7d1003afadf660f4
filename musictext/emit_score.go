package musictext

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Score is the renderer-facing projection of a document: one element
// stream per stave plus the header attributes a score shell needs.
type Score struct {
	Staves        []ScoreStave `json:"staves"`
	Title         string       `json:"title,omitempty"`
	Author        string       `json:"author,omitempty"`
	TimeSignature string       `json:"time_signature"`
	Clef          string       `json:"clef"`
	KeySignature  string       `json:"key_signature,omitempty"`
}

// ScoreStave is one stave's flattened element stream.
type ScoreStave struct {
	Notes        []ScoreElement `json:"notes"`
	KeySignature string         `json:"key_signature,omitempty"`
}

// ScoreElement is a sum type flattened for JSON: Type selects which of
// the remaining fields are meaningful.
type ScoreElement struct {
	Type string `json:"type"` // "note", "rest", "barline", "breathe", "tuplet"

	Keys        []string          `json:"keys,omitempty"`
	Duration    string            `json:"duration,omitempty"`
	Dots        int               `json:"dots,omitempty"`
	Accidentals []ScoreAccidental `json:"accidentals,omitempty"`
	Tied        bool              `json:"tied,omitempty"`
	BeamStart   bool              `json:"beam_start,omitempty"`
	BeamEnd     bool              `json:"beam_end,omitempty"`
	Syllable    string            `json:"syllable,omitempty"`

	BarType string `json:"bar_type,omitempty"`
	Tala    *int   `json:"tala,omitempty"` // pointer so tala 0 still encodes

	Ratio     []int          `json:"ratio,omitempty"`
	Divisions int            `json:"divisions,omitempty"`
	Notes     []ScoreElement `json:"notes,omitempty"`
}

// ScoreAccidental pins an accidental glyph to a key index.
type ScoreAccidental struct {
	Index      int    `json:"index"`
	Accidental string `json:"accidental"`
}

// EmitScore projects a parsed document onto the 2-D score model.
func EmitScore(doc *Document) *Score {
	score := &Score{TimeSignature: "4/4", Clef: "treble"}
	if title, ok := doc.Title(); ok {
		score.Title = title
	}
	if author, ok := doc.Author(); ok {
		score.Author = author
	}

	tonic := N1
	hasTonic := false
	if v, ok := doc.Directive("key"); ok {
		score.KeySignature = v
		tonic = parseTonic(v)
		hasTonic = true
	}

	for _, stave := range doc.Staves() {
		ss := ScoreStave{KeySignature: score.KeySignature}
		ss.Notes = scoreStaveNotes(stave, tonic, hasTonic)
		score.Staves = append(score.Staves, ss)
	}
	return score
}

// EmitScoreJSON renders the score model as indented JSON.
func EmitScoreJSON(doc *Document) (string, error) {
	b, err := json.MarshalIndent(EmitScore(doc), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scoreStaveNotes(stave *Stave, tonic Degree, hasTonic bool) []ScoreElement {
	var out []ScoreElement
	var beats []*Beat
	for _, item := range stave.Rhythm {
		if item.Kind == ItemBeat {
			beats = append(beats, item.Beat)
		}
	}
	beatNo := 0
	for _, item := range stave.Rhythm {
		switch item.Kind {
		case ItemBeat:
			nextTied := beatNo+1 < len(beats) && beats[beatNo+1].TiedToPrevious
			out = append(out, scoreBeat(item.Beat, tonic, hasTonic, nextTied)...)
			beatNo++
		case ItemBarline:
			el := ScoreElement{Type: "barline", BarType: item.Bar.String()}
			if item.Tala >= 0 {
				tala := item.Tala
				el.Tala = &tala
			}
			out = append(out, el)
		case ItemBreathmark:
			out = append(out, ScoreElement{Type: "breathe"})
		}
	}
	return out
}

func scoreBeat(beat *Beat, tonic Degree, hasTonic bool, nextTied bool) []ScoreElement {
	var notes []ScoreElement
	for i := range beat.Elements {
		el := &beat.Elements[i]
		durs := scoreDurations(el.TupletDuration)
		switch el.Kind {
		case KindNote:
			key, accs := scoreKey(el.Degree, el.Octave, tonic, hasTonic)
			for j, d := range durs {
				notes = append(notes, ScoreElement{
					Type:        "note",
					Keys:        []string{key},
					Duration:    d.name,
					Dots:        d.dots,
					Accidentals: accs,
					Tied:        j < len(durs)-1,
					Syllable:    el.Syllable,
				})
			}
		case KindRest:
			for _, d := range durs {
				notes = append(notes, ScoreElement{
					Type:     "rest",
					Duration: d.name,
					Dots:     d.dots,
				})
			}
		}
	}
	if nextTied {
		for i := len(notes) - 1; i >= 0; i-- {
			if notes[i].Type == "note" {
				notes[i].Tied = true
				break
			}
		}
	}
	applyBeaming(notes)
	if beat.IsTuplet {
		return []ScoreElement{{
			Type:      "tuplet",
			Ratio:     []int{beat.TupletRatio[0], beat.TupletRatio[1]},
			Divisions: beat.Divisions,
			Notes:     notes,
		}}
	}
	return notes
}

// scoreKey spells a degree in the declared key as a VexFlow-style key
// string plus any accidental the signature does not already supply.
func scoreKey(degree Degree, octave int, tonic Degree, hasTonic bool) (string, []ScoreAccidental) {
	if hasTonic {
		degree, octave = transposeDegree(degree, octave, tonic)
	}
	letters := [7]string{"c", "d", "e", "f", "g", "a", "b"}
	step, alter := degree.Step(), degree.Alter()
	key := fmt.Sprintf("%s/%d", letters[step], octave+4)

	var sig [7]int
	if hasTonic {
		sig = keySignature(tonic)
	}
	if alter == sig[step] {
		return key, nil
	}
	var glyph string
	switch {
	case alter > 0:
		glyph = strings.Repeat("#", alter)
	case alter < 0:
		glyph = strings.Repeat("b", -alter)
	default:
		glyph = "n" // natural cancels the signature
	}
	return key, []ScoreAccidental{{Index: 0, Accidental: glyph}}
}

// applyBeaming marks the longest contiguous run of beamable notes.
// Runs shorter than two notes stay unbeamed.
func applyBeaming(notes []ScoreElement) {
	beamable := func(el *ScoreElement) bool {
		if el.Type != "note" {
			return false
		}
		switch el.Duration {
		case "8", "16", "32", "64":
			return true
		}
		return false
	}
	bestStart, bestLen := -1, 0
	start, length := -1, 0
	flush := func() {
		if length > bestLen {
			bestStart, bestLen = start, length
		}
		start, length = -1, 0
	}
	for i := range notes {
		if beamable(&notes[i]) {
			if start < 0 {
				start = i
			}
			length++
			continue
		}
		flush()
	}
	flush()
	if bestLen >= 2 {
		notes[bestStart].BeamStart = true
		notes[bestStart+bestLen-1].BeamEnd = true
	}
}

// scoreDur is one rendered duration with dot count.
type scoreDur struct {
	name string
	dots int
}

var scoreDurationMap = map[Fraction]scoreDur{
	{1, 1}: {"w", 0}, {1, 2}: {"h", 0}, {1, 4}: {"q", 0}, {1, 8}: {"8", 0},
	{1, 16}: {"16", 0}, {1, 32}: {"32", 0}, {1, 64}: {"64", 0},
	{3, 2}: {"w", 1}, {3, 4}: {"h", 1}, {3, 8}: {"q", 1}, {3, 16}: {"8", 1},
	{3, 32}: {"16", 1}, {3, 64}: {"32", 1},
	{7, 4}: {"w", 2}, {7, 8}: {"h", 2}, {7, 16}: {"q", 2}, {7, 32}: {"8", 2},
	{7, 64}: {"16", 2}, {7, 128}: {"32", 2},
}

// scoreDurations decomposes an exact duration into display durations,
// mirroring the engraver mapping but in score vocabulary.
func scoreDurations(dur Fraction) []scoreDur {
	if dur.Num <= 0 || dur.Den <= 0 {
		return []scoreDur{{"q", 0}}
	}
	if d, ok := scoreDurationMap[dur]; ok {
		return []scoreDur{d}
	}
	var out []scoreDur
	rem := dur
	for rem.Num > 0 {
		if d, ok := scoreDurationMap[rem]; ok {
			out = append(out, d)
			break
		}
		best := -1
		for _, d := range standardDenoms {
			if Frac(1, d).Cmp(rem) <= 0 {
				best = d
				break
			}
		}
		if best < 0 {
			break
		}
		if d, ok := scoreDurationMap[Frac(1, best)]; ok {
			out = append(out, d)
		}
		rem = rem.Add(Frac(-1, best))
	}
	if len(out) == 0 {
		return []scoreDur{{"q", 0}}
	}
	return out
}
