package musictext

import (
	"strings"
	"testing"
)

// scoreNotes parses input and returns the first stave's element stream.
func scoreNotes(t *testing.T, input string) []ScoreElement {
	t.Helper()
	res := mustParse(t, input)
	score := EmitScore(res.Document)
	if len(score.Staves) != 1 {
		t.Fatalf("Expected 1 stave, got %d", len(score.Staves))
	}
	return score.Staves[0].Notes
}

func TestEmitScore_Basic(t *testing.T) {
	res := mustParse(t, "|1 2 3")
	score := EmitScore(res.Document)
	if score.TimeSignature != "4/4" || score.Clef != "treble" {
		t.Errorf("Header = (%q, %q)", score.TimeSignature, score.Clef)
	}
	notes := score.Staves[0].Notes
	if len(notes) != 4 {
		t.Fatalf("Expected 4 elements, got %d", len(notes))
	}
	if notes[0].Type != "barline" || notes[0].BarType != "|" {
		t.Errorf("Element 0 = %+v", notes[0])
	}
	wantKeys := []string{"c/4", "d/4", "e/4"}
	for i, k := range wantKeys {
		el := notes[i+1]
		if el.Type != "note" || len(el.Keys) != 1 || el.Keys[0] != k {
			t.Errorf("Element %d = %+v, want key %q", i+1, el, k)
		}
		if el.Duration != "q" || el.Dots != 0 {
			t.Errorf("Element %d: duration = %q dots %d", i+1, el.Duration, el.Dots)
		}
	}
}

func TestEmitScore_TalaZero(t *testing.T) {
	notes := scoreNotes(t, "0\n|1 2 3\n")
	if notes[0].Type != "barline" {
		t.Fatalf("Element 0 = %+v, want barline", notes[0])
	}
	if notes[0].Tala == nil || *notes[0].Tala != 0 {
		t.Errorf("Tala = %v, want 0", notes[0].Tala)
	}

	out, err := EmitScoreJSON(mustParse(t, "0\n|1 2 3\n").Document)
	if err != nil {
		t.Fatalf("EmitScoreJSON error: %v", err)
	}
	if !strings.Contains(out, "\"tala\": 0") {
		t.Error("Score JSON should carry tala 0 on the barline")
	}
}

func TestEmitScore_BarlineWithoutTala(t *testing.T) {
	notes := scoreNotes(t, "|1 2 3")
	if notes[0].Tala != nil {
		t.Errorf("Tala = %d, want unset", *notes[0].Tala)
	}
}

func TestEmitScore_TupletWrapper(t *testing.T) {
	notes := scoreNotes(t, "|1 2-3")
	if len(notes) != 3 {
		t.Fatalf("Expected 3 elements, got %d", len(notes))
	}
	tup := notes[2]
	if tup.Type != "tuplet" {
		t.Fatalf("Element 2 type = %q, want tuplet", tup.Type)
	}
	if len(tup.Ratio) != 2 || tup.Ratio[0] != 3 || tup.Ratio[1] != 2 {
		t.Errorf("Ratio = %v, want [3 2]", tup.Ratio)
	}
	if tup.Divisions != 3 {
		t.Errorf("Divisions = %d, want 3", tup.Divisions)
	}
	if len(tup.Notes) != 2 {
		t.Fatalf("Expected 2 inner notes, got %d", len(tup.Notes))
	}
	if tup.Notes[0].Duration != "q" || tup.Notes[1].Duration != "8" {
		t.Errorf("Inner durations = %q, %q", tup.Notes[0].Duration, tup.Notes[1].Duration)
	}
}

func TestEmitScore_Accidentals(t *testing.T) {
	notes := scoreNotes(t, "|1# 2 3")
	sharp := notes[1]
	if len(sharp.Accidentals) != 1 || sharp.Accidentals[0].Accidental != "#" {
		t.Errorf("Accidentals = %v, want a sharp", sharp.Accidentals)
	}
	if sharp.Keys[0] != "c/4" {
		t.Errorf("Key = %q, want c/4", sharp.Keys[0])
	}
	if len(notes[2].Accidentals) != 0 {
		t.Errorf("Plain note has accidentals: %v", notes[2].Accidentals)
	}
}

func TestEmitScore_KeySignatureSuppression(t *testing.T) {
	res := mustParse(t, "key: D\n\n|1 2 3\n")
	score := EmitScore(res.Document)
	if score.KeySignature != "D" {
		t.Errorf("KeySignature = %q, want D", score.KeySignature)
	}
	notes := score.Staves[0].Notes
	wantKeys := []string{"d/4", "e/4", "f/4"}
	for i, k := range wantKeys {
		el := notes[i+1]
		if el.Keys[0] != k {
			t.Errorf("Note %d: key = %q, want %q", i, el.Keys[0], k)
		}
		// F sharp is in the D major signature; no explicit accidental.
		if len(el.Accidentals) != 0 {
			t.Errorf("Note %d: accidentals = %v, want none", i, el.Accidentals)
		}
	}
}

func TestEmitScore_Beaming(t *testing.T) {
	notes := scoreNotes(t, "|1-2-")
	if len(notes) != 3 {
		t.Fatalf("Expected 3 elements, got %d", len(notes))
	}
	if notes[1].Duration != "8" || notes[2].Duration != "8" {
		t.Fatalf("Durations = %q, %q, want eighths", notes[1].Duration, notes[2].Duration)
	}
	if !notes[1].BeamStart || notes[1].BeamEnd {
		t.Errorf("First eighth flags = (%v, %v)", notes[1].BeamStart, notes[1].BeamEnd)
	}
	if notes[2].BeamStart || !notes[2].BeamEnd {
		t.Errorf("Last eighth flags = (%v, %v)", notes[2].BeamStart, notes[2].BeamEnd)
	}
}

func TestEmitScore_NoBeamOnQuarters(t *testing.T) {
	notes := scoreNotes(t, "|1 2 3")
	for i, el := range notes {
		if el.BeamStart || el.BeamEnd {
			t.Errorf("Element %d unexpectedly beamed", i)
		}
	}
}

func TestEmitScore_TieAcrossBeats(t *testing.T) {
	notes := scoreNotes(t, "1 -- 2")
	if len(notes) != 3 {
		t.Fatalf("Expected 3 elements, got %d", len(notes))
	}
	if !notes[0].Tied {
		t.Error("First note should carry the tie")
	}
	if notes[1].Tied || notes[2].Tied {
		t.Error("Held and following notes must not start a tie")
	}
}

func TestEmitScore_Rest(t *testing.T) {
	notes := scoreNotes(t, "- 1 2")
	if notes[0].Type != "rest" || notes[0].Duration != "q" {
		t.Errorf("Element 0 = %+v, want a quarter rest", notes[0])
	}
}

func TestEmitScore_Syllables(t *testing.T) {
	notes := scoreNotes(t, "1 2 3\nhel-lo world\n")
	want := []string{"hel-", "lo", "world"}
	for i, w := range want {
		if notes[i].Syllable != w {
			t.Errorf("Note %d: syllable = %q, want %q", i, notes[i].Syllable, w)
		}
	}
}

func TestEmitScoreJSON(t *testing.T) {
	res := mustParse(t, "title: Tune\n\n|1 2 3\n")
	out, err := EmitScoreJSON(res.Document)
	if err != nil {
		t.Fatalf("EmitScoreJSON failed: %v", err)
	}
	for _, want := range []string{`"staves"`, `"title": "Tune"`, `"time_signature": "4/4"`, `"keys"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s:\n%s", want, out)
		}
	}
}
