package musictext

import (
	"testing"
)

// findSpan returns the first span with the given type and content.
func findSpan(spans []Span, typ, content string) *Span {
	for i := range spans {
		if spans[i].Type == typ && spans[i].Content == content {
			return &spans[i]
		}
	}
	return nil
}

func TestEmitSpans_ContentLine(t *testing.T) {
	res := mustParse(t, "|1 2")
	spans := EmitSpans(res.Document)
	wantTypes := []string{"barline", "note", "whitespace", "note"}
	if len(spans) != len(wantTypes) {
		t.Fatalf("Expected %d spans, got %d", len(wantTypes), len(spans))
	}
	for i, typ := range wantTypes {
		if spans[i].Type != typ {
			t.Errorf("Span %d: type = %q, want %q", i, spans[i].Type, typ)
		}
	}
	if spans[1].Start != 1 || spans[1].End != 2 || spans[1].Content != "1" {
		t.Errorf("Span 1 = %+v", spans[1])
	}
}

func TestEmitSpans_BeatLoop(t *testing.T) {
	res := mustParse(t, "|1-2")
	spans := EmitSpans(res.Document)

	first := findSpan(spans, "note", "1")
	if first == nil {
		t.Fatal("No span for the first note")
	}
	if first.Data["beat-loop"] != "3" || first.Data["beat-loop-length"] != "3" || first.Data["show-divisions"] != "3" {
		t.Errorf("First note data = %v", first.Data)
	}

	// Odd division count marks the middle element for tuplet display.
	second := findSpan(spans, "note", "2")
	if second == nil {
		t.Fatal("No span for the second note")
	}
	if second.Data["tuplet"] != "3" {
		t.Errorf("Second note data = %v", second.Data)
	}
}

func TestEmitSpans_Styles(t *testing.T) {
	res := mustParse(t, "|1-2")
	spans, styles := EmitSpanStyles(res.Document)
	if len(styles) != len(spans) {
		t.Fatalf("Expected %d styles, got %d", len(spans), len(styles))
	}

	var noteStyle *SpanStyle
	for i := range spans {
		if spans[i].Type == "note" && spans[i].Content == "1" {
			noteStyle = &styles[i]
		}
	}
	if noteStyle == nil {
		t.Fatal("No style for the first note")
	}
	wantClasses := map[string]bool{"cm-note": true, "beat-start": true, "beat-loop-3": true}
	for _, c := range noteStyle.Classes {
		delete(wantClasses, c)
	}
	if len(wantClasses) != 0 {
		t.Errorf("Missing classes %v in %v", wantClasses, noteStyle.Classes)
	}
	if noteStyle.Styles["--beat-loop-length"] != "3" || noteStyle.Styles["--show-divisions"] != "3" {
		t.Errorf("Styles = %v", noteStyle.Styles)
	}

	var midStyle *SpanStyle
	for i := range spans {
		if spans[i].Type == "note" && spans[i].Content == "2" {
			midStyle = &styles[i]
		}
	}
	if midStyle == nil || midStyle.Styles["--tuplet"] != "'3'" {
		t.Errorf("Middle note styles = %+v", midStyle)
	}
}

func TestEmitSpans_Octave(t *testing.T) {
	res := mustParse(t, ".\n1 2 3\n")
	spans, styles := EmitSpanStyles(res.Document)

	marker := findSpan(spans, "octave-marker", ".")
	if marker == nil {
		t.Fatal("No span for the octave marker")
	}
	if marker.Data["consumed"] != "true" {
		t.Errorf("Marker data = %v, want consumed", marker.Data)
	}

	note := findSpan(spans, "note", "1")
	if note == nil {
		t.Fatal("No span for the note")
	}
	if note.Data["octave"] != "1" {
		t.Errorf("Note data = %v", note.Data)
	}
	for i := range spans {
		if &spans[i] == note {
			assertHasClass(t, styles[i], "octave-1")
			if styles[i].Styles["--octave"] != "1" {
				t.Errorf("Note styles = %v", styles[i].Styles)
			}
		}
		if &spans[i] == marker {
			assertHasClass(t, styles[i], "consumed")
		}
	}
}

func assertHasClass(t *testing.T, st SpanStyle, class string) {
	t.Helper()
	for _, c := range st.Classes {
		if c == class {
			return
		}
	}
	t.Errorf("Classes %v missing %q", st.Classes, class)
}

func TestEmitSpans_Slur(t *testing.T) {
	res := mustParse(t, "____\n1 2 3\n")
	spans, styles := EmitSpanStyles(res.Document)

	slur := findSpan(spans, "slur", "____")
	if slur == nil {
		t.Fatal("No span for the slur run")
	}
	if slur.Data["consumed"] != "true" {
		t.Errorf("Slur data = %v", slur.Data)
	}

	first := findSpan(spans, "note", "1")
	if first == nil || first.Data["slur"] != "start" {
		t.Fatalf("First note = %+v", first)
	}
	for i := range spans {
		if &spans[i] == first {
			assertHasClass(t, styles[i], "in-slur")
			assertHasClass(t, styles[i], "slur-start")
		}
	}
}

func TestEmitSpans_Lyrics(t *testing.T) {
	res := mustParse(t, "1 2 3\nhello world\n")
	spans := EmitSpans(res.Document)

	syl := findSpan(spans, "syllable", "hello")
	if syl == nil {
		t.Fatal("No span for the first syllable")
	}
	if syl.Start != 6 || syl.End != 11 {
		t.Errorf("Syllable range = (%d, %d), want (6, 11)", syl.Start, syl.End)
	}
	if syl.Data["consumed"] != "true" {
		t.Errorf("Syllable data = %v, want consumed", syl.Data)
	}
	if findSpan(spans, "syllable", "world") == nil {
		t.Error("No span for the second syllable")
	}
}

func TestSliceCols(t *testing.T) {
	tests := []struct {
		text       string
		start, end int
		want       string
	}{
		{"hello", 1, 3, "el"},
		{"hello", 0, -1, "hello"},
		{"hello", 4, 99, "o"},
		{"hello", 9, 12, ""},
		{"héllo", 1, 2, "é"},
	}
	for _, tt := range tests {
		if got := sliceCols(tt.text, tt.start, tt.end); got != tt.want {
			t.Errorf("sliceCols(%q, %d, %d) = %q, want %q", tt.text, tt.start, tt.end, got, tt.want)
		}
	}
}
