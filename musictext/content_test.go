package musictext

import (
	"testing"
)

func TestParseContentLine_Kinds(t *testing.T) {
	elements, errs := parseContentLine("|1 2-3 '", 0, 0, SystemNumber)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	wantKinds := []ElementKind{
		KindBarline, KindNote, KindWhitespace, KindNote, KindDash,
		KindNote, KindWhitespace, KindSymbol,
	}
	if len(elements) != len(wantKinds) {
		t.Fatalf("Expected %d elements, got %d", len(wantKinds), len(elements))
	}
	for i, k := range wantKinds {
		if elements[i].Kind != k {
			t.Errorf("Element %d: kind = %v, want %v", i, elements[i].Kind, k)
		}
	}
	if elements[1].Degree != N1 || !elements[1].HasDegree {
		t.Errorf("Element 1: degree = %v", elements[1].Degree)
	}
	if elements[0].Tala != -1 {
		t.Errorf("Barline tala = %d, want -1", elements[0].Tala)
	}
}

func TestParseContentLine_Positions(t *testing.T) {
	elements, _ := parseContentLine("|1 2", 3, 10, SystemNumber)
	wantCols := []int{0, 1, 2, 3}
	for i, el := range elements {
		if el.Pos.Row != 3 {
			t.Errorf("Element %d: row = %d, want 3", i, el.Pos.Row)
		}
		if el.Pos.Col != wantCols[i] {
			t.Errorf("Element %d: col = %d, want %d", i, el.Pos.Col, wantCols[i])
		}
		if el.Pos.CharIndex != 10+wantCols[i] {
			t.Errorf("Element %d: char index = %d", i, el.Pos.CharIndex)
		}
	}
}

func TestParseContentLine_Accidentals(t *testing.T) {
	elements, _ := parseContentLine("1# 2b 3##", 0, 0, SystemNumber)
	var notes []Element
	for _, el := range elements {
		if el.Kind == KindNote {
			notes = append(notes, el)
		}
	}
	if len(notes) != 3 {
		t.Fatalf("Expected 3 notes, got %d", len(notes))
	}
	wantDegrees := []Degree{N1s, N2b, N3ss}
	wantValues := []string{"1#", "2b", "3##"}
	for i := range notes {
		if notes[i].Degree != wantDegrees[i] {
			t.Errorf("Note %d: degree = %v, want %v", i, notes[i].Degree, wantDegrees[i])
		}
		if notes[i].Value != wantValues[i] {
			t.Errorf("Note %d: value = %q, want %q", i, notes[i].Value, wantValues[i])
		}
	}
}

func TestParseContentLine_UnicodeAccidental(t *testing.T) {
	elements, _ := parseContentLine("C♯ D", 0, 0, SystemWestern)
	if elements[0].Kind != KindNote || elements[0].Degree != N1s {
		t.Fatalf("Element 0 = %+v, want C sharp note", elements[0])
	}
	if elements[0].Value != "C♯" {
		t.Errorf("Value = %q, want original spelling", elements[0].Value)
	}
}

func TestParseContentLine_Barlines(t *testing.T) {
	tests := []struct {
		input string
		want  BarlineStyle
	}{
		{"|", BarSingle},
		{"||", BarDouble},
		{"|:", BarRepeatStart},
		{":|", BarRepeatEnd},
		{"|.", BarFinal},
		{":|:", BarRepeatBoth},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			elements, errs := parseContentLine(tt.input, 0, 0, SystemNumber)
			if len(errs) != 0 {
				t.Fatalf("Unexpected errors: %v", errs)
			}
			if len(elements) != 1 {
				t.Fatalf("Expected 1 element, got %d", len(elements))
			}
			if elements[0].Kind != KindBarline || elements[0].Bar != tt.want {
				t.Errorf("Got %+v, want barline %v", elements[0], tt.want)
			}
		})
	}
}

func TestParseContentLine_MalformedBarlines(t *testing.T) {
	_, errs := parseContentLine("1 ||| 2", 0, 0, SystemNumber)
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if errs[0].Message != `malformed barline "|||"` {
		t.Errorf("Message = %q", errs[0].Message)
	}

	_, errs = parseContentLine("1 : 2", 0, 0, SystemNumber)
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if errs[0].Message != "colon without barline" {
		t.Errorf("Message = %q", errs[0].Message)
	}
}

func TestParseContentLine_UnknownChar(t *testing.T) {
	elements, errs := parseContentLine("1 @ 2", 0, 0, SystemNumber)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if elements[2].Kind != KindUnknown || elements[2].Value != "@" {
		t.Errorf("Element 2 = %+v, want unknown %q", elements[2], "@")
	}
}

func TestParseContentLine_SargamCase(t *testing.T) {
	elements, _ := parseContentLine("S r R g", 0, 0, SystemSargam)
	var degrees []Degree
	for _, el := range elements {
		if el.Kind == KindNote {
			degrees = append(degrees, el.Degree)
		}
	}
	want := []Degree{N1, N2b, N2, N3b}
	if len(degrees) != len(want) {
		t.Fatalf("Expected %d notes, got %d", len(want), len(degrees))
	}
	for i := range want {
		if degrees[i] != want[i] {
			t.Errorf("Note %d: degree = %v, want %v", i, degrees[i], want[i])
		}
	}
}
