package musictext

import (
	"testing"
)

func TestRhythm_QuarterNotes(t *testing.T) {
	stave := singleStave(t, "|1 2 3")
	beats := rhythmBeats(stave.Rhythm)
	if len(beats) != 3 {
		t.Fatalf("Expected 3 beats, got %d", len(beats))
	}
	for i, beat := range beats {
		if beat.Divisions != 1 || beat.IsTuplet {
			t.Errorf("Beat %d: divisions = %d, tuplet = %v", i, beat.Divisions, beat.IsTuplet)
		}
		if len(beat.Elements) != 1 {
			t.Fatalf("Beat %d: %d elements", i, len(beat.Elements))
		}
		if !beat.Elements[0].Duration.Equal(Frac(1, 4)) {
			t.Errorf("Beat %d: duration = %s, want 1/4", i, beat.Elements[0].Duration)
		}
	}
}

func TestRhythm_Triplet(t *testing.T) {
	stave := singleStave(t, "|1-2")
	beats := rhythmBeats(stave.Rhythm)
	if len(beats) != 1 {
		t.Fatalf("Expected 1 beat, got %d", len(beats))
	}
	beat := beats[0]
	if beat.Divisions != 3 {
		t.Errorf("Divisions = %d, want 3", beat.Divisions)
	}
	if !beat.IsTuplet {
		t.Fatal("Expected a tuplet")
	}
	if beat.TupletRatio != [2]int{3, 2} {
		t.Errorf("Ratio = %v, want [3 2]", beat.TupletRatio)
	}
	if len(beat.Elements) != 2 {
		t.Fatalf("Expected 2 elements, got %d", len(beat.Elements))
	}
	first, second := &beat.Elements[0], &beat.Elements[1]
	if first.Subdivisions != 2 || second.Subdivisions != 1 {
		t.Errorf("Subdivisions = %d, %d", first.Subdivisions, second.Subdivisions)
	}
	if !first.Duration.Equal(Frac(2, 3)) || !second.Duration.Equal(Frac(1, 3)) {
		t.Errorf("Durations = %s, %s", first.Duration, second.Duration)
	}
	if !first.TupletDuration.Equal(Frac(1, 4)) || !second.TupletDuration.Equal(Frac(1, 8)) {
		t.Errorf("Tuplet durations = %s, %s", first.TupletDuration, second.TupletDuration)
	}
	if first.TupletDisplayDuration == nil {
		t.Error("Expected a display duration inside a tuplet")
	}
}

func TestRhythm_Quintuplet(t *testing.T) {
	stave := singleStave(t, "|1-2-3")
	beats := rhythmBeats(stave.Rhythm)
	if len(beats) != 1 {
		t.Fatalf("Expected 1 beat, got %d", len(beats))
	}
	beat := beats[0]
	if beat.Divisions != 5 || beat.TupletRatio != [2]int{5, 4} {
		t.Fatalf("Divisions = %d, ratio = %v", beat.Divisions, beat.TupletRatio)
	}
	wantTuplet := []Fraction{Frac(1, 8), Frac(1, 8), Frac(1, 16)}
	for i, want := range wantTuplet {
		if !beat.Elements[i].TupletDuration.Equal(want) {
			t.Errorf("Element %d: tuplet duration = %s, want %s", i, beat.Elements[i].TupletDuration, want)
		}
	}
}

func TestRhythm_SingleElementNeverTuplet(t *testing.T) {
	stave := singleStave(t, "|1---")
	beats := rhythmBeats(stave.Rhythm)
	if len(beats) != 1 {
		t.Fatalf("Expected 1 beat, got %d", len(beats))
	}
	beat := beats[0]
	if beat.IsTuplet {
		t.Error("Single element beat must not be a tuplet")
	}
	if beat.Divisions != 4 || beat.Elements[0].Subdivisions != 4 {
		t.Errorf("Divisions = %d, subdivisions = %d", beat.Divisions, beat.Elements[0].Subdivisions)
	}
	if !beat.Elements[0].Duration.Equal(Frac(1, 4)) {
		t.Errorf("Duration = %s, want 1/4", beat.Elements[0].Duration)
	}
}

func TestRhythm_DashOpensTiedBeat(t *testing.T) {
	stave := singleStave(t, "1 -- 2")
	beats := rhythmBeats(stave.Rhythm)
	if len(beats) != 3 {
		t.Fatalf("Expected 3 beats, got %d", len(beats))
	}
	tied := beats[1]
	if !tied.TiedToPrevious {
		t.Fatal("Expected the dash beat to tie back")
	}
	el := &tied.Elements[0]
	if el.Kind != KindNote || !el.HasDegree || el.Degree != N1 {
		t.Errorf("Tied element = %+v, want the held pitch", el)
	}
	if !el.Duration.Equal(Frac(1, 4)) {
		t.Errorf("Duration = %s, want 1/4", el.Duration)
	}
	if beats[2].TiedToPrevious {
		t.Error("Unrelated following beat must not tie")
	}
}

func TestRhythm_DashOpensRestWithoutChain(t *testing.T) {
	stave := singleStave(t, "- 1 2")
	beats := rhythmBeats(stave.Rhythm)
	if len(beats) != 3 {
		t.Fatalf("Expected 3 beats, got %d", len(beats))
	}
	if beats[0].Elements[0].Kind != KindRest {
		t.Errorf("First element kind = %v, want rest", beats[0].Elements[0].Kind)
	}
	if beats[0].TiedToPrevious {
		t.Error("Rest beat must not tie")
	}
}

func TestRhythm_RepeatedPitchTies(t *testing.T) {
	stave := singleStave(t, "|1 1 2")
	beats := rhythmBeats(stave.Rhythm)
	if len(beats) != 3 {
		t.Fatalf("Expected 3 beats, got %d", len(beats))
	}
	if !beats[1].TiedToPrevious {
		t.Error("Re-declared ringing pitch should tie")
	}
	if beats[2].TiedToPrevious {
		t.Error("Different pitch must not tie")
	}
}

func TestRhythm_BreathmarkBreaksChain(t *testing.T) {
	stave := singleStave(t, "|1' 1")
	var kinds []ItemKind
	for _, item := range stave.Rhythm {
		kinds = append(kinds, item.Kind)
	}
	want := []ItemKind{ItemBarline, ItemBeat, ItemBreathmark, ItemBeat}
	if len(kinds) != len(want) {
		t.Fatalf("Items = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("Items = %v, want %v", kinds, want)
		}
	}
	beats := rhythmBeats(stave.Rhythm)
	if beats[1].TiedToPrevious {
		t.Error("Breath mark must break the tie chain")
	}
}

func TestRhythm_BarlineEndsBeat(t *testing.T) {
	stave := singleStave(t, "|1-2|3")
	var kinds []ItemKind
	for _, item := range stave.Rhythm {
		kinds = append(kinds, item.Kind)
	}
	want := []ItemKind{ItemBarline, ItemBeat, ItemBarline, ItemBeat}
	if len(kinds) != len(want) {
		t.Fatalf("Items = %v, want %v", kinds, want)
	}
	beats := rhythmBeats(stave.Rhythm)
	if beats[0].Divisions != 3 || beats[1].Divisions != 1 {
		t.Errorf("Divisions = %d, %d", beats[0].Divisions, beats[1].Divisions)
	}
}

func TestNextLowerPowerOf2(t *testing.T) {
	tests := []struct{ n, want int }{
		{3, 2}, {5, 4}, {6, 4}, {7, 4}, {9, 8}, {2, 2}, {1, 2},
	}
	for _, tt := range tests {
		if got := nextLowerPowerOf2(tt.n); got != tt.want {
			t.Errorf("nextLowerPowerOf2(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
