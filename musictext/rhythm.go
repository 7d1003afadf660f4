package musictext

// fsmState enumerates the rhythm machine's states. Halt is implicit in
// returning from run.
type fsmState uint8

const (
	stateS0 fsmState = iota
	stateCollectingPitch
	stateCollectingRests
)

// rhythmFSM folds a post-spatial element stream into beats, barlines
// and breath marks. Dashes extend the previous event inside a beat; a
// dash that opens a beat either ties back to the last sounded note or
// becomes a rest.
type rhythmFSM struct {
	state fsmState
	beat  *Beat
	items []Item

	chainActive bool
	hasLast     bool
	lastDegree  Degree
	lastOctave  int
	pendingTie  bool
}

// resolveRhythm runs the FSM over a stave's content line and stores the
// item stream on the stave.
func resolveRhythm(stave *Stave) {
	content := stave.contentLine()
	if content == nil {
		return
	}
	fsm := &rhythmFSM{}
	stave.Rhythm = fsm.run(content.Elements)
}

func (f *rhythmFSM) run(elements []Element) []Item {
	for i := range elements {
		el := &elements[i]
		switch el.Kind {
		case KindNote:
			f.onNote(el)
		case KindDash:
			f.onDash(el)
		case KindWhitespace:
			f.finishBeat()
		case KindBarline:
			f.finishBeat()
			f.items = append(f.items, Item{Kind: ItemBarline, Bar: el.Bar, Tala: el.Tala})
		case KindSymbol:
			if el.Value == "'" {
				f.finishBeat()
				f.chainActive = false
				f.hasLast = false
				f.items = append(f.items, Item{Kind: ItemBreathmark})
			}
		}
	}
	f.finishBeat()
	return f.items
}

func (f *rhythmFSM) onNote(el *Element) {
	if f.state == stateS0 {
		f.beat = &Beat{}
		// A beat opening on the pitch that is still ringing ties the
		// two beats together.
		if f.hasLast && f.lastDegree == el.Degree && f.lastOctave == el.Octave {
			f.beat.TiedToPrevious = true
			f.hasLast = false
		}
	}
	if f.pendingTie && f.hasLast && f.lastDegree == el.Degree && f.lastOctave == el.Octave {
		f.pendingTie = false
	}
	f.beat.Elements = append(f.beat.Elements, beatNote(el))
	f.lastDegree, f.lastOctave, f.hasLast = el.Degree, el.Octave, true
	f.chainActive = true
	f.state = stateCollectingPitch
}

func (f *rhythmFSM) onDash(el *Element) {
	switch f.state {
	case stateS0:
		f.beat = &Beat{}
		if f.chainActive && f.hasLast {
			f.beat.TiedToPrevious = true
			f.pendingTie = true
			f.beat.Elements = append(f.beat.Elements, BeatElement{
				Kind:         KindNote,
				Degree:       f.lastDegree,
				HasDegree:    true,
				Octave:       f.lastOctave,
				Subdivisions: 1,
				Value:        el.Value,
				Pos:          el.Pos,
			})
			f.state = stateCollectingPitch
			return
		}
		f.beat.Elements = append(f.beat.Elements, BeatElement{
			Kind:         KindRest,
			Subdivisions: 1,
			Value:        el.Value,
			Pos:          el.Pos,
		})
		f.state = stateCollectingRests
	default:
		last := &f.beat.Elements[len(f.beat.Elements)-1]
		last.Subdivisions++
	}
}

// beatNote lifts a content note into a beat event, pulling the syllable
// out of its children.
func beatNote(el *Element) BeatElement {
	be := BeatElement{
		Kind:         KindNote,
		Degree:       el.Degree,
		HasDegree:    el.HasDegree,
		Octave:       el.Octave,
		Subdivisions: 1,
		Value:        el.Value,
		Pos:          el.Pos,
		Children:     el.Children,
		Slur:         el.Slur,
		InSlur:       el.InSlur,
		BeatGroup:    el.BeatGroup,
		InBeatGroup:  el.InBeatGroup,
	}
	for _, c := range el.Children {
		if c.Kind == ChildSyllable {
			be.Syllable = c.Text
			break
		}
	}
	return be
}

// finishBeat closes the open beat, computing divisions, tuplet status
// and per-element durations.
func (f *rhythmFSM) finishBeat() {
	f.state = stateS0
	if f.beat == nil {
		return
	}
	beat := f.beat
	f.beat = nil

	divisions := 0
	for i := range beat.Elements {
		divisions += beat.Elements[i].Subdivisions
	}
	beat.Divisions = divisions

	beat.IsTuplet = len(beat.Elements) > 1 && divisions > 1 && divisions&(divisions-1) != 0
	if beat.IsTuplet {
		pow2 := nextLowerPowerOf2(divisions)
		beat.TupletRatio = [2]int{divisions, pow2}
		eachUnit := Frac(1, 4).DivInt(pow2)
		for i := range beat.Elements {
			el := &beat.Elements[i]
			el.Duration = Frac(el.Subdivisions, divisions)
			el.TupletDuration = eachUnit.MulInt(el.Subdivisions)
			disp := el.TupletDuration
			el.TupletDisplayDuration = &disp
		}
	} else {
		for i := range beat.Elements {
			el := &beat.Elements[i]
			d := Frac(el.Subdivisions, divisions).Mul(Frac(1, 4))
			el.Duration = d
			el.TupletDuration = d
			el.TupletDisplayDuration = nil
		}
	}

	// The beat's last note is the extension target for a dash opening
	// the next beat.
	last := &beat.Elements[len(beat.Elements)-1]
	if last.Kind == KindNote && f.chainActive {
		f.lastDegree, f.lastOctave, f.hasLast = last.Degree, last.Octave, true
	}
	f.pendingTie = false

	f.items = append(f.items, Item{Kind: ItemBeat, Beat: beat})
}

// nextLowerPowerOf2 returns the greatest power of two strictly below n,
// never less than 2.
func nextLowerPowerOf2(n int) int {
	power := 1
	for power*2 < n {
		power *= 2
	}
	if power < 2 {
		power = 2
	}
	return power
}
