package musictext

import (
	"fmt"
	"strings"
)

// octaveCandidate is an octave marker attached to a note, kept until
// the cross-check pass so that stacked markers can be resolved by row
// distance.
type octaveCandidate struct {
	shift int
	dist  int // absolute row distance from the content line
}

// assigner carries the per-stave state of spatial assignment.
type assigner struct {
	stave    *Stave
	content  *StaveLine
	warnings *[]ParseError

	// per content element index
	uppers map[int][]octaveCandidate
	lowers map[int][]octaveCandidate
}

// assignSpatial attaches every upper and lower marker of a stave to its
// content element, resolves slur and beat-group spans, distributes
// syllables, and reports whatever could not be consumed.
func assignSpatial(stave *Stave, warnings *[]ParseError) {
	content := stave.contentLine()
	if content == nil {
		return
	}
	a := &assigner{
		stave:    stave,
		content:  content,
		warnings: warnings,
		uppers:   make(map[int][]octaveCandidate),
		lowers:   make(map[int][]octaveCandidate),
	}
	for li := range stave.Lines {
		line := &stave.Lines[li]
		switch line.Kind {
		case LineUpper:
			a.assignLine(line, true)
		case LineLower:
			a.assignLine(line, false)
		}
	}
	a.resolveOctaves()
	a.distributeSyllables()
	a.reportUnconsumed()
}

func (a *assigner) warnf(pos Position, format string, args ...interface{}) {
	*a.warnings = append(*a.warnings, ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	})
}

// assignLine runs passes 1 and 2 for one annotation line. All direct
// column matches for octave markers resolve before any fallback does,
// so an early marker's fallback can never claim a note a later marker
// sits directly above.
func (a *assigner) assignLine(line *StaveLine, upper bool) {
	dist := line.Row - a.content.Row
	if dist < 0 {
		dist = -dist
	}
	var pending []int
	for ai := range line.Annots {
		an := &line.Annots[ai]
		switch an.Kind {
		case AnnotOctaveMarker:
			if !a.octaveDirect(an, dist) {
				pending = append(pending, ai)
			}
		case AnnotSlur:
			a.assignSpan(an, true)
		case AnnotBeatGroup:
			a.assignSpan(an, false)
		case AnnotOrnament:
			a.assignOrnament(an, dist)
		case AnnotTala:
			a.assignTala(an)
		}
	}
	for _, ai := range pending {
		a.octaveFallback(&line.Annots[ai], dist)
	}
}

// elementAtCol returns the index of the content element whose column
// equals col, or -1.
func (a *assigner) elementAtCol(col int) int {
	for i := range a.content.Elements {
		if a.content.Elements[i].Pos.Col == col {
			return i
		}
	}
	return -1
}

// nearestNote finds the closest note to col within maxDist columns,
// preferring the left side on ties. When requireOpen is set, only notes
// with no octave candidates yet qualify.
func (a *assigner) nearestNote(col, maxDist int, requireOpen bool) int {
	best, bestDist := -1, maxDist+1
	for i := range a.content.Elements {
		el := &a.content.Elements[i]
		if el.Kind != KindNote {
			continue
		}
		if requireOpen && (len(a.uppers[i]) > 0 || len(a.lowers[i]) > 0) {
			continue
		}
		d := el.Pos.Col - col
		if d < 0 {
			d = -d
		}
		// Scanning left to right keeps the left element on ties.
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if bestDist > maxDist {
		return -1
	}
	return best
}

// octaveDirect attaches an octave marker to the note directly below or
// above it. It reports whether a note occupied the marker's column.
func (a *assigner) octaveDirect(an *Annot, dist int) bool {
	idx := a.elementAtCol(an.Pos.Col)
	if idx < 0 || a.content.Elements[idx].Kind != KindNote {
		return false
	}
	a.attachOctave(an, idx, dist)
	return true
}

// octaveFallback attaches a column-less marker to the nearest note that
// has no octave candidates yet.
func (a *assigner) octaveFallback(an *Annot, dist int) {
	idx := a.nearestNote(an.Pos.Col, 5, true)
	if idx < 0 {
		return // discarded; the consumption report picks it up
	}
	a.attachOctave(an, idx, dist)
}

func (a *assigner) attachOctave(an *Annot, idx, dist int) {
	sym, ok := an.Source.Take()
	if !ok {
		return
	}
	el := &a.content.Elements[idx]
	el.Children = append(el.Children, Child{
		Kind:     ChildOctaveMarker,
		Symbol:   sym,
		Distance: dist,
	})
	cand := octaveCandidate{shift: an.Shift, dist: dist}
	if an.Shift > 0 {
		a.uppers[idx] = append(a.uppers[idx], cand)
	} else {
		a.lowers[idx] = append(a.lowers[idx], cand)
	}
}

// spanTargets collects notes and dashes whose column falls inside
// [startCol, endCol].
func (a *assigner) spanTargets(startCol, endCol int) []int {
	var out []int
	for i := range a.content.Elements {
		el := &a.content.Elements[i]
		if el.Kind != KindNote && el.Kind != KindDash {
			continue
		}
		if el.Pos.Col >= startCol && el.Pos.Col <= endCol {
			out = append(out, i)
		}
	}
	return out
}

// assignSpan resolves a slur (upper) or beat group (lower) run of
// underscores into Start/Middle/End roles on the covered elements.
func (a *assigner) assignSpan(an *Annot, slur bool) {
	targets := a.spanTargets(an.StartCol, an.EndCol)
	name := "beat group"
	if slur {
		name = "slur"
	}
	if len(targets) < 2 && !slur {
		// Beat groups get a widened second look before being dropped.
		targets = a.spanTargets(an.StartCol-5, an.EndCol+5)
		var notes []int
		for _, i := range targets {
			if a.content.Elements[i].Kind == KindNote {
				notes = append(notes, i)
			}
		}
		targets = notes
	}
	if len(targets) == 0 {
		a.warnf(an.Pos, "%s over columns %d-%d covers no elements, dropped", name, an.StartCol, an.EndCol)
		an.Source.Take()
		return
	}
	if len(targets) == 1 {
		a.warnf(an.Pos, "%s covers a single element, dropped", name)
		an.Source.Take()
		return
	}
	sym, ok := an.Source.Take()
	if !ok {
		return
	}
	for n, idx := range targets {
		el := &a.content.Elements[idx]
		role := RoleMiddle
		switch n {
		case 0:
			role = RoleStart
		case len(targets) - 1:
			role = RoleEnd
		}
		if slur {
			if el.InSlur {
				continue // first span wins
			}
			el.InSlur = true
			el.Slur = role
		} else {
			if el.InBeatGroup {
				a.warnf(an.Pos, "overlapping beat groups, keeping the first")
				continue
			}
			el.InBeatGroup = true
			el.BeatGroup = role
			if role == RoleStart {
				el.Children = append(el.Children, Child{
					Kind:   ChildBeatGroup,
					Symbol: sym,
					Span:   len(targets),
				})
			}
		}
	}
}

// assignOrnament attaches an ornament to the note at or nearest its
// column.
func (a *assigner) assignOrnament(an *Annot, dist int) {
	idx := a.elementAtCol(an.Pos.Col)
	if idx < 0 || a.content.Elements[idx].Kind != KindNote {
		idx = a.nearestNote(an.Pos.Col, 5, false)
	}
	if idx < 0 {
		return
	}
	sym, ok := an.Source.Take()
	if !ok {
		return
	}
	el := &a.content.Elements[idx]
	el.Children = append(el.Children, Child{
		Kind:     ChildOrnament,
		Symbol:   sym,
		Distance: dist,
		Ornament: an.Ornament,
		Text:     strings.Trim(sym, "<>[]"),
	})
}

// assignTala attaches a tala digit to the barline at or nearest its
// column.
func (a *assigner) assignTala(an *Annot) {
	best, bestDist := -1, 6
	for i := range a.content.Elements {
		el := &a.content.Elements[i]
		if el.Kind != KindBarline || el.Tala >= 0 {
			continue
		}
		d := el.Pos.Col - an.Pos.Col
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return
	}
	if _, ok := an.Source.Take(); !ok {
		return
	}
	a.content.Elements[best].Tala = an.Digit
}

// resolveOctaves applies the additive cross-check: the innermost marker
// wins on each side of the content line, then the two sides sum.
func (a *assigner) resolveOctaves() {
	innermost := func(cands []octaveCandidate) int {
		if len(cands) == 0 {
			return 0
		}
		best := cands[0]
		for _, c := range cands[1:] {
			if c.dist < best.dist {
				best = c
			}
		}
		return best.shift
	}
	for idx := range a.content.Elements {
		up := innermost(a.uppers[idx])
		down := innermost(a.lowers[idx])
		a.content.Elements[idx].Octave = up + down
	}
}

// syllableStream flattens the stave's lyric material in source order:
// inline syllables on lower lines first, then dedicated lyrics lines,
// with hyphenated words split into one syllable per segment.
func (a *assigner) syllableStream() []*Source {
	var out []*Source
	for li := range a.stave.Lines {
		line := &a.stave.Lines[li]
		switch line.Kind {
		case LineLower:
			for ai := range line.Annots {
				if line.Annots[ai].Kind == AnnotSyllable {
					out = append(out, &line.Annots[ai].Source)
				}
			}
		case LineLyrics:
			for si := range line.Syllables {
				out = append(out, &line.Syllables[si].Source)
			}
		}
	}
	return out
}

// splitSyllable cuts a hyphenated word into segments, keeping the
// trailing hyphen on every segment but the last.
func splitSyllable(word string) []string {
	parts := strings.Split(word, "-")
	if len(parts) == 1 {
		return parts
	}
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i < len(parts)-1 {
			p += "-"
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return []string{word}
	}
	return out
}

// distributeSyllables zips lyric syllables onto notes left to right.
// A note inside a slur that is not the slur's start extends the
// previous syllable with a continuation marker instead of consuming a
// new one.
func (a *assigner) distributeSyllables() {
	sources := a.syllableStream()
	var queue []string
	next := func() (string, bool) {
		for len(queue) == 0 {
			if len(sources) == 0 {
				return "", false
			}
			word, ok := sources[0].Take()
			sources = sources[1:]
			if ok {
				queue = splitSyllable(word)
			}
		}
		syl := queue[0]
		queue = queue[1:]
		return syl, true
	}
	for i := range a.content.Elements {
		el := &a.content.Elements[i]
		if el.Kind != KindNote {
			continue
		}
		if el.InSlur && el.Slur != RoleStart {
			el.Children = append(el.Children, Child{Kind: ChildSyllable, Text: "_"})
			continue
		}
		syl, ok := next()
		if !ok {
			return
		}
		el.Children = append(el.Children, Child{Kind: ChildSyllable, Text: syl})
	}
}

// reportUnconsumed warns once per marker whose payload was never moved
// into a content element.
func (a *assigner) reportUnconsumed() {
	for li := range a.stave.Lines {
		line := &a.stave.Lines[li]
		for ai := range line.Annots {
			an := &line.Annots[ai]
			if an.Kind == AnnotSpace || an.Kind == AnnotSyllable || an.Source.Consumed() {
				continue
			}
			if an.Kind == AnnotUnknown {
				v, _ := an.Source.Take()
				a.warnf(an.Pos, "unrecognised annotation %q", v)
				continue
			}
			a.warnf(an.Pos, "unassigned %s marker", an.Kind)
		}
	}
}
