package musictext

import (
	"fmt"
	"strconv"
)

// Span is one editor token with its character range in the source.
type Span struct {
	Type    string            `json:"type"`
	Start   int               `json:"start"`
	End     int               `json:"end"`
	Content string            `json:"content"`
	Data    map[string]string `json:"data_attributes,omitempty"`
}

// SpanStyle is the per-token decoration stream derived from spans:
// CSS classes plus custom-property values for the editor theme.
type SpanStyle struct {
	Pos     int               `json:"pos"`
	Length  int               `json:"length"`
	Classes []string          `json:"classes"`
	Styles  map[string]string `json:"styles,omitempty"`
}

// EmitSpans projects a parsed document onto the editor token stream.
func EmitSpans(doc *Document) []Span {
	var spans []Span
	for _, stave := range doc.Staves() {
		collectStaveSpans(stave, &spans)
	}
	return spans
}

// EmitSpanStyles produces both the spans and their parallel style
// stream.
func EmitSpanStyles(doc *Document) ([]Span, []SpanStyle) {
	spans := EmitSpans(doc)
	styles := make([]SpanStyle, len(spans))
	for i := range spans {
		styles[i] = styleForSpan(&spans[i])
	}
	return spans, styles
}

func collectStaveSpans(stave *Stave, spans *[]Span) {
	deco := beatDecorations(stave)
	for li := range stave.Lines {
		line := &stave.Lines[li]
		switch line.Kind {
		case LineContent:
			collectContentSpans(line, deco, spans)
		case LineUpper, LineLower:
			collectAnnotSpans(line, spans)
		case LineLyrics:
			for si := range line.Syllables {
				syl := &line.Syllables[si]
				text := sliceCols(line.Text, syl.Pos.Col, -1)
				// The stored payload may have moved; re-read the word
				// from the source text.
				end := syl.Pos.Col
				for _, r := range text {
					if r == ' ' || r == '\t' {
						break
					}
					end++
				}
				content := sliceCols(line.Text, syl.Pos.Col, end)
				sp := Span{
					Type:    "syllable",
					Start:   syl.Pos.CharIndex,
					End:     syl.Pos.CharIndex + (end - syl.Pos.Col),
					Content: content,
				}
				if syl.Source.Consumed() {
					sp.Data = map[string]string{"consumed": "true"}
				}
				*spans = append(*spans, sp)
			}
		}
	}
}

// beatDecorations maps a beat element's char index to the data
// attributes the beat container contributes to it.
func beatDecorations(stave *Stave) map[int]map[string]string {
	deco := make(map[int]map[string]string)
	for _, item := range stave.Rhythm {
		if item.Kind != ItemBeat {
			continue
		}
		beat := item.Beat
		if len(beat.Elements) < 2 || beat.Divisions < 2 {
			continue
		}
		first := &beat.Elements[0]
		last := &beat.Elements[len(beat.Elements)-1]
		length := last.Pos.CharIndex - first.Pos.CharIndex + len([]rune(last.Value))

		d := deco[first.Pos.CharIndex]
		if d == nil {
			d = make(map[string]string)
			deco[first.Pos.CharIndex] = d
		}
		d["beat-loop-length"] = strconv.Itoa(length)
		d["beat-loop"] = strconv.Itoa(beat.Divisions)
		d["show-divisions"] = strconv.Itoa(beat.Divisions)

		if beat.Divisions > 9 || (beat.Divisions >= 3 && beat.Divisions%2 == 1) {
			mid := &beat.Elements[len(beat.Elements)/2]
			md := deco[mid.Pos.CharIndex]
			if md == nil {
				md = make(map[string]string)
				deco[mid.Pos.CharIndex] = md
			}
			md["tuplet"] = strconv.Itoa(beat.Divisions)
		}
	}
	return deco
}

func collectContentSpans(line *StaveLine, deco map[int]map[string]string, spans *[]Span) {
	for i := range line.Elements {
		el := &line.Elements[i]
		sp := Span{
			Type:    el.Kind.String(),
			Start:   el.Pos.CharIndex,
			End:     el.Pos.CharIndex + len([]rune(el.Value)),
			Content: el.Value,
		}
		data := make(map[string]string)
		for k, v := range deco[el.Pos.CharIndex] {
			data[k] = v
		}
		if el.Kind == KindNote {
			if el.Octave > 0 {
				data["octave"] = strconv.Itoa(el.Octave)
			} else if el.Octave < 0 {
				data["octave-negative"] = strconv.Itoa(-el.Octave)
			}
		}
		if el.InSlur {
			data["slur"] = roleName(el.Slur)
		}
		if el.InBeatGroup {
			data["beat-group"] = roleName(el.BeatGroup)
		}
		if len(data) > 0 {
			sp.Data = data
		}
		*spans = append(*spans, sp)
	}
}

func collectAnnotSpans(line *StaveLine, spans *[]Span) {
	for ai := range line.Annots {
		an := &line.Annots[ai]
		if an.Kind == AnnotSpace {
			continue
		}
		content := sliceCols(line.Text, an.StartCol, an.EndCol+1)
		sp := Span{
			Type:    an.Kind.String(),
			Start:   an.Pos.CharIndex,
			End:     an.Pos.CharIndex + (an.EndCol - an.StartCol + 1),
			Content: content,
		}
		if an.Source.Consumed() {
			sp.Data = map[string]string{"consumed": "true"}
		}
		*spans = append(*spans, sp)
	}
}

func roleName(r Role) string {
	switch r {
	case RoleStart:
		return "start"
	case RoleEnd:
		return "end"
	default:
		return "middle"
	}
}

// styleForSpan turns one span's data attributes into editor classes and
// CSS custom properties.
func styleForSpan(sp *Span) SpanStyle {
	st := SpanStyle{
		Pos:     sp.Start,
		Length:  len([]rune(sp.Content)),
		Classes: []string{"cm-" + sp.Type},
	}
	styles := make(map[string]string)

	if sp.Data["consumed"] == "true" {
		st.Classes = append(st.Classes, "consumed")
	}
	if n, ok := sp.Data["beat-loop"]; ok {
		st.Classes = append(st.Classes, "beat-start", "beat-loop-"+n)
	}
	if v, ok := sp.Data["beat-loop-length"]; ok {
		styles["--beat-loop-length"] = v
	}
	if v, ok := sp.Data["show-divisions"]; ok {
		styles["--show-divisions"] = v
	}
	if v, ok := sp.Data["tuplet"]; ok {
		styles["--tuplet"] = fmt.Sprintf("'%s'", v)
	}
	if v, ok := sp.Data["octave"]; ok {
		styles["--octave"] = v
		st.Classes = append(st.Classes, "octave-"+v)
	}
	if v, ok := sp.Data["octave-negative"]; ok {
		styles["--octave-negative"] = v
		st.Classes = append(st.Classes, "octave-neg-"+v)
	}
	if v, ok := sp.Data["slur"]; ok {
		st.Classes = append(st.Classes, "in-slur", "slur-"+v)
	}
	if v, ok := sp.Data["beat-group"]; ok {
		st.Classes = append(st.Classes, "in-beat-group", "beat-group-"+v)
	}

	if len(styles) > 0 {
		st.Styles = styles
	}
	return st
}

// sliceCols cuts a line by rune columns; end -1 means to end of line.
func sliceCols(text string, start, end int) string {
	runes := []rune(text)
	if start > len(runes) {
		return ""
	}
	if end < 0 || end > len(runes) {
		end = len(runes)
	}
	if end < start {
		return ""
	}
	return string(runes[start:end])
}
