package musictext

import "strings"

// parseContentLine scans a content line left to right into elements.
// The notation system has already been fixed by the detector, so the
// vocabulary is known before the scan starts. Malformed barlines stop
// the parse with a structural error.
func parseContentLine(text string, row, lineStart int, system NotationSystem) ([]Element, []ParseError) {
	runes := []rune(text)
	vocab := vocabulary(system)
	var out []Element
	var errs []ParseError
	pos := func(c int) Position {
		return Position{Row: row, Col: c, CharIndex: lineStart + c}
	}
	i := 0
	for i < len(runes) {
		ch := runes[i]
		start := i
		switch {
		case ch == '|' || ch == ':':
			spelling, n, err := scanBarline(runes, i)
			if err != "" {
				errs = append(errs, ParseError{Message: err, Pos: pos(start)})
				for i < len(runes) && (runes[i] == '|' || runes[i] == ':') {
					i++
				}
				continue
			}
			style, _ := barlineStyleOf(spelling)
			out = append(out, Element{
				Kind: KindBarline, Value: spelling, Pos: pos(start), Bar: style, Tala: -1,
			})
			i += n
		case ch == ' ' || ch == '\t':
			for i < len(runes) && (runes[i] == ' ' || runes[i] == '\t') {
				i++
			}
			out = append(out, Element{
				Kind: KindWhitespace, Value: string(runes[start:i]), Pos: pos(start),
			})
		case ch == '-':
			i++
			out = append(out, Element{Kind: KindDash, Value: "-", Pos: pos(start)})
		case ch == '\'':
			i++
			out = append(out, Element{Kind: KindSymbol, Value: "'", Pos: pos(start)})
		default:
			sym, n := longestMatch(runes, i, vocab)
			if n == 0 {
				i++
				out = append(out, Element{
					Kind: KindUnknown, Value: string(ch), Pos: pos(start),
				})
				continue
			}
			degree, _ := lookupPitch(sym, system)
			out = append(out, Element{
				Kind: KindNote, Value: sym, Pos: pos(start),
				Degree: degree, HasDegree: true,
			})
			i += n
		}
	}
	return out, errs
}

// scanBarline matches the longest barline spelling at runes[i]. It
// returns an error message for a colon with no barline attached and for
// runs of three or more pipes.
func scanBarline(runes []rune, i int) (spelling string, n int, errMsg string) {
	rest := string(runes[i:])
	if strings.HasPrefix(rest, "|||") {
		return "", 0, "malformed barline \"|||\""
	}
	for _, s := range []string{":|:", ":|", "|:", "||", "|.", "|"} {
		if strings.HasPrefix(rest, s) {
			return s, len(s), ""
		}
	}
	// Only a bare colon reaches here.
	return "", 0, "colon without barline"
}
