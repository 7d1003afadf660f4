package musictext

import "fmt"

// ParseError represents a parsing problem with location.
type ParseError struct {
	Message string
	Pos     Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// ParseResult contains the parsed document and any errors/warnings.
// Structural errors leave a partial document in place so callers can
// still inspect what was recognised.
type ParseResult struct {
	Document *Document
	Errors   []ParseError
	Warnings []ParseError
}

// HasErrors returns true if there were any errors.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Parse runs the full pipeline over a notation text: line
// classification, per-stave notation detection, tokenization, spatial
// assignment and rhythm analysis.
func Parse(input string) *ParseResult {
	res := &ParseResult{}

	doc, errs := assembleDocument(input)
	res.Document = doc
	res.Errors = append(res.Errors, errs...)

	tonic, hasTonic := docTonic(doc)

	for _, stave := range doc.Staves() {
		parseStave(stave, res)
		if hasTonic {
			stave.Rhythm = append([]Item{{Kind: ItemTonic, Tonic: tonic}}, stave.Rhythm...)
		}
	}
	return res
}

// docTonic reads the document's key directive, if present.
func docTonic(doc *Document) (Degree, bool) {
	if v, ok := doc.Directive("key"); ok {
		return parseTonic(v), true
	}
	if v, ok := doc.Directive("tonic"); ok {
		return parseTonic(v), true
	}
	return N1, false
}

// parseStave runs the per-stave stages in order. The notation decision
// is fixed before tokenization and never revisited.
func parseStave(stave *Stave, res *ParseResult) {
	content := stave.contentLine()
	if content == nil {
		return
	}
	stave.Notation = detectNotation(content.Text)

	elements, errs := parseContentLine(content.Text, content.Row, content.Start, stave.Notation)
	content.Elements = elements
	res.Errors = append(res.Errors, errs...)
	if len(errs) > 0 {
		return
	}

	for li := range stave.Lines {
		line := &stave.Lines[li]
		switch line.Kind {
		case LineUpper:
			line.Annots = parseUpperLine(line.Text, line.Row, line.Start)
		case LineLower:
			line.Annots = parseLowerLine(line.Text, line.Row, line.Start)
		case LineLyrics:
			line.Syllables = parseLyricsLine(line.Text, line.Row, line.Start)
		}
	}

	assignSpatial(stave, &res.Warnings)
	resolveRhythm(stave)
}
