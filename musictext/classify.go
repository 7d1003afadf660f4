package musictext

import (
	"strings"
	"unicode"
)

// lineGuess is the intrinsic class of a raw line, before position
// within a stave resolves upper against lower.
type lineGuess uint8

const (
	guessBlank lineGuess = iota
	guessDirective
	guessContent
	guessUpper // annotation with upper-only glyphs (~ # brackets, tala digits)
	guessLower // annotation mixing markers with syllable words
	guessAnnot // annotation of shared glyphs only (. : * ' _)
	guessWord  // plain words, lyrics when it follows a content line
	guessText
)

type rawLine struct {
	text  string
	row   int
	start int // char index of column 0
	guess lineGuess
	key   string // directive key, when guess == guessDirective
	value string
	colon int // directive colon column
}

// pitchChars is every character that can begin or continue a pitch
// symbol in any of the three systems, plus the accidental letters.
const pitchChars = "1234567CDEFGABSsrRgGmMPpdDnNb#"

func isPitchChar(r rune) bool { return strings.ContainsRune(pitchChars, r) }

// countMusicalElements counts dashes and standalone pitch tokens in a
// line. Pitch letters embedded in English words and digits embedded in
// longer numbers do not count.
func countMusicalElements(text string) int {
	runes := []rune(text)
	vocab := combinedVocabulary()
	count := 0
	i := 0
	for i < len(runes) {
		ch := runes[i]
		if ch == ' ' || ch == '\t' {
			i++
			continue
		}
		if ch == '-' {
			count++
			i++
			continue
		}
		sym, n := longestMatch(runes, i, vocab)
		if n == 0 {
			i++
			continue
		}
		if standalonePitch(runes, i, i+n, sym) {
			count++
		}
		i += n
	}
	return count
}

// standalonePitch applies the word and number adjacency heuristics to a
// vocabulary match spanning runes[start:end).
func standalonePitch(runes []rune, start, end int, sym string) bool {
	var prev, next rune
	if start > 0 {
		prev = runes[start-1]
	}
	if end < len(runes) {
		next = runes[end]
	}
	first := rune(sym[0])
	if first >= '1' && first <= '7' {
		for _, r := range []rune{prev, next} {
			if r == '0' || r == '8' || r == '9' {
				return false
			}
		}
		return true
	}
	for _, r := range []rune{prev, next} {
		if unicode.IsLower(r) && !isPitchChar(r) {
			return false
		}
	}
	return true
}

// longestMatch finds the longest vocabulary symbol at runes[i:].
func longestMatch(runes []rune, i int, vocab []string) (string, int) {
	for _, sym := range vocab {
		sr := []rune(sym)
		if i+len(sr) > len(runes) {
			continue
		}
		if string(runes[i:i+len(sr)]) == sym {
			return sym, len(sr)
		}
	}
	return "", 0
}

var combinedVocab []string

// combinedVocabulary is the union of all three systems' vocabularies,
// longest first, used only by the classifier before the per-stave
// system is known.
func combinedVocabulary() []string {
	if combinedVocab != nil {
		return combinedVocab
	}
	seen := make(map[string]bool)
	var all []string
	for _, sys := range []NotationSystem{SystemNumber, SystemWestern, SystemSargam} {
		for _, sym := range vocabulary(sys) {
			if !seen[sym] {
				seen[sym] = true
				all = append(all, sym)
			}
		}
	}
	sortVocabulary(all)
	combinedVocab = all
	return all
}

// isContentLine reports whether a line is a content line: it has a
// barline, or at least three musical elements.
func isContentLine(text string) bool {
	if strings.ContainsRune(text, '|') {
		return true
	}
	return countMusicalElements(text) >= 3
}

// matchDirective recognises "key:value" lines. The key must be free of
// barlines, must contain at least one letter or digit so annotation
// glyph runs like ".      :" never read as a key, and must not read as
// music: two or more whole words made of musical characters reject it,
// so "composer" passes but "SS RR" does not. The line as a whole must
// not be a content line either.
func matchDirective(text string) (key, value string, colon int, ok bool) {
	idx := strings.IndexRune(text, ':')
	if idx <= 0 {
		return "", "", 0, false
	}
	rawKey := text[:idx]
	key = strings.TrimSpace(rawKey)
	if key == "" || strings.ContainsRune(key, '|') {
		return "", "", 0, false
	}
	wordChar := false
	for _, r := range key {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			wordChar = true
			break
		}
	}
	if !wordChar {
		return "", "", 0, false
	}
	musicalWords := 0
	for _, word := range strings.Fields(key) {
		wr := []rune(word)
		if len(wr) < 2 {
			continue
		}
		all := true
		for _, r := range wr {
			if !isPitchChar(r) && r != '-' {
				all = false
				break
			}
		}
		if all {
			musicalWords++
		}
	}
	if musicalWords >= 2 {
		return "", "", 0, false
	}
	if isContentLine(text) {
		return "", "", 0, false
	}
	return key, strings.TrimSpace(text[idx+1:]), len([]rune(rawKey)), true
}

// upper-only and shared annotation glyph sets. Octave dots, colons,
// asterisks, apostrophes and underscores appear on both sides of the
// content line; tildes, brackets and tala digits only above it.
const (
	sharedAnnotGlyphs = ".:*'_"
	upperOnlyGlyphs   = "~#<>[]0123456"
)

// guessLine classifies one line in isolation.
func guessLine(text string) lineGuess {
	if strings.TrimSpace(text) == "" {
		return guessBlank
	}
	if _, _, _, ok := matchDirective(text); ok {
		return guessDirective
	}
	if isContentLine(text) {
		return guessContent
	}
	var shared, upperish, letters, other bool
	for _, r := range text {
		switch {
		case r == ' ' || r == '\t':
		case strings.ContainsRune(sharedAnnotGlyphs, r):
			shared = true
		case strings.ContainsRune(upperOnlyGlyphs, r):
			upperish = true
		case unicode.IsLetter(r):
			letters = true
		case r == '-' || r == ',' || r == '.' || r == '!' || r == '?':
			// word punctuation
		default:
			other = true
		}
	}
	switch {
	case other:
		return guessText
	case upperish && !letters:
		return guessUpper
	case letters && (shared || upperish):
		return guessLower
	case shared && !letters:
		return guessAnnot
	case letters:
		return guessWord
	default:
		return guessText
	}
}

// splitLines cuts the input into rows with absolute character offsets.
// Lines are separated by '\n'; a trailing '\r' is stripped but still
// counted in the offsets.
func splitLines(input string) []rawLine {
	var out []rawLine
	start := 0
	row := 0
	runes := []rune(input)
	for i := 0; i <= len(runes); i++ {
		if i == len(runes) || runes[i] == '\n' {
			if i == len(runes) && i == start && row > 0 {
				break
			}
			text := string(runes[start:i])
			text = strings.TrimSuffix(text, "\r")
			out = append(out, rawLine{text: text, row: row, start: start})
			start = i + 1
			row++
		}
	}
	return out
}

// classifyLines fills in the intrinsic guess for every line.
func classifyLines(lines []rawLine) {
	for i := range lines {
		lines[i].guess = guessLine(lines[i].text)
		if lines[i].guess == guessDirective {
			k, v, c, _ := matchDirective(lines[i].text)
			lines[i].key, lines[i].value, lines[i].colon = k, v, c
		}
	}
}

// musicalRatio is the share of non-whitespace characters that read as
// music (pitch characters, dashes, barlines). It drives the single-line
// document rule.
func musicalRatio(text string) float64 {
	total, musical := 0, 0
	for _, r := range text {
		if r == ' ' || r == '\t' {
			continue
		}
		total++
		if isPitchChar(r) || r == '-' || r == '|' {
			musical++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(musical) / float64(total)
}

// assembleDocument groups classified lines into directives and stave
// skeletons. Stave stages downstream of classification fill in the
// elements; here only the line roles are fixed.
func assembleDocument(input string) (*Document, []ParseError) {
	doc := &Document{Source: input}
	lines := splitLines(input)
	classifyLines(lines)

	var errs []ParseError

	// Single-line documents are parsed only when they read mostly as
	// music.
	var nonBlank []rawLine
	for _, ln := range lines {
		if ln.guess != guessBlank {
			nonBlank = append(nonBlank, ln)
		}
	}
	if len(nonBlank) == 1 && nonBlank[0].guess != guessDirective {
		ln := nonBlank[0]
		if musicalRatio(ln.text) < 0.25 {
			return doc, nil
		}
		stave := &Stave{
			Lines:  []StaveLine{{Kind: LineContent, Row: ln.row, Start: ln.start, Text: ln.text}},
			Source: ln.text,
		}
		doc.Elements = append(doc.Elements, DocElement{Kind: DocStave, Stave: stave})
		return doc, nil
	}

	// Cut into paragraphs at blank lines.
	var paras [][]rawLine
	var blanks []int // blank run length preceding each paragraph, index-aligned
	cur := []rawLine(nil)
	blankRun := 0
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, cur)
			blanks = append(blanks, blankRun)
			cur = nil
			blankRun = 0
		}
	}
	for _, ln := range lines {
		if ln.guess == guessBlank {
			if len(cur) > 0 {
				flush()
			}
			blankRun++
			continue
		}
		cur = append(cur, ln)
	}
	flush()

	seenStave := false
	for pi, para := range paras {
		if pi > 0 && blanks[pi] > 0 && len(doc.Elements) > 0 {
			doc.Elements = append(doc.Elements, DocElement{Kind: DocBlankLines, BlankCount: blanks[pi]})
		}
		allDirectives := true
		anyContent := false
		for _, ln := range para {
			if ln.guess != guessDirective {
				allDirectives = false
			}
			if ln.guess == guessContent {
				anyContent = true
			}
		}
		if allDirectives && !seenStave {
			for _, ln := range para {
				doc.Directives = append(doc.Directives, Directive{
					Key:   ln.key,
					Value: ln.value,
					Pos:   Position{Row: ln.row, Col: 0, CharIndex: ln.start},
				})
			}
			continue
		}
		if !anyContent {
			// Free text paragraph; nothing musical to keep.
			continue
		}
		for _, stave := range splitStaves(para, &errs) {
			doc.Elements = append(doc.Elements, DocElement{Kind: DocStave, Stave: stave})
			seenStave = true
		}
	}

	markMultiStave(doc)
	return doc, errs
}

// splitStaves cuts a paragraph with one or more content lines into
// staves. Lines between two content lines belong to the earlier stave,
// except a trailing run of upper-only annotation lines, which belongs
// to the next one.
func splitStaves(para []rawLine, errs *[]ParseError) []*Stave {
	var contentIdx []int
	for i, ln := range para {
		if ln.guess == guessContent {
			contentIdx = append(contentIdx, i)
		}
	}

	var staves []*Stave
	from := 0
	for ci, idx := range contentIdx {
		to := len(para)
		if ci+1 < len(contentIdx) {
			to = contentIdx[ci+1]
			// Give the next stave its trailing upper lines.
			for to > idx+1 && para[to-1].guess == guessUpper {
				to--
			}
		}
		staves = append(staves, buildStave(para[from:to], idx-from, errs))
		from = to
	}
	return staves
}

// buildStave assigns line roles around the single content line at
// index content.
func buildStave(lines []rawLine, content int, errs *[]ParseError) *Stave {
	stave := &Stave{}
	for i, ln := range lines {
		var kind LineKind
		switch {
		case i == content:
			kind = LineContent
		case i < content:
			switch ln.guess {
			case guessUpper, guessAnnot, guessLower:
				kind = LineUpper
			case guessDirective:
				*errs = append(*errs, ParseError{
					Message: "directive after first stave",
					Pos:     Position{Row: ln.row, Col: 0, CharIndex: ln.start},
				})
				kind = LineText
			default:
				kind = LineText
			}
		default:
			switch ln.guess {
			case guessAnnot, guessLower, guessUpper:
				kind = LineLower
			case guessWord:
				kind = LineLyrics
			case guessDirective:
				*errs = append(*errs, ParseError{
					Message: "directive after first stave",
					Pos:     Position{Row: ln.row, Col: 0, CharIndex: ln.start},
				})
				kind = LineText
			default:
				kind = LineText
			}
		}
		stave.Lines = append(stave.Lines, StaveLine{Kind: kind, Row: ln.row, Start: ln.start, Text: ln.text})
	}
	var texts []string
	for _, ln := range lines {
		texts = append(texts, ln.text)
	}
	stave.Source = strings.Join(texts, "\n")
	return stave
}

// markMultiStave sets the grouping flags on the first and last stave
// when the document holds more than one.
func markMultiStave(doc *Document) {
	staves := doc.Staves()
	if len(staves) < 2 {
		return
	}
	staves[0].BeginMultiStave = true
	staves[len(staves)-1].EndMultiStave = true
}
