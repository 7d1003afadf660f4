// Package musictext parses plain-text music notation and renders it.
//
// The input format is a 2-D text layout:
//   - A content line carries pitches, dashes and barlines
//   - Upper lines carry octave dots, slurs, ornaments and tala markers
//   - Lower lines carry octave dots, beat-group arcs and inline syllables
//   - Lyrics lines carry space-separated syllables
//
// Three pitch systems are recognised and auto-detected per stave:
//   - Number: 1 2 3 4 5 6 7
//   - Western: C D E F G A B
//   - Sargam: S r R g G m M P d D n N
//
// # Pipeline
//
// Parsing runs in fixed passes:
//   - Line classification groups raw lines into staves and directives
//   - Content tokenization scans pitches, dashes and barlines
//   - Spatial assignment moves annotation markers onto the notes
//     below or above them by column proximity
//   - Rhythm analysis groups elements into beats, infers tuplets and
//     ties, and assigns fractional durations
//
// The assignment pass has move semantics: a marker's source value is
// consumed when it attaches to a note, and markers left unconsumed at
// the end of the pass become warnings.
//
// # Rendering
//
// Three back-ends consume the parsed document:
//   - EmitLily renders LilyPond source
//   - EmitScore renders a 2-D score model for notation display
//   - EmitSpans renders editor span and style streams
//
// # Error Tolerance
//
// Parsing never panics on malformed input. Structural problems such as
// malformed barlines are reported as errors alongside a partial
// document; everything recoverable (unassignable markers, dropped
// annotations) is reported as a warning.
package musictext
