package musictext

import "strings"

// detectNotation fixes the notation system for a stave by counting
// per-character votes over its content line. Characters shared by the
// Western and sargam alphabets vote for both; ties fall to Number when
// any digit is present, otherwise to Western.
func detectNotation(content string) NotationSystem {
	var number, western, sargam int
	for _, r := range content {
		switch {
		case r >= '1' && r <= '7':
			number++
		case strings.ContainsRune("CEFAB", r):
			western++
		case strings.ContainsRune("SsrmNnp", r):
			sargam++
		case strings.ContainsRune("GgDdRMP", r):
			western++
			sargam++
		}
	}
	max := number
	if western > max {
		max = western
	}
	if sargam > max {
		max = sargam
	}
	switch {
	case number == max && number > 0:
		return SystemNumber
	case western == max && western > 0:
		return SystemWestern
	case sargam == max && sargam > 0:
		return SystemSargam
	default:
		return SystemWestern
	}
}
