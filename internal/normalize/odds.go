package normalize

import (
	"math"
	"strconv"
	"strings"
)

// DefaultVig is the standard US price assumed when a source omits
// spread or total odds.
const DefaultVig = -110

var textCleaner = strings.NewReplacer(
	"\u00a0", " ", // non-breaking space
	"\u2212", "-", // minus sign
	"\u2013", "-", // en dash, seen on some books
	"\u00bd", ".5",
)

// Clean trims text and maps the typographic characters sportsbooks use onto
// plain ASCII.
func Clean(text string) string {
	return strings.TrimSpace(textCleaner.Replace(text))
}

// ParseAmerican parses American odds such as "-110", "+150", "−180" or "EVEN".
// It returns nil for anything unparseable.
func ParseAmerican(text string) *int {
	s := strings.ToUpper(Clean(text))
	switch s {
	case "", "N/A", "NA", "-", "OFF":
		return nil
	case "EV", "EVEN", "EVS":
		v := 100
		return &v
	}
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// ParseLine parses a spread or total such as "+4.5", "−4½", "O 145.5",
// "U145" or "PK". It returns nil for anything unparseable or not finite.
func ParseLine(text string) *float64 {
	s := strings.ToUpper(Clean(text))
	if len(s) > 1 && (s[0] == 'O' || s[0] == 'U') && (s[1] == ' ' || s[1] == '.' || (s[1] >= '0' && s[1] <= '9')) {
		s = strings.TrimSpace(s[1:])
	}
	switch s {
	case "", "N/A", "NA", "-", "OFF":
		return nil
	case "PK", "PICK", "EVEN":
		v := 0.0
		return &v
	}
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	if v == 0 {
		v = 0 // drops the sign of "-0"
	}
	return &v
}

// IsSigned reports whether a line's text carries an explicit sign.
func IsSigned(text string) bool {
	s := Clean(text)
	return strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
}

// SplitOdds cuts text into a value and its trailing odds, taking the last
// four runes as the odds. Text of four runes or fewer yields an empty value.
func SplitOdds(text string) (value, odds string) {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= 4 {
		return "", string(r)
	}
	return strings.TrimSpace(string(r[:len(r)-4])), string(r[len(r)-4:])
}

// VigOr returns odds, or DefaultVig when odds is nil.
func VigOr(odds *int) *int {
	if odds != nil {
		return odds
	}
	v := DefaultVig
	return &v
}
