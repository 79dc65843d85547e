package text

import (
	"golang.org/x/text/unicode/bidi"
)

// Direction represents text direction
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// String returns the value used by the HTML dir attribute
func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// DetectDirection returns the direction of the first strong character,
// following the paragraph-level rule of the Unicode bidi algorithm.
// Text without strong characters is left-to-right.
func DetectDirection(text string) Direction {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return LeftToRight
		case bidi.R, bidi.AL:
			return RightToLeft
		}
	}
	return LeftToRight
}

// IsRTL reports whether the text contains any right-to-left character
func IsRTL(text string) bool {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		if c := props.Class(); c == bidi.R || c == bidi.AL {
			return true
		}
	}
	return false
}
