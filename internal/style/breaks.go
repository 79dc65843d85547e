package style

import (
	"github.com/gompdf/gompage/internal/parser/css"
)

// BreakBefore reports a forced page break before the element.
// Both break-before and the legacy page-break-before are honoured.
func (s ComputedStyle) BreakBefore() bool {
	return isForcedBreak(s.Get("break-before")) || s.Get("page-break-before") == "always"
}

// BreakAfter reports a forced page break after the element
func (s ComputedStyle) BreakAfter() bool {
	return isForcedBreak(s.Get("break-after")) || s.Get("page-break-after") == "always"
}

// AvoidBreakInside reports that the element must not be split across pages
func (s ComputedStyle) AvoidBreakInside() bool {
	for _, prop := range []string{"break-inside", "page-break-inside"} {
		switch s.Get(prop) {
		case "avoid", "avoid-page":
			return true
		}
	}
	return false
}

// Hidden reports display: none
func (s ComputedStyle) Hidden() bool {
	return s.Get("display") == "none"
}

// Height returns an explicit height in points, if one is set
func (s ComputedStyle) Height(fontSize float64) (float64, bool) {
	v := s.Get("height")
	if v == "" {
		return 0, false
	}
	h, err := css.ParseLength(v, fontSize)
	if err != nil || h < 0 {
		return 0, false
	}
	return h, true
}

func isForcedBreak(v string) bool {
	switch v {
	case "page", "always", "left", "right", "recto", "verso":
		return true
	}
	return false
}
