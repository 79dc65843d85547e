package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit conversion factors to PDF points (1/72 inch)
const (
	pxToPt = 72.0 / 96.0
	mmToPt = 72.0 / 25.4
	cmToPt = 72.0 / 2.54
	inToPt = 72.0
	pcToPt = 12.0
)

// ParseLength converts a CSS length to points.
// em and rem resolve against fontSize; a bare number is read as px.
// Percentages and keywords such as auto are not lengths and fail.
func ParseLength(value string, fontSize float64) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return 0, fmt.Errorf("empty length")
	}
	if v == "0" {
		return 0, nil
	}

	units := []struct {
		suffix string
		factor float64
	}{
		{"rem", fontSize},
		{"em", fontSize},
		{"px", pxToPt},
		{"pt", 1},
		{"pc", pcToPt},
		{"mm", mmToPt},
		{"cm", cmToPt},
		{"in", inToPt},
	}

	for _, u := range units {
		if num, ok := strings.CutSuffix(v, u.suffix); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid length %q: %w", value, err)
			}
			return finite(value, f*u.factor)
		}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", value, err)
	}
	return finite(value, f*pxToPt)
}

// finite rejects NaN and infinities, which ParseFloat accepts
func finite(value string, pt float64) (float64, error) {
	if math.IsNaN(pt) || math.IsInf(pt, 0) {
		return 0, fmt.Errorf("invalid length %q: not a finite number", value)
	}
	return pt, nil
}

// ParseBox expands a 1 to 4 value shorthand (margin, padding) into
// top, right, bottom, left in points.
func ParseBox(value string, fontSize float64) ([4]float64, error) {
	var out [4]float64
	fields := strings.Fields(value)
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		l, err := ParseLength(f, fontSize)
		if err != nil {
			return out, err
		}
		vals = append(vals, l)
	}

	switch len(vals) {
	case 1:
		out = [4]float64{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		out = [4]float64{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		out = [4]float64{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		out = [4]float64{vals[0], vals[1], vals[2], vals[3]}
	default:
		return out, fmt.Errorf("invalid box shorthand %q", value)
	}
	return out, nil
}

// PageSizeValue is the parsed value of the @page size descriptor
type PageSizeValue struct {
	// Name is a named medium such as A4, empty for explicit dimensions
	Name   string
	Width  float64
	Height float64
	// Orientation is "portrait", "landscape" or empty
	Orientation string
}

// ParsePageSize parses values such as "A4", "letter landscape" or "210mm 297mm"
func ParsePageSize(value string) (PageSizeValue, error) {
	var ps PageSizeValue
	var lengths []float64

	for _, f := range strings.Fields(strings.ToLower(value)) {
		switch f {
		case "portrait", "landscape":
			ps.Orientation = f
		case "auto":
		default:
			if l, err := ParseLength(f, 12); err == nil {
				lengths = append(lengths, l)
				continue
			}
			ps.Name = f
		}
	}

	switch len(lengths) {
	case 0:
	case 1:
		ps.Width, ps.Height = lengths[0], lengths[0]
	case 2:
		ps.Width, ps.Height = lengths[0], lengths[1]
	default:
		return ps, fmt.Errorf("invalid page size %q", value)
	}

	if ps.Name == "" && ps.Width == 0 && ps.Orientation == "" {
		return ps, fmt.Errorf("invalid page size %q", value)
	}
	return ps, nil
}
