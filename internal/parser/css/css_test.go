package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const printCSS = `
/* running bands */
@import url("base.css");
.running-header, .running-footer { color: #555; }
main section p { margin: 0 0 1em 0 }
@page { size: A4; margin: 15mm 20mm 20mm 20mm }
@media print {
  .running-header { position: fixed; top: 0 }
  .sheet { box-shadow: none !important }
}
@media screen {
  .sheet { box-shadow: 0 0 4px #000 }
}
`

func TestParseStylesheet(t *testing.T) {
	sheet, err := NewParser().ParseString(printCSS)
	require.NoError(t, err)

	require.Len(t, sheet.Rules, 4)
	assert.Equal(t, []string{".running-header", ".running-footer"}, sheet.Rules[0].Selectors)
	assert.Equal(t, []string{"main section p"}, sheet.Rules[1].Selectors)
	assert.Equal(t, ".running-header", sheet.Rules[2].Selectors[0])

	shadow := sheet.Rules[3].Declarations[0]
	assert.Equal(t, "box-shadow", shadow.Property)
	assert.Equal(t, "none", shadow.Value)
	assert.True(t, shadow.Important)

	page := sheet.Page()
	assert.Equal(t, "A4", page["size"])
	assert.Equal(t, "15mm 20mm 20mm 20mm", page["margin"])
}

func TestParseScreenMedium(t *testing.T) {
	sheet, err := (&Parser{Medium: "screen"}).ParseString(printCSS)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 3)
	assert.Equal(t, "0 0 4px #000", sheet.Rules[2].Declarations[0].Value)
}

func TestParseDeclarations(t *testing.T) {
	decls := ParseDeclarations("Height: 120px; break-inside:avoid ;; junk ; color: red !important")
	require.Len(t, decls, 3)
	assert.Equal(t, "height", decls[0].Property)
	assert.Equal(t, "120px", decls[0].Value)
	assert.Equal(t, "avoid", decls[1].Value)
	assert.True(t, decls[2].Important)
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"72pt", 72},
		{"96px", 72},
		{"96", 72},
		{"1in", 72},
		{"25.4mm", 72},
		{"2.54cm", 72},
		{"2em", 24},
		{"1.5rem", 18},
		{"1pc", 12},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.in, 12)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 0.001, tt.in)
	}

	for _, bad := range []string{"", "auto", "50%", "abcpx", "NaNmm", "infpt", "-Inf", "1e400px"} {
		_, err := ParseLength(bad, 12)
		assert.Error(t, err, bad)
	}
}

func TestParseBox(t *testing.T) {
	box, err := ParseBox("10pt 20pt", 12)
	require.NoError(t, err)
	assert.Equal(t, [4]float64{10, 20, 10, 20}, box)

	box, err = ParseBox("1pt 2pt 3pt", 12)
	require.NoError(t, err)
	assert.Equal(t, [4]float64{1, 2, 3, 2}, box)

	_, err = ParseBox("1pt 2pt 3pt 4pt 5pt", 12)
	assert.Error(t, err)
}

func TestParsePageSize(t *testing.T) {
	size, err := ParsePageSize("A4")
	require.NoError(t, err)
	assert.Equal(t, "a4", size.Name)

	size, err = ParsePageSize("letter landscape")
	require.NoError(t, err)
	assert.Equal(t, "letter", size.Name)
	assert.Equal(t, "landscape", size.Orientation)

	size, err = ParsePageSize("210mm 297mm")
	require.NoError(t, err)
	assert.InDelta(t, 595.28, size.Width, 0.01)
	assert.InDelta(t, 841.89, size.Height, 0.01)

	_, err = ParsePageSize("auto")
	assert.Error(t, err)
}
