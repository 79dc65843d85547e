package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/render"
	"github.com/gompdf/gompage/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// small returns a paginator whose content band is exactly 100pt tall
func small(opts ...Option) *Paginator {
	base := []Option{
		WithPageSize(300, 100),
		WithPageOrientation(PageOrientationLandscape),
		WithMargins(0, 0, 0, 0),
		WithBands(0, 0),
		WithChrome("Report", "Internal"),
	}
	return New(append(base, opts...)...)
}

func sections(heights ...float64) []block.Section {
	out := make([]block.Section, len(heights))
	for i, h := range heights {
		out[i] = block.Section{ID: string(rune('a' + i)), Title: "Section", Height: h}
	}
	return out
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	g := o.Geometry()

	assert.Equal(t, PageSizeA4Width, g.Medium.Width)
	assert.Equal(t, PageSizeA4Height, g.Medium.Height)
	assert.InDelta(t, geometry.Default().ContentHeight, g.ContentHeight, 1e-9)
	assert.True(t, o.PageNumbers)
	assert.Contains(t, o.Footer, "Confidential")
	require.NoError(t, g.Validate())
}

func TestOptionsLandscape(t *testing.T) {
	g := New(WithPageSizeA4(), WithPageOrientation(PageOrientationLandscape)).Geometry()
	assert.Equal(t, PageSizeA4Height, g.Medium.Width)
	assert.Equal(t, PageSizeA4Width, g.Medium.Height)

	g = New(WithNamedPageSize("letter")).Geometry()
	assert.Equal(t, 612.0, g.Medium.Width)
}

func TestPaginate(t *testing.T) {
	p := small()

	doc, result, err := p.Paginate(sections(40, 40, 40))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Len())
	require.Equal(t, 2, result.PageCount())
	assert.Len(t, result.Pages[0].Blocks, 2)
	assert.Len(t, result.Pages[1].Blocks, 1)
}

func TestPaginateInvalidGeometry(t *testing.T) {
	p := New(WithPageSize(200, 300), WithMargins(150, 0, 150, 0), WithBands(0, 0))
	_, _, err := p.Paginate(sections(10))
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)
}

func TestPaginateNonFiniteLengths(t *testing.T) {
	_, _, err := small().Paginate(sections(math.NaN(), 60, 60))
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)

	p := small(WithMargins(math.NaN(), 0, 0, 0))
	_, _, err = p.Paginate(sections(60, 60))
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)

	_, err = source.FromHTML(strings.NewReader(`<style>@page { margin: NaNmm }</style>
		<main><section style="height: 600pt"><h2>A</h2></section></main>`), nil)
	assert.ErrorIs(t, err, source.ErrInvalidDocument)
}

func TestPaginateAssignsStableIDs(t *testing.T) {
	untitled := []block.Section{{Height: 60}, {Height: 60}}
	_, first, err := small().Paginate(untitled)
	require.NoError(t, err)
	_, second, err := small().Paginate(untitled)
	require.NoError(t, err)
	assert.Equal(t, View(first).Pages, View(second).Pages)
}

func TestDefaultEstimatorMeasuresText(t *testing.T) {
	p := New()
	h, err := p.Estimator().EstimateHeight(block.Section{Title: "Heading", Paragraphs: []string{"Some words"}})
	require.NoError(t, err)
	assert.Greater(t, h, 0.0)

	fixed := block.EstimatorFunc(func(block.Section) (float64, error) { return 42, nil })
	h, err = New(WithEstimator(fixed)).Estimator().EstimateHeight(block.Section{})
	require.NoError(t, err)
	assert.Equal(t, 42.0, h)
}

func TestRenderFormats(t *testing.T) {
	p := small()
	_, result, err := p.Paginate(sections(40, 40, 40))
	require.NoError(t, err)

	var htmlOut bytes.Buffer
	require.NoError(t, p.Render(&htmlOut, result, FormatHTML, render.Preview))
	assert.Equal(t, 2, strings.Count(htmlOut.String(), `class="sheet"`))

	var printOut bytes.Buffer
	require.NoError(t, p.Render(&printOut, result, FormatHTML, render.Print))
	assert.Contains(t, printOut.String(), "@page")

	var pdfOut bytes.Buffer
	require.NoError(t, p.Render(&pdfOut, result, FormatPDF, render.Print))
	assert.True(t, strings.HasPrefix(pdfOut.String(), "%PDF-"))

	var textOut bytes.Buffer
	require.NoError(t, p.Render(&textOut, result, FormatText, render.Preview))
	assert.Contains(t, textOut.String(), "Page 2")

	var jsonOut bytes.Buffer
	require.NoError(t, p.Render(&jsonOut, result, FormatJSON, render.Preview))
	var view ResultView
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &view))
	assert.Equal(t, 2, view.PageCount)
	assert.Equal(t, []string{"a", "b"}, view.Pages[0].Blocks)
	assert.Equal(t, 100.0, view.Geometry.ContentHeight)

	assert.ErrorIs(t, p.Render(&bytes.Buffer{}, result, Format("doc"), render.Preview), ErrUnknownFormat)
}

func TestRenderModesLeaveResultUnchanged(t *testing.T) {
	p := small()
	_, result, err := p.Paginate(sections(40, 70, 30, 120))
	require.NoError(t, err)

	before := View(result)
	require.NoError(t, p.RenderHTML(&bytes.Buffer{}, result, render.Preview))
	require.NoError(t, p.RenderHTML(&bytes.Buffer{}, result, render.Print))
	require.NoError(t, p.RenderPDF(&bytes.Buffer{}, result))
	assert.Equal(t, before, View(result))
}

func TestJSONDiagnostics(t *testing.T) {
	p := small()
	_, result, err := p.Paginate([]block.Section{{ID: "huge", Height: 150, KeepTogether: true}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, result))
	assert.Contains(t, buf.String(), `"blockId": "huge"`)
	assert.Contains(t, buf.String(), `"overflow": true`)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"html": FormatHTML, "PDF": FormatPDF, "txt": FormatText, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, FormatPDF, FormatFromPath("out/report.pdf"))
	assert.Equal(t, FormatHTML, FormatFromPath("out/report"))
}

func TestForSource(t *testing.T) {
	doc := &source.Document{
		Title:   "Doc",
		Header:  "From document",
		Medium:  geometry.PageSizeA5.Landscape(),
		Margins: geometry.Margins{Top: 10, Right: 10, Bottom: 10, Left: 10},
	}

	p := New(WithChrome("", "Kept footer")).ForSource(doc)
	o := p.Options()
	assert.Equal(t, "From document", o.Header)
	assert.Equal(t, "Kept footer", o.Footer)
	assert.Equal(t, "Doc", o.Title)

	g := p.Geometry()
	assert.Equal(t, geometry.PageSizeA5.Height, g.Medium.Width)
	assert.Equal(t, 10.0, g.Margins.Left)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(input, []byte(`{
		"header": "Quarterly",
		"sections": [
			{"id": "one", "title": "One", "height": 200},
			{"pageBreak": true},
			{"id": "two", "title": "Two", "height": 200}
		]
	}`), 0o644))

	output := filepath.Join(dir, "out", "pages.json")
	require.NoError(t, New().ConvertFile(context.Background(), input, output, render.Preview))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var view ResultView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, 2, view.PageCount)
	assert.Equal(t, []string{"two"}, view.Pages[1].Blocks)
}

func TestConvertHTML(t *testing.T) {
	doc, err := source.FromHTML(strings.NewReader(`<main>
		<section id="a" style="height: 300pt"><h2>A</h2></section>
		<section id="b" style="height: 300pt"><h2>B</h2></section>
		<section id="c" style="height: 300pt"><h2>C</h2></section>
	</main>`), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, New().Convert(doc, &buf, FormatJSON, render.Preview))

	var view ResultView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, 2, view.PageCount)
}
