package htmlpage

import (
	"strings"
	"testing"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/pagination"
	"github.com/gompdf/gompage/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func sampleInput(t *testing.T) *render.Input {
	t.Helper()
	items, err := block.Build([]block.Section{
		{ID: "intro", Title: "Introduction", Paragraphs: []string{"First paragraph."}, Height: 300},
		{ID: "table", Title: "Table", KeepTogether: true, Height: 400, HTML: `<p onclick="x()">Cell <script>alert(1)</script>data</p>`},
		{ID: "hebrew", Paragraphs: []string{"שלום עולם"}, Height: 100, BreakBefore: true},
	}, nil)
	require.NoError(t, err)

	g := geometry.FromMedium(geometry.PageSizeA4, geometry.DefaultMargins(), geometry.MM(12), geometry.MM(12))
	res, err := pagination.Assemble(items, g)
	require.NoError(t, err)
	require.Equal(t, 3, res.PageCount())

	return &render.Input{
		Title:  "Report",
		Result: res,
		Chrome: render.Chrome{Header: "Your Title · Subtitle", Footer: "Confidential · 2026", PageNumbers: true},
	}
}

func TestRenderPreview(t *testing.T) {
	in := sampleInput(t)
	out, err := NewRenderer(nil).RenderString(in, render.Preview)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Equal(t, 3, strings.Count(out, `class="sheet"`))
	assert.Equal(t, 3, strings.Count(out, `class="running-header"`))
	assert.Equal(t, 3, strings.Count(out, `class="running-footer"`))
	assert.Contains(t, out, "Page 1")
	assert.Contains(t, out, "Page 3")
	assert.Contains(t, out, "width: 595.28pt; height: 841.89pt")
	assert.Contains(t, out, "box-shadow")
	assert.Contains(t, out, "window.print()")
	assert.Contains(t, out, `data-block-id="table"`)
	assert.Contains(t, out, `class="block block-atomic"`)
	assert.Contains(t, out, `dir="rtl"`)
	assert.NotContains(t, out, "@page")
}

func TestRenderPrint(t *testing.T) {
	in := sampleInput(t)
	out, err := NewRenderer(nil).RenderString(in, render.Print)
	require.NoError(t, err)

	assert.Contains(t, out, "@page { size: 595.28pt 841.89pt; margin: 42.52pt 56.69pt 56.69pt 56.69pt; }")
	assert.Equal(t, 1, strings.Count(out, `class="running-header"`))
	assert.Equal(t, 1, strings.Count(out, `class="running-footer"`))
	assert.Contains(t, out, "position: fixed")
	assert.Contains(t, out, "break-after: page")
	assert.Equal(t, 3, strings.Count(out, `class="page"`))
	assert.NotContains(t, out, `class="sheet"`)
	assert.NotContains(t, out, "window.print()")
	assert.NotContains(t, out, "Page 1")
}

func TestRenderSanitizesHTML(t *testing.T) {
	out, err := NewRenderer(nil).RenderString(sampleInput(t), render.Preview)
	require.NoError(t, err)

	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "onclick=\"x()\"")
	assert.Contains(t, out, "Cell")
	assert.Contains(t, out, "data")
}

func TestRenderIsModeInvariant(t *testing.T) {
	in := sampleInput(t)

	snapshot := make([][]*block.ContentBlock, 0, len(in.Result.Pages))
	for _, p := range in.Result.Pages {
		snapshot = append(snapshot, append([]*block.ContentBlock(nil), p.Blocks...))
	}

	r := NewRenderer(nil)
	_, err := r.RenderString(in, render.Preview)
	require.NoError(t, err)
	_, err = r.RenderString(in, render.Print)
	require.NoError(t, err)

	require.Len(t, in.Result.Pages, len(snapshot))
	for i, p := range in.Result.Pages {
		assert.Equal(t, snapshot[i], p.Blocks)
		assert.Equal(t, i+1, p.Index)
	}
}

func TestPrintActionForm(t *testing.T) {
	r := NewRenderer(nil)
	r.PrintAction = "/api/print"

	out, err := r.RenderString(sampleInput(t), render.Preview)
	require.NoError(t, err)
	assert.Contains(t, out, `<form method="post" action="/api/print">`)
}

func TestSectionContentPayloads(t *testing.T) {
	c := NewSectionContent(nil)

	nodes, err := c.Render(&block.ContentBlock{ID: "s", Content: "one\n\ntwo"})
	require.NoError(t, err)
	assert.Len(t, nodes, 2)

	n := &html.Node{Type: html.ElementNode, Data: "hr"}
	nodes, err = c.Render(&block.ContentBlock{ID: "n", Content: n})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.NotSame(t, n, nodes[0])

	nodes, err = c.Render(&block.ContentBlock{ID: "img", Content: block.Section{
		Image: &block.Image{Src: "data:image/png;base64,AAAA", Alt: "Chart", Width: 120},
	}})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "figure", nodes[0].Data)

	nodes, err = c.Render(&block.ContentBlock{ID: "empty"})
	require.NoError(t, err)
	assert.Empty(t, nodes)

	_, err = c.Render(&block.ContentBlock{ID: "bad", Content: 42})
	assert.Error(t, err)
}

func TestRenderRequiresResult(t *testing.T) {
	_, err := NewRenderer(nil).RenderString(&render.Input{}, render.Preview)
	assert.Error(t, err)
}
