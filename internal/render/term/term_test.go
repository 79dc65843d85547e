package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/pagination"
	"github.com/gompdf/gompage/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStacksPages(t *testing.T) {
	items, err := block.Build([]block.Section{
		{ID: "a", Title: "Alpha", Paragraphs: []string{"first"}, Height: 60},
		{ID: "b", Title: "Beta", Paragraphs: []string{"second"}, Height: 60},
		{ID: "c", Title: "Gamma", Paragraphs: []string{"third"}, Height: 60},
	}, nil)
	require.NoError(t, err)

	res, err := pagination.Assemble(items, geometry.Geometry{ContentHeight: 128})
	require.NoError(t, err)
	require.Equal(t, 2, res.PageCount())

	var buf bytes.Buffer
	in := &render.Input{Result: res, Chrome: render.Chrome{Header: "Report", Footer: "Confidential · 2026", PageNumbers: true}}
	require.NoError(t, NewRenderer().Render(&buf, in))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "Report"))
	assert.Contains(t, out, "Page 1")
	assert.Contains(t, out, "Page 2")
	assert.Contains(t, out, "Gamma")
	assert.Less(t, strings.Index(out, "Beta"), strings.Index(out, "Page 1"))
	assert.Greater(t, strings.Index(out, "Gamma"), strings.Index(out, "Page 1"))
}

func TestRenderClipsOverflow(t *testing.T) {
	long := strings.Repeat("word ", 400)
	items := []block.Item{&block.ContentBlock{ID: "big", Kind: block.Atomic, Height: 500, Content: long}}
	res, err := pagination.Assemble(items, geometry.Geometry{ContentHeight: 64})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(&buf, &render.Input{Result: res, Chrome: render.DefaultChrome()}))
	assert.Contains(t, buf.String(), "clipped")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("abc", 0))
}
