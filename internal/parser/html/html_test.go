package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndQuery(t *testing.T) {
	doc, err := NewParser().ParseString(`<html><body>
		<header class="running-header">Your Title · Subtitle</header>
		<main>
			<section id="s1" class="break-inside-avoid card"><h2>One</h2><p>Alpha   beta</p></section>
			<div class="page-break"></div>
			<section id="s2"><p>Gamma</p></section>
		</main>
	</body></html>`)
	require.NoError(t, err)

	header := doc.Root.Find(func(n *Node) bool { return n.HasClass("running-header") })
	require.NotNil(t, header)
	assert.Equal(t, "Your Title · Subtitle", header.Text())

	sections := doc.Root.FindAll(func(n *Node) bool { return n.IsElement("section") })
	require.Len(t, sections, 2)

	id, ok := sections[0].GetAttr("id")
	assert.True(t, ok)
	assert.Equal(t, "s1", id)
	assert.True(t, sections[0].HasClass("card"))
	assert.False(t, sections[0].HasClass("page-break"))
	assert.Equal(t, "One\nAlpha beta", sections[0].Text())

	main := doc.Root.Find(func(n *Node) bool { return n.IsElement("main") })
	var elems int
	for _, c := range main.Children() {
		if c.IsElement() {
			elems++
		}
	}
	assert.Equal(t, 3, elems)
}

func TestParseFragment(t *testing.T) {
	nodes, err := NewParser().ParseFragment(`<p>one</p><p>two</p>tail`)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Same(t, nodes[1], nodes[0].NextSibling)
	assert.Equal(t, "two", nodes[1].Text())
}

func TestRenderRoundTrip(t *testing.T) {
	doc, err := NewParser().ParseString(`<p class="x">a<b>b</b></p>`)
	require.NoError(t, err)

	out, err := doc.Render()
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `<p class="x">a<b>b</b></p>`), out)
}
