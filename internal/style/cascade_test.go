package style

import (
	"testing"

	"github.com/gompdf/gompage/internal/parser/css"
	"github.com/gompdf/gompage/internal/parser/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *html.Document {
	t.Helper()
	doc, err := html.NewParser().ParseString(src)
	require.NoError(t, err)
	return doc
}

func byID(doc *html.Document, id string) *html.Node {
	return doc.Root.Find(func(n *html.Node) bool {
		v, _ := n.GetAttr("id")
		return v == id
	})
}

func TestBreakClassesFromUserAgent(t *testing.T) {
	doc := parse(t, `<main>
		<section id="a" class="break-inside-avoid">A</section>
		<div id="b" class="page-break"></div>
		<section id="c" style="page-break-before: always; height: 2in">C</section>
		<section id="d">D</section>
	</main>`)

	styles := NewStyleEngine().ComputeStyles(doc)

	a := styles[byID(doc, "a")]
	assert.True(t, a.AvoidBreakInside())
	assert.False(t, a.BreakAfter())

	assert.True(t, styles[byID(doc, "b")].BreakAfter())

	c := styles[byID(doc, "c")]
	assert.True(t, c.BreakBefore())
	h, ok := c.Height(12)
	assert.True(t, ok)
	assert.InDelta(t, 144, h, 0.001)

	d := styles[byID(doc, "d")]
	assert.False(t, d.AvoidBreakInside())
	_, ok = d.Height(12)
	assert.False(t, ok)
}

func TestCascadeOrder(t *testing.T) {
	doc := parse(t, `<main><section id="s" class="card keep" style="color: green">x</section></main>`)

	sheet, err := css.NewParser().ParseString(`
		section.card { break-inside: avoid; color: red }
		.card { break-inside: auto !important }
		main section { display: none }
		section { display: block }
		.keep { break-after: page }
		section.keep.card { break-after: avoid }
	`)
	require.NoError(t, err)

	engine := NewStyleEngine()
	engine.AddStylesheet(sheet)
	st := engine.ComputeStyle(byID(doc, "s"))

	assert.Equal(t, "auto", st.Get("break-inside"), "important wins over specificity")
	assert.Equal(t, "green", st.Get("color"), "inline wins over author")
	assert.True(t, st.Hidden(), "more specific selector wins over later one")
	assert.Equal(t, "avoid", st.Get("break-after"))
	assert.False(t, st.BreakAfter())
}

func TestAuthorOverridesUserAgent(t *testing.T) {
	doc := parse(t, `<div id="b" class="page-break"></div>`)
	sheet, err := css.NewParser().ParseString(`.page-break { break-after: auto } @page { size: letter landscape }`)
	require.NoError(t, err)

	engine := NewStyleEngine()
	engine.AddStylesheet(sheet)
	assert.False(t, engine.ComputeStyle(byID(doc, "b")).BreakAfter())

	page := engine.PageDescriptors()
	assert.Equal(t, "letter landscape", page["size"])
	assert.Equal(t, "15mm 20mm 20mm 20mm", page["margin"])
}

func TestSelectorMatching(t *testing.T) {
	doc := parse(t, `<article id="root"><div class="x"><p id="p" class="y z">t</p></div></article>`)
	p := byID(doc, "p")

	assert.True(t, matches(p, "p"))
	assert.True(t, matches(p, "P"))
	assert.True(t, matches(p, ".y.z"))
	assert.True(t, matches(p, "article .x p#p"))
	assert.True(t, matches(p, "*"))
	assert.False(t, matches(p, "section p"))
	assert.False(t, matches(p, "p:first-child"))
	assert.False(t, matches(p, "p.q"))
}

func TestSpecificity(t *testing.T) {
	assert.Equal(t, Specificity{ID: 1, Class: 1, Element: 1}, specificityOf("p#a.b"))
	assert.Equal(t, Specificity{Class: 2}, specificityOf(".a .b"))
	assert.Equal(t, Specificity{Element: 2}, specificityOf("main section"))
	assert.True(t, specificityOf(".a.b.c").Less(specificityOf("#a")))
	assert.False(t, specificityOf("p").Less(specificityOf("p")))
}
