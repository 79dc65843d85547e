package htmlpage

import (
	"fmt"
	"strings"

	"github.com/gompdf/gompage/internal/render"
)

const baseCSS = `
* { box-sizing: border-box; }
body { margin: 0; font-family: Helvetica, Arial, sans-serif; font-size: 11pt; line-height: 1.45; color: #111; }
.section-title { font-size: 15pt; line-height: 1.3; margin: 0 0 8pt 0; }
.block { padding: 8pt 0; }
.block p { margin: 0 0 6pt 0; }
.block-atomic { break-inside: avoid; }
.block figure { margin: 0; }
.block img { max-width: 100%; }
.running-header, .running-footer { display: flex; justify-content: space-between; align-items: center; font-size: 9pt; color: #555; }
`

// stylesheet returns the CSS for a frame in the given mode. All lengths are in points.
func stylesheet(f render.Frame, mode render.Mode, gap float64) string {
	var b strings.Builder
	b.WriteString(baseCSS)

	m := f.Margins
	if mode == render.Print {
		fmt.Fprintf(&b, "@page { size: %.2fpt %.2fpt; margin: %.2fpt %.2fpt %.2fpt %.2fpt; }\n",
			f.Width, f.Height, m.Top, m.Right, m.Bottom, m.Left)
		b.WriteString(".toolbar { display: none; }\n")
		fmt.Fprintf(&b, ".running-header { position: fixed; top: 0; left: 0; right: 0; height: %.2fpt; }\n", f.Header.Height)
		fmt.Fprintf(&b, ".running-footer { position: fixed; bottom: 0; left: 0; right: 0; height: %.2fpt; }\n", f.Footer.Height)
		fmt.Fprintf(&b, ".page { padding-top: %.2fpt; padding-bottom: %.2fpt; break-after: page; }\n", f.Header.Height, f.Footer.Height)
		b.WriteString(".page:last-child { break-after: auto; }\n")
		return b.String()
	}

	fmt.Fprintf(&b, "body { background: #e5e5e5; padding: %.2fpt 0; }\n", gap)
	fmt.Fprintf(&b, ".pages { display: flex; flex-direction: column; align-items: center; gap: %.2fpt; }\n", gap)
	fmt.Fprintf(&b, ".sheet { position: relative; width: %.2fpt; height: %.2fpt; padding: %.2fpt %.2fpt %.2fpt %.2fpt; background: #fff; border: 1px solid #d4d4d4; box-shadow: 0 2px 8px rgba(0,0,0,.15); overflow: hidden; }\n",
		f.Width, f.Height, m.Top, m.Right, m.Bottom, m.Left)
	fmt.Fprintf(&b, ".sheet .running-header { height: %.2fpt; }\n", f.Header.Height)
	fmt.Fprintf(&b, ".sheet .content { height: %.2fpt; }\n", f.Content.Height)
	fmt.Fprintf(&b, ".sheet .running-footer { height: %.2fpt; }\n", f.Footer.Height)
	b.WriteString(".sheet-overflow { outline: 2px solid #d33; }\n")
	b.WriteString(".toolbar { display: flex; justify-content: center; margin-bottom: 12pt; }\n")
	b.WriteString("@media print { body { background: none; padding: 0; } .toolbar { display: none; } .pages { display: block; } .sheet { border: none; box-shadow: none; break-after: page; } }\n")
	return b.String()
}
