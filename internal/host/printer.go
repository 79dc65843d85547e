// Package host hands print documents to the platform's print facility.
package host

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/gompdf/gompage/internal/geometry"
)

// Printer turns a print-mode HTML document into PDF bytes
type Printer interface {
	Print(ctx context.Context, html string, g geometry.Geometry) ([]byte, error)
}

// PrinterFunc adapts a function to the Printer interface
type PrinterFunc func(ctx context.Context, html string, g geometry.Geometry) ([]byte, error)

// Print calls f
func (f PrinterFunc) Print(ctx context.Context, html string, g geometry.Geometry) ([]byte, error) {
	return f(ctx, html, g)
}

// ChromePrinter prints through headless Chrome
type ChromePrinter struct {
	// ExecPath overrides the Chrome executable; CHROME_PATH is used when empty
	ExecPath string
	// PageNumbers adds "Page N" to the footer of every physical page
	PageNumbers bool
	// Settle is how long to wait after loading the document before printing
	Settle time.Duration
}

// NewChromePrinter creates a printer that numbers pages
func NewChromePrinter() *ChromePrinter {
	return &ChromePrinter{PageNumbers: true, Settle: 100 * time.Millisecond}
}

const footerTemplate = `<div style="width:100%;font-size:8pt;color:#555;text-align:right;padding:0 12mm;">` +
	`Page <span class="pageNumber"></span></div>`

// Print loads html into a blank tab and prints it on the medium of g
func (p *ChromePrinter) Print(ctx context.Context, html string, g geometry.Geometry) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	execPath := p.ExecPath
	if execPath == "" {
		execPath = os.Getenv("CHROME_PATH")
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	medium := g.Medium
	if medium.Width <= 0 || medium.Height <= 0 {
		medium = geometry.PageSizeA4
	}

	var pdfBuf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.Sleep(p.Settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			params := page.PrintToPDF().
				WithPaperWidth(inches(medium.Width)).
				WithPaperHeight(inches(medium.Height)).
				WithMarginTop(inches(g.Margins.Top)).
				WithMarginBottom(inches(g.Margins.Bottom)).
				WithMarginLeft(inches(g.Margins.Left)).
				WithMarginRight(inches(g.Margins.Right)).
				WithPreferCSSPageSize(true).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(p.PageNumbers)
			if p.PageNumbers {
				params = params.
					WithHeaderTemplate("<span></span>").
					WithFooterTemplate(footerTemplate)
			}
			buf, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print document: %w", err)
	}

	return pdfBuf, nil
}

// inches converts points to the inches PrintToPDF expects
func inches(pt float64) float64 {
	return pt / 72.0
}
