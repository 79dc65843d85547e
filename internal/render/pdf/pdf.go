package pdf

import (
	"bytes"
	"context"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/layout"
	"github.com/gompdf/gompage/internal/parser/html"
	"github.com/gompdf/gompage/internal/render"
	"github.com/gompdf/gompage/internal/res"
	"github.com/gompdf/gompage/internal/text"
)

// Renderer maps assembled pages onto physical PDF pages
type Renderer struct {
	Loader *res.Loader
	// Debug enables verbose logging
	Debug  bool
	Logger *log.Logger
	// DebugDrawBands outlines the header, content and footer bands
	DebugDrawBands bool

	Body  text.Font
	Title text.Font
	Band  text.Font

	TextColor    string
	BandColor    string
	TitleGap     float64
	ParagraphGap float64
	Padding      float64
}

// RenderOptions contains document metadata
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// NewRenderer creates a new PDF renderer
func NewRenderer(loader *res.Loader) *Renderer {
	est := layout.DefaultOptions(0)
	return &Renderer{
		Loader:       loader,
		Logger:       log.Default(),
		Body:         est.Body,
		Title:        est.Title,
		Band:         text.Font{Family: "Helvetica", Size: 9, LineHeight: 1.2},
		TextColor:    "#111111",
		BandColor:    "#555555",
		TitleGap:     est.TitleSpacing,
		ParagraphGap: est.ParagraphSpacing,
		Padding:      est.Padding,
	}
}

// RenderFile renders to a file, creating its directory when missing
func (r *Renderer) RenderFile(in *render.Input, outputPath string, options RenderOptions) error {
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := r.Render(f, in, options); err != nil {
		return err
	}
	return f.Close()
}

// Render writes one PDF page per assembled page. The header and footer are
// drawn at fixed positions on every page, automatic page breaks are off,
// and content that overflows the content band is clipped.
func (r *Renderer) Render(w io.Writer, in *render.Input, options RenderOptions) error {
	if err := in.Validate(); err != nil {
		return err
	}

	frame := render.FrameFor(in.Result.Geometry)

	// portrait orientation keeps Size as given, landscape media included
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: frame.Width, Ht: frame.Height},
	})
	pdf.SetMargins(frame.Margins.Left, frame.Content.Y, frame.Margins.Right)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)

	title := options.Title
	if title == "" {
		title = in.Title
	}
	pdf.SetTitle(title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetHeaderFunc(func() { r.renderHeader(pdf, tr, frame, in.Chrome) })
	pdf.SetFooterFunc(func() { r.renderFooter(pdf, tr, frame, in.Chrome) })

	if r.Debug {
		r.Logger.Printf("Rendering %d pages", in.Result.PageCount())
	}

	for _, page := range in.Result.Pages {
		pdf.AddPage()

		pdf.ClipRect(frame.Margins.Left, frame.Content.Y, frame.ContentWidth(), frame.Content.Height, false)
		pdf.SetXY(frame.Margins.Left, frame.Content.Y)
		for _, b := range page.Blocks {
			if err := r.renderBlock(pdf, tr, frame, b); err != nil {
				return err
			}
		}
		pdf.ClipEnd()

		if r.DebugDrawBands {
			r.drawBands(pdf, frame)
		}
		if r.Debug && page.Overflow {
			r.Logger.Printf("Page %d overflows its content band, clipping", page.Index)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (r *Renderer) renderHeader(pdf *fpdf.Fpdf, tr func(string) string, f render.Frame, c render.Chrome) {
	if c.Header == "" || f.Header.Height <= 0 {
		return
	}
	r.setFont(pdf, r.Band, r.BandColor)
	pdf.SetXY(f.Margins.Left, f.Header.Y)
	pdf.CellFormat(f.ContentWidth(), f.Header.Height, tr(c.Header), "", 0, "LM", false, 0, "")
}

func (r *Renderer) renderFooter(pdf *fpdf.Fpdf, tr func(string) string, f render.Frame, c render.Chrome) {
	if f.Footer.Height <= 0 {
		return
	}
	r.setFont(pdf, r.Band, r.BandColor)
	pdf.SetXY(f.Margins.Left, f.Footer.Y)
	pdf.CellFormat(f.ContentWidth(), f.Footer.Height, tr(c.Footer), "", 0, "LM", false, 0, "")
	if label := c.PageLabel(pdf.PageNo()); label != "" {
		pdf.SetXY(f.Margins.Left, f.Footer.Y)
		pdf.CellFormat(f.ContentWidth(), f.Footer.Height, label, "", 0, "RM", false, 0, "")
	}
}

func (r *Renderer) drawBands(pdf *fpdf.Fpdf, f render.Frame) {
	pdf.SetDrawColor(255, 0, 0)
	pdf.SetLineWidth(0.5)
	for _, b := range []render.Band{f.Header, f.Content, f.Footer} {
		pdf.Rect(f.Margins.Left, b.Y, f.ContentWidth(), b.Height, "D")
	}
}

func (r *Renderer) setFont(pdf *fpdf.Fpdf, font text.Font, color string) {
	family := font.Family
	if family == "" {
		family = "Helvetica"
	}
	pdf.SetFont(family, font.Style, font.Size)
	c := parseColor(color)
	pdf.SetTextColor(c[0], c[1], c[2])
}

func (r *Renderer) renderBlock(pdf *fpdf.Fpdf, tr func(string) string, f render.Frame, b *block.ContentBlock) error {
	width := f.ContentWidth()
	start := pdf.GetY()
	pdf.SetY(start + r.Padding)

	switch v := b.Content.(type) {
	case nil:
	case block.Section:
		if err := r.renderSection(pdf, tr, f, v); err != nil {
			return fmt.Errorf("failed to render block %q: %w", b.ID, err)
		}
	case *block.Section:
		if err := r.renderSection(pdf, tr, f, *v); err != nil {
			return fmt.Errorf("failed to render block %q: %w", b.ID, err)
		}
	case string:
		r.paragraphs(pdf, tr, width, []string{v})
	case fmt.Stringer:
		r.paragraphs(pdf, tr, width, []string{v.String()})
	default:
		if r.Debug {
			r.Logger.Printf("Unknown content type %T in block %q", b.Content, b.ID)
		}
	}

	// the assembler reserved b.Height; keep following blocks where it placed them
	end := max(pdf.GetY()+r.Padding, start+b.Height)
	pdf.SetXY(f.Margins.Left, end)
	return nil
}

func (r *Renderer) renderSection(pdf *fpdf.Fpdf, tr func(string) string, f render.Frame, s block.Section) error {
	width := f.ContentWidth()
	align := "L"
	if s.Dir == "rtl" {
		align = "R"
	}

	if s.Title != "" {
		r.setFont(pdf, r.Title, r.TextColor)
		pdf.SetX(f.Margins.Left)
		pdf.MultiCell(width, r.Title.Leading(), tr(s.Title), "", align, false)
		pdf.SetY(pdf.GetY() + r.TitleGap)
	}

	paras := append([]string(nil), s.Paragraphs...)
	if s.HTML != "" {
		nodes, err := html.NewParser().ParseFragment(s.HTML)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			if t := n.Text(); t != "" {
				paras = append(paras, t)
			}
		}
	}
	r.paragraphs(pdf, tr, width, paras)

	if s.Image != nil {
		return r.image(pdf, tr, f, s.Image)
	}
	return nil
}

func (r *Renderer) paragraphs(pdf *fpdf.Fpdf, tr func(string) string, width float64, paras []string) {
	r.setFont(pdf, r.Body, r.TextColor)
	left, _, _, _ := pdf.GetMargins()
	for i, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i > 0 {
			pdf.SetY(pdf.GetY() + r.ParagraphGap)
		}
		align := "L"
		if text.DetectDirection(p) == text.RightToLeft {
			align = "R"
		}
		pdf.SetX(left)
		pdf.MultiCell(width, r.Body.Leading(), tr(p), "", align, false)
	}
}

func (r *Renderer) image(pdf *fpdf.Fpdf, tr func(string) string, f render.Frame, img *block.Image) error {
	if r.Loader == nil || img.Src == "" {
		return nil
	}
	resource, err := r.Loader.LoadImage(context.Background(), img.Src)
	if err != nil {
		return fmt.Errorf("failed to load image %q: %w", img.Src, err)
	}

	w, h, format, err := layout.ImageConfig(resource.Data)
	if err != nil {
		return err
	}
	if img.Width > 0 && img.Height > 0 {
		w, h = img.Width, img.Height
	}
	w, h = layout.FitWidth(w, h, f.ContentWidth())

	data, imageType, err := pdfImage(resource.Data, format)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("img-%08x", crc32.ChecksumIEEE(data))
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if pdf.Err() {
		return fmt.Errorf("failed to embed image %q: %w", img.Src, pdf.Error())
	}

	y := pdf.GetY() + r.ParagraphGap
	pdf.ImageOptions(name, f.Margins.Left, y, w, h, false, fpdf.ImageOptions{ImageType: imageType}, 0, "")
	pdf.SetY(y + h)

	if img.Alt != "" {
		r.setFont(pdf, r.Body, r.BandColor)
		pdf.SetX(f.Margins.Left)
		pdf.MultiCell(f.ContentWidth(), r.Body.Leading(), tr(img.Alt), "", "L", false)
	}
	return nil
}

// pdfImage returns data fpdf can embed; formats it cannot read are re-encoded as PNG
func pdfImage(data []byte, format string) ([]byte, string, error) {
	switch format {
	case "jpeg":
		return data, "JPG", nil
	case "png":
		return data, "PNG", nil
	case "gif":
		return data, "GIF", nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return nil, "", fmt.Errorf("failed to re-encode %s image: %w", format, err)
	}
	return buf.Bytes(), "PNG", nil
}

// parseColor parses a CSS color value
func parseColor(value string) [3]int {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		if r, g, b, ok := parseHexColor(value); ok {
			return [3]int{r, g, b}
		}
	}

	var r, g, b int
	if _, err := fmt.Sscanf(strings.ReplaceAll(value, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		return [3]int{r, g, b}
	}

	return [3]int{0, 0, 0}
}

// parseHexColor parses #RRGGBB or #RGB into r,g,b
func parseHexColor(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
