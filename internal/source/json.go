package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/geometry"
)

// jsonDocument is the JSON form of a document:
//
//	{
//	  "title": "Quarterly report",
//	  "header": "ACME Corp",
//	  "footer": "Confidential",
//	  "pageSize": "A4",
//	  "orientation": "portrait",
//	  "margin": {"top": 15, "right": 20, "bottom": 20, "left": 20},
//	  "sections": [
//	    {"title": "Summary", "paragraphs": ["..."], "keepTogether": true},
//	    {"pageBreak": true},
//	    {"title": "Details", "html": "<p>...</p>"}
//	  ]
//	}
//
// Margins are in millimetres. A section with only pageBreak set is a manual break.
type jsonDocument struct {
	Title       string        `json:"title,omitempty"`
	Header      string        `json:"header,omitempty"`
	Footer      string        `json:"footer,omitempty"`
	PageSize    string        `json:"pageSize,omitempty"`
	Orientation string        `json:"orientation,omitempty"`
	Margin      *jsonMargin   `json:"margin,omitempty"`
	Sections    []jsonSection `json:"sections"`
}

type jsonMargin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type jsonSection struct {
	ID           string     `json:"id,omitempty"`
	Title        string     `json:"title,omitempty"`
	Paragraphs   []string   `json:"paragraphs,omitempty"`
	HTML         string     `json:"html,omitempty"`
	Image        *jsonImage `json:"image,omitempty"`
	Dir          string     `json:"dir,omitempty"`
	KeepTogether bool       `json:"keepTogether,omitempty"`
	BreakBefore  bool       `json:"breakBefore,omitempty"`
	BreakAfter   bool       `json:"breakAfter,omitempty"`
	Height       float64    `json:"height,omitempty"`
	PageBreak    bool       `json:"pageBreak,omitempty"`
}

type jsonImage struct {
	Src    string  `json:"src"`
	Alt    string  `json:"alt,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// FromJSON reads a JSON document
func FromJSON(r io.Reader) (*Document, error) {
	var in jsonDocument
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrInvalidDocument, err)
	}

	doc := newDocument()
	doc.Title = in.Title
	doc.Header = in.Header
	doc.Footer = in.Footer

	if err := doc.applyPageSize(in.PageSize, in.Orientation); err != nil {
		return nil, err
	}

	if m := in.Margin; m != nil {
		if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
			return nil, fmt.Errorf("%w: margins must not be negative", ErrInvalidDocument)
		}
		doc.Margins = geometry.Margins{
			Top:    geometry.MM(m.Top),
			Right:  geometry.MM(m.Right),
			Bottom: geometry.MM(m.Bottom),
			Left:   geometry.MM(m.Left),
		}
	}

	pendingBreak := false
	for i, s := range in.Sections {
		if s.PageBreak && s.isMarker() {
			pendingBreak = true
			continue
		}
		if s.Height < 0 {
			return nil, fmt.Errorf("%w: section %d has negative height", ErrInvalidDocument, i)
		}

		sec := block.Section{
			ID:           s.ID,
			Title:        s.Title,
			Paragraphs:   s.Paragraphs,
			HTML:         s.HTML,
			Dir:          s.Dir,
			KeepTogether: s.KeepTogether,
			BreakBefore:  s.BreakBefore || pendingBreak,
			BreakAfter:   s.BreakAfter || s.PageBreak,
			Height:       s.Height,
		}
		if s.Image != nil {
			sec.Image = &block.Image{Src: s.Image.Src, Alt: s.Image.Alt, Width: s.Image.Width, Height: s.Image.Height}
		}
		doc.Sections = append(doc.Sections, sec)
		pendingBreak = false
	}

	return doc, nil
}

func (s jsonSection) isMarker() bool {
	return s.ID == "" && s.Title == "" && len(s.Paragraphs) == 0 && s.HTML == "" && s.Image == nil
}
