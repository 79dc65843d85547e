package api

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gompdf/gompage/internal/pagination"
)

// PageView is the JSON form of an assembled page
type PageView struct {
	Index    int      `json:"index"`
	Blocks   []string `json:"blocks"`
	Used     float64  `json:"used"`
	Overflow bool     `json:"overflow,omitempty"`
}

// GeometryView is the JSON form of the page geometry
type GeometryView struct {
	PageWidth     float64 `json:"pageWidth"`
	PageHeight    float64 `json:"pageHeight"`
	ContentHeight float64 `json:"contentHeight"`
	HeaderHeight  float64 `json:"headerHeight"`
	FooterHeight  float64 `json:"footerHeight"`
}

// ResultView is the JSON form of an assembly result
type ResultView struct {
	Revision    uint64                  `json:"revision,omitempty"`
	PageCount   int                     `json:"pageCount"`
	Geometry    GeometryView            `json:"geometry"`
	Pages       []PageView              `json:"pages"`
	Diagnostics []pagination.Diagnostic `json:"diagnostics"`
}

// View converts a result into its JSON form
func View(result *pagination.Result) ResultView {
	g := result.Geometry
	v := ResultView{
		PageCount: result.PageCount(),
		Geometry: GeometryView{
			PageWidth:     g.Medium.Width,
			PageHeight:    g.Medium.Height,
			ContentHeight: g.ContentHeight,
			HeaderHeight:  g.HeaderHeight,
			FooterHeight:  g.FooterHeight,
		},
		Pages:       make([]PageView, 0, len(result.Pages)),
		Diagnostics: append([]pagination.Diagnostic{}, result.Diagnostics...),
	}
	for _, page := range result.Pages {
		ids := make([]string, 0, len(page.Blocks))
		for _, b := range page.Blocks {
			ids = append(ids, b.ID)
		}
		v.Pages = append(v.Pages, PageView{
			Index:    page.Index,
			Blocks:   ids,
			Used:     page.Used,
			Overflow: page.Overflow,
		})
	}
	return v
}

// WriteJSON writes the JSON form of result
func WriteJSON(w io.Writer, result *pagination.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(View(result)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
