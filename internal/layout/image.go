package layout

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/res"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// pxToPt converts CSS pixels (96 per inch) to points
const pxToPt = 0.75

// ImageConfig decodes the dimensions of an encoded image. Width and height
// are in points, assuming 96 pixels per inch.
func ImageConfig(data []byte) (width, height float64, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return float64(cfg.Width) * pxToPt, float64(cfg.Height) * pxToPt, format, nil
}

// FitWidth scales (w, h) down proportionally so that w <= maxWidth
func FitWidth(w, h, maxWidth float64) (float64, float64) {
	if maxWidth > 0 && w > maxWidth {
		return maxWidth, h * maxWidth / w
	}
	return w, h
}

// ImageEstimator measures the image of a section scaled to the content width
type ImageEstimator struct {
	Loader *res.Loader
	Width  float64
	// Caption is the height reserved for the alt text line below the image
	Caption float64
}

// NewImageEstimator creates an image estimator
func NewImageEstimator(loader *res.Loader, width float64) *ImageEstimator {
	return &ImageEstimator{
		Loader:  loader,
		Width:   width,
		Caption: DefaultOptions(width).Body.Leading(),
	}
}

// EstimateHeight implements block.Estimator; sections without an image are unsupported
func (e *ImageEstimator) EstimateHeight(s block.Section) (float64, error) {
	img := s.Image
	if img == nil {
		return 0, ErrUnsupported
	}

	w, h := img.Width, img.Height
	if w <= 0 || h <= 0 {
		if e.Loader == nil {
			return 0, fmt.Errorf("no loader to measure image %q", img.Src)
		}
		r, err := e.Loader.LoadImage(context.Background(), img.Src)
		if err != nil {
			return 0, fmt.Errorf("failed to load image %q: %w", img.Src, err)
		}
		w, h, _, err = ImageConfig(r.Data)
		if err != nil {
			return 0, err
		}
	}

	_, h = FitWidth(w, h, e.Width)
	if img.Alt != "" {
		h += e.Caption
	}
	return h, nil
}
