package gompage

import (
	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/render"
	"github.com/gompdf/gompage/pkg/api"
)

type Paginator = api.Paginator
type Options = api.Options
type Option = api.Option
type PageOrientation = api.PageOrientation
type Format = api.Format
type Section = block.Section
type Image = block.Image
type Mode = render.Mode

func New(opts ...Option) *Paginator              { return api.New(opts...) }
func NewWithOptions(options Options) *Paginator { return api.NewWithOptions(options) }
func DefaultOptions() Options                   { return api.DefaultOptions() }

var (
	WithPageSize        = api.WithPageSize
	WithNamedPageSize   = api.WithNamedPageSize
	WithMargins         = api.WithMargins
	WithBands           = api.WithBands
	WithChrome          = api.WithChrome
	WithPageNumbers     = api.WithPageNumbers
	WithPrintAction     = api.WithPrintAction
	WithEstimator       = api.WithEstimator
	WithDebug           = api.WithDebug
	WithLogger          = api.WithLogger
	WithResourcePath    = api.WithResourcePath
	WithTitle           = api.WithTitle
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
	WithKeywords        = api.WithKeywords
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageSizeLegal   = api.WithPageSizeLegal
	WithPageOrientation = api.WithPageOrientation

	ParseFormat = api.ParseFormat
	ParseMode   = render.ParseMode
)

const (
	Preview = render.Preview
	Print   = render.Print

	FormatHTML = api.FormatHTML
	FormatPDF  = api.FormatPDF
	FormatText = api.FormatText
	FormatJSON = api.FormatJSON

	PageSizeA3Width  = api.PageSizeA3Width
	PageSizeA3Height = api.PageSizeA3Height
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape
)
