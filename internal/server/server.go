// Package server serves the paginated preview over HTTP and accepts new
// content and print requests.
package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gompdf/gompage/internal/block"
	"github.com/gompdf/gompage/internal/host"
	"github.com/gompdf/gompage/internal/pagination"
	"github.com/gompdf/gompage/internal/render"
	"github.com/gompdf/gompage/internal/source"
	"github.com/gompdf/gompage/internal/storage"
	"github.com/gompdf/gompage/pkg/api"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// ErrSuperseded is returned when newer content was installed while a
// document was being assembled
var ErrSuperseded = errors.New("document superseded by a newer revision")

// state is one assembled revision. It is replaced as a whole, never modified.
type state struct {
	ticket    uint64
	paginator *api.Paginator
	doc       *block.Document
	result    *pagination.Result
}

// Server holds the current document and its pages
type Server struct {
	echo       *echo.Echo
	paginator  *api.Paginator
	dispatcher *host.Dispatcher
	store      storage.Store
	logger     *log.Logger

	tickets atomic.Uint64
	mu      sync.RWMutex
	current *state
}

// Options configures a server
type Options struct {
	// Dispatcher produces physical output; nil disables POST /api/print
	Dispatcher *host.Dispatcher
	// Store serves printed documents under /files/; nil disables the route
	Store  storage.Store
	Logger *log.Logger
}

// New creates a server showing an empty document
func New(p *api.Paginator, options Options) (*Server, error) {
	logger := options.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		echo:       echo.New(),
		paginator:  p.WithOption(api.WithPrintAction("/api/print")),
		dispatcher: options.Dispatcher,
		store:      options.Store,
		logger:     logger,
	}
	s.echo.HideBanner = true

	if err := s.Load(context.Background(), &source.Document{
		Medium:  p.Geometry().Medium,
		Margins: p.Geometry().Margins,
	}); err != nil {
		return nil, err
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	e := s.echo
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit("10M"))

	e.GET("/", s.handlePreview)
	e.GET("/print", s.handlePrintView)
	e.GET("/api/pages", s.handlePages)
	e.POST("/api/document", s.handleDocument)
	e.POST("/api/print", s.handlePrint)
	if s.store != nil {
		e.GET("/files/*", s.handleFile)
	}
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr
func (s *Server) Start(addr string) error {
	s.logger.Printf("Preview server listening on %s", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the server and waits for print jobs
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	if s.dispatcher != nil {
		s.dispatcher.Wait()
	}
	return err
}

// Load builds and assembles doc and installs it unless content submitted
// after it was installed in the meantime. The current state is untouched on
// error.
func (s *Server) Load(ctx context.Context, doc *source.Document) error {
	ticket := s.tickets.Add(1)
	p := s.paginator.ForSource(doc)

	built, err := p.Build(doc.Sections)
	if err != nil {
		return err
	}
	result, err := p.Assemble(built)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.ticket > ticket {
		s.logger.Printf("Discarding revision %d: superseded by revision %d", built.Revision(), s.current.doc.Revision())
		return ErrSuperseded
	}
	s.current = &state{ticket: ticket, paginator: p, doc: built, result: result}
	return nil
}

func (s *Server) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Revision returns the revision of the installed document
func (s *Server) Revision() uint64 {
	return s.snapshot().doc.Revision()
}

func (s *Server) handlePreview(c echo.Context) error {
	return s.renderHTML(c, render.Preview)
}

func (s *Server) handlePrintView(c echo.Context) error {
	return s.renderHTML(c, render.Print)
}

func (s *Server) renderHTML(c echo.Context, mode render.Mode) error {
	cur := s.snapshot()

	var buf bytes.Buffer
	if err := cur.paginator.RenderHTML(&buf, cur.result, mode); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render pages").SetInternal(err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) handlePages(c echo.Context) error {
	cur := s.snapshot()
	view := api.View(cur.result)
	view.Revision = cur.doc.Revision()
	return c.JSON(http.StatusOK, view)
}

func (s *Server) handleDocument(c echo.Context) error {
	req := c.Request()
	ctx := req.Context()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}

	var doc *source.Document
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if mediaType == echo.MIMEApplicationJSON || strings.HasSuffix(mediaType, "+json") {
		doc, err = source.FromJSON(bytes.NewReader(body))
	} else {
		doc, err = source.FromHTMLContext(ctx, bytes.NewReader(body), s.paginator.Loader())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := s.Load(ctx, doc); err != nil {
		if errors.Is(err, ErrSuperseded) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		// invalid geometry, negative heights and unmeasurable content
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	return s.handlePages(c)
}

func (s *Server) handlePrint(c echo.Context) error {
	if s.dispatcher == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Printing is not configured")
	}

	cur := s.snapshot()
	var buf bytes.Buffer
	if err := cur.paginator.RenderHTML(&buf, cur.result, render.Print); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render pages").SetInternal(err)
	}

	s.dispatcher.Trigger(buf.String(), cur.result.Geometry)
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) handleFile(c echo.Context) error {
	key := c.Param("*")
	rc, contentType, err := s.store.Get(c.Request().Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer rc.Close()
	return c.Stream(http.StatusOK, contentType, rc)
}
