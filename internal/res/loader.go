// Package res loads images and stylesheets referenced by document content.
package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when no source provides the requested resource
var ErrNotFound = errors.New("resource not found")

// ResourceType represents the type of resource
type ResourceType int

const (
	ResourceTypeUnknown ResourceType = iota
	ResourceTypeImage
	ResourceTypeCSS
	ResourceTypeHTML
	ResourceTypeOther
)

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Reader returns a reader over the resource data
func (r *Resource) Reader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

// String returns the resource data as a string
func (r *Resource) String() string {
	return string(r.Data)
}

// DataURL encodes the resource as an RFC 2397 data URL
func (r *Resource) DataURL() string {
	return "data:" + r.MimeType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Loader resolves and caches resources from data URLs, local files and HTTP
type Loader struct {
	// BaseURL is the document location relative references resolve against
	BaseURL string

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string
	client      *http.Client
}

// NewLoader creates a new resource loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL: baseURL,
		cache:   make(map[string]*Resource),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a data URL, URL or file path
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	l.cacheLock.RLock()
	cached, ok := l.cache[ref]
	l.cacheLock.RUnlock()
	if ok {
		return cached, nil
	}

	var (
		res *Resource
		err error
	)
	switch {
	case strings.HasPrefix(ref, "data:"):
		res, err = parseDataURL(ref)
	default:
		resolved, rerr := l.resolve(ref)
		if rerr != nil {
			return nil, rerr
		}
		if isRemote(resolved) {
			res, err = l.loadRemote(ctx, resolved)
		} else {
			res, err = l.loadLocal(resolved)
		}
	}
	if err != nil {
		return nil, err
	}

	l.cacheLock.Lock()
	l.cache[ref] = res
	l.cacheLock.Unlock()

	return res, nil
}

// LoadImage loads a resource and checks that it is an image
func (l *Loader) LoadImage(ctx context.Context, ref string) (*Resource, error) {
	return l.loadTyped(ctx, ref, ResourceTypeImage, "an image")
}

// LoadCSS loads a resource and checks that it is a stylesheet
func (l *Loader) LoadCSS(ctx context.Context, ref string) (*Resource, error) {
	return l.loadTyped(ctx, ref, ResourceTypeCSS, "CSS")
}

func (l *Loader) loadTyped(ctx context.Context, ref string, want ResourceType, what string) (*Resource, error) {
	res, err := l.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if res.Type != want {
		return nil, fmt.Errorf("resource is not %s: %s", what, ref)
	}
	return res, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// parseDataURL parses a data URL such as data:image/png;base64,<payload>
func parseDataURL(u string) (*Resource, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mime := "text/plain"
	isBase64 := false
	comps := strings.Split(meta, ";")
	if comps[0] != "" {
		mime = strings.ToLower(comps[0])
	}
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		d, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = d
	} else if d, err := url.PathUnescape(payload); err == nil {
		data = []byte(d)
	} else {
		data = []byte(payload)
	}

	return &Resource{
		URL:      u,
		Data:     data,
		MimeType: mime,
		Type:     resourceType(mime, ""),
	}, nil
}

// resolve resolves a reference relative to the base URL or base file
func (l *Loader) resolve(ref string) (string, error) {
	if isRemote(ref) || filepath.IsAbs(ref) {
		return ref, nil
	}

	if !isRemote(l.BaseURL) {
		return filepath.Join(filepath.Dir(l.BaseURL), ref), nil
	}

	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("failed to parse reference %q: %w", ref, err)
	}
	return base.ResolveReference(rel).String(), nil
}

func (l *Loader) loadRemote(ctx context.Context, ref string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error fetching %s: %s", ref, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if mime == "" {
		mime = mimeType(ref)
	}

	return &Resource{
		URL:      ref,
		Data:     data,
		MimeType: mime,
		Type:     resourceType(mime, ref),
	}, nil
}

func (l *Loader) loadLocal(path string) (*Resource, error) {
	candidates := []string{path}
	for _, dir := range l.searchPaths {
		candidates = append(candidates, filepath.Join(dir, filepath.Base(path)))
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", candidate, err)
		}
		mime := mimeType(candidate)
		return &Resource{
			URL:      candidate,
			Data:     data,
			MimeType: mime,
			Type:     resourceType(mime, candidate),
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

func mimeType(path string) string {
	if u, err := url.Parse(path); err == nil && isRemote(path) {
		path = u.Path
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".css":
		return "text/css"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

func resourceType(mime, path string) ResourceType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return ResourceTypeImage
	case mime == "text/css":
		return ResourceTypeCSS
	case mime == "text/html":
		return ResourceTypeHTML
	}

	switch mimeType(path) {
	case "text/css":
		return ResourceTypeCSS
	case "text/html":
		return ResourceTypeHTML
	case "application/octet-stream":
		return ResourceTypeOther
	}
	return ResourceTypeImage
}
