package res

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDataURL(t *testing.T) {
	l := NewLoader("")
	ctx := context.Background()

	r, err := l.Load(ctx, "data:text/css,body%20%7B%7D")
	require.NoError(t, err)
	assert.Equal(t, "body {}", r.String())
	assert.Equal(t, ResourceTypeCSS, r.Type)

	r, err = l.Load(ctx, "data:image/png;base64,iVBORw0KGgo=")
	require.NoError(t, err)
	assert.Equal(t, ResourceTypeImage, r.Type)
	assert.Equal(t, "image/png", r.MimeType)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", r.DataURL())

	_, err = l.Load(ctx, "data:image/png;base64,***")
	assert.Error(t, err)
	_, err = l.Load(ctx, "data:nocomma")
	assert.Error(t, err)
}

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "print.css"), []byte("@page { size: A5 }"), 0o644))

	extra := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(extra, "logo.png"), []byte("png"), 0o644))

	l := NewLoader(filepath.Join(dir, "index.html"))
	l.AddSearchPath(extra)
	ctx := context.Background()

	css, err := l.LoadCSS(ctx, "print.css")
	require.NoError(t, err)
	assert.Contains(t, css.String(), "A5")

	img, err := l.LoadImage(ctx, "assets/logo.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(extra, "logo.png"), img.URL)

	_, err = l.LoadImage(ctx, "print.css")
	assert.Error(t, err)

	_, err = l.Load(ctx, "missing.png")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = l.Load(ctx, "  ")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadRemoteIsCached(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.Path {
		case "/img/a.png":
			w.Header().Set("Content-Type", "image/png; charset=binary")
			_, _ = w.Write([]byte("png"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.URL + "/docs/index.html")
	ctx := context.Background()

	r, err := l.LoadImage(ctx, "../img/a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", r.MimeType)

	_, err = l.LoadImage(ctx, "../img/a.png")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)

	_, err = l.Load(ctx, srv.URL+"/nope.png")
	assert.True(t, errors.Is(err, ErrNotFound))
}
