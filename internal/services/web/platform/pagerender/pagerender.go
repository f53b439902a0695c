// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/agenda/internal/services/web/platform/httpx"
	webtemplates "github.com/louisbranch/agenda/internal/services/web/templates"
)

// Page describes one full HTML response.
type Page struct {
	Title      string
	Lang       string
	StatusCode int
	Loc        webtemplates.Localizer
	Fragment   templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WritePage renders page inside the shared layout. Rendering is buffered so a
// template failure never leaves a half-written 200 response.
func WritePage(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}
	currentPath := ""
	if r != nil && r.URL != nil {
		currentPath = r.URL.Path
	}
	layout := webtemplates.Layout(webtemplates.PageContext{
		Title:       page.Title,
		Lang:        page.Lang,
		CurrentPath: currentPath,
		Loc:         page.Loc,
	})

	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(httpx.RequestContext(r), fragment), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}
