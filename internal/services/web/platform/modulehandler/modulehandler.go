// Package modulehandler provides a composable base for web module handlers.
//
// Modules share localization, page rendering, flash notices and error pages;
// handler structs embed Base rather than wiring those concerns themselves.
package modulehandler

import (
	"log"
	"net/http"

	"github.com/louisbranch/agenda/internal/services/web/platform/flash"
	"github.com/louisbranch/agenda/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/agenda/internal/services/web/platform/i18n"
	"github.com/louisbranch/agenda/internal/services/web/platform/pagerender"
	"github.com/louisbranch/agenda/internal/services/web/platform/weberror"
	webtemplates "github.com/louisbranch/agenda/internal/services/web/templates"
)

// Base carries the shared request-scoped helpers used by module handlers.
type Base struct {
	flash *flash.Codec
}

// NewBase builds a handler base around the flash codec.
func NewBase(codec *flash.Codec) Base {
	return Base{flash: codec}
}

// NewTestBase builds a handler base with a random-key flash codec.
func NewTestBase() Base {
	codec, err := flash.NewCodec(nil)
	if err != nil {
		panic(err)
	}
	return Base{flash: codec}
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r)
}

// WritePage renders a full page. Render failures fall back to the 500 page.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, page pagerender.Page) {
	if err := pagerender.WritePage(w, r, page); err != nil {
		log.Printf("render page path=%s: %v", requestPath(r), err)
		weberror.WriteAppError(w, r, http.StatusInternalServerError)
	}
}

// WriteError renders a localized error page for err.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteError(w, r, err)
}

// WriteNotFound renders a 404 error page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound)
}

// SetFlash stores a one-shot notice for the next list render.
func (b Base) SetFlash(w http.ResponseWriter, r *http.Request, notice flash.Notice) {
	b.flash.Write(w, r, notice)
}

// TakeFlash reads and clears the pending notice.
func (b Base) TakeFlash(w http.ResponseWriter, r *http.Request) (flash.Notice, bool) {
	return b.flash.ReadAndClear(w, r)
}

// Redirect answers a form submission with 303 See Other.
func (b Base) Redirect(w http.ResponseWriter, r *http.Request, location string) {
	httpx.WriteRedirect(w, r, location)
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return "-"
	}
	return r.URL.Path
}
