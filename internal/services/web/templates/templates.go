// Package templates renders agenda pages as templ components backed by
// embedded html/template files.
package templates

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/a-h/templ"
	"github.com/louisbranch/agenda/internal/services/web/routepath"
)

//go:embed html/*.html
var files embed.FS

var base = template.Must(template.New("agenda").Funcs(template.FuncMap{
	"t":         func(key string, _ ...any) string { return key },
	"langURL":   langURL,
	"rootURL":   func() string { return routepath.Root },
	"insertURL": func() string { return routepath.Insert },
	"staticURL": func(name string) string { return routepath.Static + name },
}).ParseFS(files, "html/*.html"))

type layoutData struct {
	Page PageContext
	Body template.HTML
}

type pageData[V any] struct {
	View V
}

func langURL(currentPath string, lang string) string {
	if currentPath == "" {
		currentPath = routepath.Root
	}
	return (&url.URL{Path: currentPath, RawQuery: url.Values{"lang": {lang}}.Encode()}).String()
}

func execute(w io.Writer, loc Localizer, name string, data any) error {
	tmpl, err := base.Clone()
	if err != nil {
		return fmt.Errorf("clone templates: %w", err)
	}
	tmpl.Funcs(template.FuncMap{
		"t": func(key string, args ...any) string {
			return T(loc, key, args...)
		},
	})
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	return nil
}

func component(loc Localizer, name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return execute(w, loc, name, data)
	})
}

// Layout wraps the child component in the page chrome.
func Layout(page PageContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var body bytes.Buffer
		if err := templ.GetChildren(ctx).Render(ctx, &body); err != nil {
			return err
		}
		return execute(w, page.Loc, "layout", layoutData{
			Page: page,
			Body: template.HTML(body.String()),
		})
	})
}

// ListPage renders the persona table.
func ListPage(view ListView, loc Localizer) templ.Component {
	return component(loc, "list", pageData[ListView]{View: view})
}

// FormPage renders the insert or edit form.
func FormPage(view FormView, loc Localizer) templ.Component {
	return component(loc, "form", pageData[FormView]{View: view})
}

// DetailPage renders one persona.
func DetailPage(view DetailView, loc Localizer) templ.Component {
	return component(loc, "detail", pageData[DetailView]{View: view})
}

// DeletePage renders the delete confirmation.
func DeletePage(view DeleteView, loc Localizer) templ.Component {
	return component(loc, "delete", pageData[DeleteView]{View: view})
}

// ErrorPage renders a router-level error state.
func ErrorPage(view ErrorView, loc Localizer) templ.Component {
	return component(loc, "error", pageData[ErrorView]{View: view})
}
