// Package weberror renders shared error pages for router-level failures.
package weberror

import (
	"log"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/agenda/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/agenda/internal/services/web/platform/i18n"
	"github.com/louisbranch/agenda/internal/services/web/platform/pagerender"
	webtemplates "github.com/louisbranch/agenda/internal/services/web/templates"
)

// TitleKey returns the localization key for an error page title.
func TitleKey(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "error.page.bad_request"
	case http.StatusNotFound:
		return "error.page.not_found"
	case http.StatusMethodNotAllowed:
		return "error.page.method_not_allowed"
	case http.StatusForbidden:
		return "error.page.forbidden"
	default:
		return "error.page.internal"
	}
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// WriteAppError writes a localized error page with statusCode. Codes below 400
// are coerced to 500.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int) {
	if w == nil {
		return
	}
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	loc, lang := webi18n.ResolveLocalizer(w, r)
	titleKey := TitleKey(statusCode)
	err := pagerender.WritePage(w, r, pagerender.Page{
		Title:      loc.Sprintf(titleKey),
		Lang:       lang,
		StatusCode: statusCode,
		Loc:        loc,
		Fragment:   webtemplates.ErrorPage(webtemplates.ErrorView{StatusCode: statusCode, TitleKey: titleKey}, loc),
	})
	if err != nil {
		log.Printf("weberror: render status=%d: %v", statusCode, err)
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteError writes the error page matching err's typed status.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	WriteAppError(w, r, apperrors.HTTPStatus(err))
}
