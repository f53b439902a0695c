// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root          = "/"
	Insert        = "/insertar"
	DetailPrefix  = "/detalle/"
	DetailPattern = DetailPrefix + "{id}"
	EditPrefix    = "/editar/"
	EditPattern   = EditPrefix + "{id}"
	DeletePrefix  = "/borrar/"
	DeletePattern = DeletePrefix + "{id}"
	Health        = "/up"
	Static        = "/static/"
)

// Detail returns the persona detail route.
func Detail(id int64) string {
	return DetailPrefix + strconv.FormatInt(id, 10)
}

// Edit returns the persona edit route.
func Edit(id int64) string {
	return EditPrefix + strconv.FormatInt(id, 10)
}

// Delete returns the persona delete route.
func Delete(id int64) string {
	return DeletePrefix + strconv.FormatInt(id, 10)
}

// EditRaw returns the edit route for an unparsed id, used when re-rendering a
// form posted to a malformed path.
func EditRaw(rawID string) string {
	return EditPrefix + escapeSegment(rawID)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
