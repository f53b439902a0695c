package personas

import (
	"net/http"

	"github.com/louisbranch/agenda/internal/services/web/platform/httpx"
	"github.com/louisbranch/agenda/internal/services/web/routepath"
)

const getOrPost = http.MethodGet + ", " + http.MethodPost

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleList)
	mux.HandleFunc(routepath.Root+"{$}", httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(http.MethodGet+" "+routepath.Insert, h.handleInsertForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.Insert, h.handleInsertSubmit)
	mux.HandleFunc(routepath.Insert, httpx.MethodNotAllowed(getOrPost))
	mux.HandleFunc(http.MethodGet+" "+routepath.DetailPattern, h.handleDetail)
	mux.HandleFunc(routepath.DetailPattern, httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(http.MethodGet+" "+routepath.EditPattern, h.handleEditForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.EditPattern, h.handleEditSubmit)
	mux.HandleFunc(routepath.EditPattern, httpx.MethodNotAllowed(getOrPost))
	mux.HandleFunc(http.MethodGet+" "+routepath.DeletePattern, h.handleDeleteConfirm)
	mux.HandleFunc(http.MethodPost+" "+routepath.DeletePattern, h.handleDeleteSubmit)
	mux.HandleFunc(routepath.DeletePattern, httpx.MethodNotAllowed(getOrPost))
	mux.HandleFunc(routepath.Root, h.WriteNotFound)
}
