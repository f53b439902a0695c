package personas

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	corepersonas "github.com/louisbranch/agenda/internal/services/agenda/personas"
	apperrors "github.com/louisbranch/agenda/internal/services/web/platform/errors"
	"github.com/louisbranch/agenda/internal/services/web/platform/flash"
	"github.com/louisbranch/agenda/internal/services/web/platform/httpx"
	"github.com/louisbranch/agenda/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/agenda/internal/services/web/platform/pagerender"
	"github.com/louisbranch/agenda/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/agenda/internal/services/web/templates"
)

const (
	formFieldName  = "nombre"
	formFieldEmail = "email"
)

// personaService defines the service operations used by persona handlers.
type personaService interface {
	listPersonas(ctx context.Context) ([]PersonaRecord, error)
	getPersona(ctx context.Context, id int64) (PersonaRecord, bool, error)
	createPersona(ctx context.Context, name, email string) (PersonaRecord, error)
	updatePersona(ctx context.Context, id int64, name, email string) error
	deletePersona(ctx context.Context, id int64) error
}

type handlers struct {
	modulehandler.Base
	service personaService
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) writePage(w http.ResponseWriter, r *http.Request, loc webtemplates.Localizer, lang string, titleKey string, fragment templ.Component) {
	h.WritePage(w, r, pagerender.Page{
		Title:    webtemplates.T(loc, titleKey),
		Lang:     lang,
		Loc:      loc,
		Fragment: fragment,
	})
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(w, r)
	view := webtemplates.ListView{}
	if notice, ok := h.TakeFlash(w, r); ok {
		view.Flash = flashView(loc, notice)
	}
	records, err := h.service.listPersonas(httpx.RequestContext(r))
	switch {
	case err != nil:
		view.Message = newNotice(loc, noticeError, keyStorageUnavailable)
	case len(records) == 0:
		view.Message = newNotice(loc, noticeInfo, keyListEmpty)
	default:
		view.Records = rowsView(records)
	}
	h.writePage(w, r, loc, lang, "list.title", webtemplates.ListPage(view, loc))
}

func (h handlers) handleInsertForm(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(w, r)
	h.writeForm(w, r, loc, lang, "insert.title", insertFormView(loc))
}

func (h handlers) handleInsertSubmit(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(w, r)
	name, email, err := submittedFields(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if _, err := h.service.createPersona(httpx.RequestContext(r), name, email); err != nil {
		view := insertFormView(loc)
		view.Record = submittedView(0, name, email)
		view.Message = newNotice(loc, noticeError, createFailureKey(err))
		h.writeForm(w, r, loc, lang, "insert.title", view)
		return
	}
	h.Redirect(w, r, routepath.Root)
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(w, r)
	record, message := h.lookup(r, loc)
	view := webtemplates.DetailView{Record: record, Message: message}
	h.writePage(w, r, loc, lang, "detail.title", webtemplates.DetailPage(view, loc))
}

func (h handlers) handleEditForm(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(w, r)
	view := editFormView(loc, routepath.EditRaw(r.PathValue("id")))
	record, message := h.lookup(r, loc)
	view.Record, view.Message = record, message
	h.writeForm(w, r, loc, lang, "edit.title", view)
}

func (h handlers) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(w, r)
	rawID := r.PathValue("id")
	name, email, err := submittedFields(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	id, err := corepersonas.ParseID(rawID)
	if err != nil {
		// Nothing to edit: no form, only the notice and the link back to the list.
		view := editFormView(loc, routepath.Root)
		view.Message = newNotice(loc, noticeInfo, keyNotFound)
		h.writeForm(w, r, loc, lang, "edit.title", view)
		return
	}
	if err := h.service.updatePersona(httpx.RequestContext(r), id, name, email); err != nil {
		view := editFormView(loc, routepath.Edit(id))
		view.Record = submittedView(id, name, email)
		view.Message = newNotice(loc, noticeError, updateFailureKey(err))
		h.writeForm(w, r, loc, lang, "edit.title", view)
		return
	}
	h.Redirect(w, r, routepath.Root)
}

func (h handlers) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(w, r)
	record, message := h.lookup(r, loc)
	view := webtemplates.DeleteView{Record: record, Message: message}
	if record != nil {
		view.Action = routepath.Delete(record.ID)
	}
	h.writePage(w, r, loc, lang, "delete.title", webtemplates.DeletePage(view, loc))
}

func (h handlers) handleDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := corepersonas.ParseID(r.PathValue("id"))
	if err == nil {
		err = h.service.deletePersona(httpx.RequestContext(r), id)
	}
	if err != nil {
		h.SetFlash(w, r, flash.NoticeError(keyDeleteFailed))
	} else {
		h.SetFlash(w, r, flash.NoticeSuccess(keyDeleteSuccess))
	}
	h.Redirect(w, r, routepath.Root)
}

// lookup resolves the path id into a record, or a notice explaining why there
// is none. A malformed id reads as not found.
func (h handlers) lookup(r *http.Request, loc webtemplates.Localizer) (*webtemplates.PersonaRow, *webtemplates.Notice) {
	id, err := corepersonas.ParseID(r.PathValue("id"))
	if err != nil {
		return nil, newNotice(loc, noticeInfo, keyNotFound)
	}
	record, found, err := h.service.getPersona(httpx.RequestContext(r), id)
	switch {
	case err != nil:
		return nil, newNotice(loc, noticeError, keyStorageUnavailable)
	case !found:
		return nil, newNotice(loc, noticeInfo, keyNotFound)
	default:
		return rowView(record), nil
	}
}

func (h handlers) writeForm(w http.ResponseWriter, r *http.Request, loc webtemplates.Localizer, lang string, titleKey string, view webtemplates.FormView) {
	h.writePage(w, r, loc, lang, titleKey, webtemplates.FormPage(view, loc))
}

// submittedFields reads the persona form. An undecodable body is invalid input.
func submittedFields(r *http.Request) (string, string, error) {
	if err := r.ParseForm(); err != nil {
		return "", "", apperrors.EK(apperrors.KindInvalidInput, "error.page.bad_request", "parse form: "+err.Error())
	}
	return r.PostFormValue(formFieldName), r.PostFormValue(formFieldEmail), nil
}
