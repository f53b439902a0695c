package personas

import (
	"github.com/louisbranch/agenda/internal/services/web/platform/flash"
	"github.com/louisbranch/agenda/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/agenda/internal/services/web/templates"
)

const (
	keyListEmpty          = "notice.list.empty"
	keyStorageUnavailable = "notice.storage.unavailable"
	keyNameRequired       = "notice.validation.name_required"
	keyEmailRequired      = "notice.validation.email_required"
	keyEmailMalformed     = "notice.validation.email_malformed"
	keyTableMissing       = "notice.create.table_missing"
	keyInsertUnverified   = "notice.create.unverified"
	keyNotFound           = "notice.persona.not_found"
	keyDeleteSuccess      = "notice.delete.success"
	keyDeleteFailed       = "notice.delete.failed"
)

const (
	noticeInfo    = "info"
	noticeSuccess = "success"
	noticeError   = "error"
)

func newNotice(loc webtemplates.Localizer, kind, key string) *webtemplates.Notice {
	return &webtemplates.Notice{Kind: kind, Text: webtemplates.T(loc, key)}
}

func flashView(loc webtemplates.Localizer, notice flash.Notice) *webtemplates.Notice {
	return newNotice(loc, string(notice.Kind), notice.Key)
}

func rowView(record PersonaRecord) *webtemplates.PersonaRow {
	return &webtemplates.PersonaRow{
		ID:        record.ID,
		Name:      record.Name,
		Email:     record.Email,
		DetailURL: routepath.Detail(record.ID),
		EditURL:   routepath.Edit(record.ID),
		DeleteURL: routepath.Delete(record.ID),
	}
}

func rowsView(records []PersonaRecord) []webtemplates.PersonaRow {
	rows := make([]webtemplates.PersonaRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, *rowView(record))
	}
	return rows
}

// submittedView echoes the posted fields back into the form untouched.
func submittedView(id int64, name, email string) *webtemplates.PersonaRow {
	return &webtemplates.PersonaRow{ID: id, Name: name, Email: email}
}

func insertFormView(loc webtemplates.Localizer) webtemplates.FormView {
	return webtemplates.FormView{
		Heading:   webtemplates.T(loc, "insert.title"),
		Action:    routepath.Insert,
		SubmitKey: "insert.submit",
	}
}

func editFormView(loc webtemplates.Localizer, action string) webtemplates.FormView {
	return webtemplates.FormView{
		Heading:   webtemplates.T(loc, "edit.title"),
		Action:    action,
		SubmitKey: "edit.submit",
		Editing:   true,
	}
}
