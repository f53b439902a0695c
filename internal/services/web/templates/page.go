package templates

// PageContext provides shared layout context for pages.
type PageContext struct {
	Title       string
	Lang        string
	CurrentPath string
	Loc         Localizer
}

// Notice is a short localized message shown above page content.
type Notice struct {
	// Kind is one of "info", "success" or "error".
	Kind string
	Text string
}

// PersonaRow is the display form of one persona.
type PersonaRow struct {
	ID        int64
	Name      string
	Email     string
	DetailURL string
	EditURL   string
	DeleteURL string
}

// ListView renders the persona list.
type ListView struct {
	Records []PersonaRow
	Message *Notice
	Flash   *Notice
}

// FormView renders the insert and edit forms. A nil Record on the edit form
// means there is nothing to edit and only Message is shown.
type FormView struct {
	Heading   string
	Action    string
	SubmitKey string
	Editing   bool
	Record    *PersonaRow
	Message   *Notice
}

// DetailView renders one persona.
type DetailView struct {
	Record  *PersonaRow
	Message *Notice
}

// DeleteView renders the delete confirmation.
type DeleteView struct {
	Action  string
	Record  *PersonaRow
	Message *Notice
}

// ErrorView renders a router-level error page.
type ErrorView struct {
	StatusCode int
	TitleKey   string
}
