package ui

//go:generate templ generate -f components.templ

// TableView is a table as listed on the editor page.
type TableView struct {
	ID    string
	Title string
}

// TabView groups tables under a tab heading.
type TabView struct {
	Name   string
	Tables []TableView
}

var buttonText = map[Button]string{
	Add:     "Add Row",
	Delete:  "Delete Selected",
	Undo:    "Undo",
	Redo:    "Redo",
	Discard: "Discard",
	Save:    "Save",
}
