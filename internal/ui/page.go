// Package ui models the editor's page controls and renders them as HTML.
//
// Page is the stateful model the editor mutates (disabled flags, visibility of
// editor-only controls, the edit toggle label). The templ components in this
// package render the same element ids, so a page served by the web package and
// a Page driven by the editor agree on the DOM contract.
package ui

import (
	"sort"
	"sync"
)

// Button identifies a per-table control.
type Button string

const (
	Undo    Button = "undo"
	Redo    Button = "redo"
	Discard Button = "discard"
	Save    Button = "save"
	Delete  Button = "delete"
	Add     Button = "add"
)

// tableButtons are the controls rendered for every table, in toolbar order.
var tableButtons = []Button{Add, Delete, Undo, Redo, Discard, Save}

// EditToggleID is the element id of the edit mode toggle.
const EditToggleID = "editToggle"

// EditorOnlyClass marks nodes that are only visible in edit mode.
const EditorOnlyClass = "editor-only"

// ButtonID returns the element id of a table control, e.g. "undo-englishAnimeSites".
func ButtonID(b Button, tableID string) string {
	return string(b) + "-" + tableID
}

// ToggleLabel returns the edit toggle text for the given mode.
func ToggleLabel(editMode bool) string {
	if editMode {
		return "Disable Edit"
	}
	return "Enable Edit"
}

// Element is the observable state of one control.
type Element struct {
	ID         string
	Label      string
	Disabled   bool
	Hidden     bool
	EditorOnly bool
}

// Page holds the controls of a rendered editor page. It is safe for concurrent use.
type Page struct {
	mu       sync.RWMutex
	elements map[string]*Element
}

// NewPage creates a page with an edit toggle and controls for each table.
// Controls start hidden and disabled, matching a page loaded outside edit mode.
func NewPage(tableIDs ...string) *Page {
	p := &Page{elements: make(map[string]*Element)}
	p.elements[EditToggleID] = &Element{ID: EditToggleID, Label: ToggleLabel(false)}
	for _, id := range tableIDs {
		p.AddTable(id)
	}
	return p
}

// AddTable registers the controls of a table.
func (p *Page) AddTable(tableID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, b := range tableButtons {
		id := ButtonID(b, tableID)
		if _, ok := p.elements[id]; ok {
			continue
		}
		p.elements[id] = &Element{
			ID:         id,
			Disabled:   b != Add,
			Hidden:     true,
			EditorOnly: true,
		}
	}
}

// SetDisabled sets the disabled flag of an element. Unknown ids are ignored.
func (p *Page) SetDisabled(id string, disabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if el, ok := p.elements[id]; ok {
		el.Disabled = disabled
	}
}

// SetEditorOnlyVisible shows or hides every editor-only element.
// Only elements whose visibility differs from the target are touched.
func (p *Page) SetEditorOnlyVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, el := range p.elements {
		if !el.EditorOnly {
			continue
		}
		if el.Hidden && visible {
			el.Hidden = false
		} else if !el.Hidden && !visible {
			el.Hidden = true
		}
	}
}

// SetToggleLabel sets the text of the edit toggle.
func (p *Page) SetToggleLabel(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if el, ok := p.elements[EditToggleID]; ok {
		el.Label = label
	}
}

// Element returns a copy of an element's state.
func (p *Page) Element(id string) (Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	el, ok := p.elements[id]
	if !ok {
		return Element{}, false
	}
	return *el, true
}

// Elements returns copies of all elements sorted by id.
func (p *Page) Elements() []Element {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Element, 0, len(p.elements))
	for _, el := range p.elements {
		out = append(out, *el)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
