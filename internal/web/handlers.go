package web

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/JonMunkholm/sitegrid/internal/logging"
	"github.com/JonMunkholm/sitegrid/internal/ui"
)

// handleHealth answers liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Ok"))
}

// handleEditorPage renders every tab with its tables and their toolbars.
// ?edit=true renders the page already in edit mode.
func (s *Server) handleEditorPage(w http.ResponseWriter, r *http.Request) {
	editMode, _ := strconv.ParseBool(r.URL.Query().Get("edit"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ui.EditorPage(s.tabViews(), editMode).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render editor page", "error", err)
	}
}

func (s *Server) tabViews() []ui.TabView {
	tabs := s.backend.ListTabs()

	names := make([]string, 0, len(tabs))
	for name := range tabs {
		names = append(names, name)
	}
	sort.Strings(names)

	views := make([]ui.TabView, 0, len(names))
	for _, name := range names {
		view := ui.TabView{Name: name}
		for _, info := range tabs[name] {
			view.Tables = append(view.Tables, ui.TableView{ID: info.Key, Title: info.Title})
		}
		views = append(views, view)
	}
	return views
}
