package tui

import (
	"sort"

	"github.com/sahilm/fuzzy"
	"github.com/wiremgr/wiremgr/internal/paginate"
	"github.com/wiremgr/wiremgr/internal/wiremock"
)

// MappingsViewState holds the list view's local state: cursor position,
// current page and the selected row ids. Selection is view-local, never
// store state.
type MappingsViewState struct {
	cursor   int // index within the visible page
	page     int
	query    string
	selected map[string]struct{}
}

// NewMappingsViewState creates an empty list view state on page 1.
func NewMappingsViewState() *MappingsViewState {
	return &MappingsViewState{
		page:     1,
		selected: make(map[string]struct{}),
	}
}

// Window computes the pagination window for the current page.
func (s *MappingsViewState) Window(total int) paginate.Window {
	w := paginate.New(s.page, paginate.ItemsPerPage, total)
	s.page = w.CurrentPage
	if max := w.EndIndex - w.StartIndex; s.cursor >= max && max > 0 {
		s.cursor = max - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	return w
}

// Page returns the current 1-based page.
func (s *MappingsViewState) Page() int { return s.page }

// Cursor returns the cursor index within the visible page.
func (s *MappingsViewState) Cursor() int { return s.cursor }

// MoveCursor moves within the visible page, clamped to its bounds.
func (s *MappingsViewState) MoveCursor(delta, visible int) {
	if visible == 0 {
		s.cursor = 0
		return
	}
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= visible {
		s.cursor = visible - 1
	}
}

// ChangePage moves to an adjacent page, clamped to the valid range.
func (s *MappingsViewState) ChangePage(delta, total int) {
	w := paginate.New(s.page, paginate.ItemsPerPage, total)
	s.page = paginate.Clamp(w.CurrentPage+delta, w.TotalPages)
	s.cursor = 0
}

// ResetPage returns to page 1, used after a reload or clear.
func (s *MappingsViewState) ResetPage() {
	s.page = 1
	s.cursor = 0
}

// Query returns the active fuzzy filter, empty when none.
func (s *MappingsViewState) Query() string { return s.query }

// FilterActive reports whether a filter is applied.
func (s *MappingsViewState) FilterActive() bool { return s.query != "" }

// SetFilter applies a fuzzy filter and returns to page 1.
func (s *MappingsViewState) SetFilter(query string) {
	s.query = query
	s.ResetPage()
}

// ClearFilter removes the filter and returns to page 1.
func (s *MappingsViewState) ClearFilter() {
	s.query = ""
	s.ResetPage()
}

// mappingSource adapts a mapping slice for fuzzy matching over name,
// method and match target.
type mappingSource []wiremock.Mapping

func (s mappingSource) String(i int) string {
	m := s[i]
	return m.Name + " " + m.Request.Method + " " + m.MatchTarget()
}

func (s mappingSource) Len() int { return len(s) }

// FilterMappings fuzzy-matches the query against each mapping's name,
// method and match target. Results keep collection order rather than
// match-score order so rows do not jump around while typing.
func FilterMappings(mappings []wiremock.Mapping, query string) []wiremock.Mapping {
	if query == "" {
		return mappings
	}
	matches := fuzzy.FindFrom(query, mappingSource(mappings))
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })

	out := make([]wiremock.Mapping, 0, len(matches))
	for _, match := range matches {
		out = append(out, mappings[match.Index])
	}
	return out
}

// IsSelected reports whether the row with the given id is selected.
func (s *MappingsViewState) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// ToggleSelect flips one row's selection.
func (s *MappingsViewState) ToggleSelect(id string) {
	if id == "" {
		return
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
}

// ToggleSelectAll selects every row, or clears the selection when all rows
// are already selected.
func (s *MappingsViewState) ToggleSelectAll(mappings []wiremock.Mapping) {
	if len(s.selected) == len(mappings) {
		s.selected = make(map[string]struct{})
		return
	}
	s.selected = make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		if m.ID != "" {
			s.selected[m.ID] = struct{}{}
		}
	}
}

// SelectionCount returns how many rows are selected.
func (s *MappingsViewState) SelectionCount() int {
	return len(s.selected)
}

// SelectedInOrder returns the selected ids in collection order, which is
// the order bulk deletion proceeds in.
func (s *MappingsViewState) SelectedInOrder(mappings []wiremock.Mapping) []string {
	ids := make([]string, 0, len(s.selected))
	for _, m := range mappings {
		if _, ok := s.selected[m.ID]; ok {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// ClearSelection empties the selection set.
func (s *MappingsViewState) ClearSelection() {
	s.selected = make(map[string]struct{})
}
