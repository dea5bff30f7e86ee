package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wiremgr/wiremgr/internal/store"
)

// handleKeyPress routes key presses based on the current mode.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch m.mode {
	case ModeMappings:
		return m.handleMappingsKeys(msg)
	case ModeRequests:
		return m.handleRequestsKeys(msg)
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeMappingDetail, ModeRequestDetail:
		return m.handleDetailKeys(msg)
	case ModeConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	case ModeConfirmBulkDelete:
		return m.handleConfirmBulkDeleteKeys(msg)
	case ModeConfirmClear:
		return m.handleConfirmClearKeys(msg)
	case ModeFilterInput:
		return m.handleFilterInputKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	}
	return nil
}

// mappingUnderCursor resolves the cursor to a collection index, false on
// an empty page.
func (m *Model) mappingUnderCursor() (int, bool) {
	mappings := m.visibleMappings()
	w := m.mappingsView.Window(len(mappings))
	idx := w.StartIndex + m.mappingsView.Cursor()
	if idx < w.StartIndex || idx >= w.EndIndex {
		return 0, false
	}
	return idx, true
}

func (m *Model) requestUnderCursor() (int, bool) {
	entries := m.visibleRequests()
	w := m.requestsView.Window(len(entries))
	idx := w.StartIndex + m.requestsView.Cursor()
	if idx < w.StartIndex || idx >= w.EndIndex {
		return 0, false
	}
	return idx, true
}

func (m *Model) handleMappingsKeys(msg tea.KeyMsg) tea.Cmd {
	mappings := m.visibleMappings()
	w := m.mappingsView.Window(len(mappings))
	visible := w.EndIndex - w.StartIndex

	switch msg.String() {
	case "q":
		return tea.Quit
	case "?":
		m.mode = ModeHelp
	case "up", "k":
		m.mappingsView.MoveCursor(-1, visible)
	case "down", "j":
		m.mappingsView.MoveCursor(1, visible)
	case "left", "h":
		m.mappingsView.ChangePage(-1, len(mappings))
	case "right", "l":
		m.mappingsView.ChangePage(1, len(mappings))
	case "tab":
		return m.navigate(Location{Mode: ModeRequests})
	case "R":
		return m.loadMappings()
	case "n":
		return m.navigate(Location{Mode: ModeForm})
	case "enter":
		if idx, ok := m.mappingUnderCursor(); ok {
			return m.navigate(Location{Mode: ModeMappingDetail, ID: mappings[idx].ID})
		}
	case "e":
		if idx, ok := m.mappingUnderCursor(); ok {
			return m.navigate(Location{Mode: ModeForm, ID: mappings[idx].ID})
		}
	case "d":
		if idx, ok := m.mappingUnderCursor(); ok && mappings[idx].ID != "" {
			m.pendingDeleteID = mappings[idx].ID
			m.mode = ModeConfirmDelete
		}
	case " ":
		if idx, ok := m.mappingUnderCursor(); ok {
			m.mappingsView.ToggleSelect(mappings[idx].ID)
		}
	case "a":
		m.mappingsView.ToggleSelectAll(mappings)
	case "D":
		if m.mappingsView.SelectionCount() > 0 {
			// Full collection, not the filtered view: rows selected
			// before a filter hid them are still part of the batch.
			m.pendingBulk = m.mappingsView.SelectedInOrder(m.st.Mappings())
			m.mode = ModeConfirmBulkDelete
		}
	case "f":
		m.filterTarget = ModeMappings
		m.filterInput = m.mappingsView.Query()
		m.mode = ModeFilterInput
	case "F":
		m.mappingsView.ClearFilter()
	case "s":
		return m.saveToDisk()
	case "ctrl+r":
		return m.resetServer()
	case "c":
		return m.probeHealth()
	}
	return nil
}

func (m *Model) handleRequestsKeys(msg tea.KeyMsg) tea.Cmd {
	entries := m.visibleRequests()
	w := m.requestsView.Window(len(entries))
	visible := w.EndIndex - w.StartIndex

	switch msg.String() {
	case "q":
		return tea.Quit
	case "?":
		m.mode = ModeHelp
	case "up", "k":
		m.requestsView.MoveCursor(-1, visible)
	case "down", "j":
		m.requestsView.MoveCursor(1, visible)
	case "left", "h":
		m.requestsView.ChangePage(-1, len(entries))
	case "right", "l":
		m.requestsView.ChangePage(1, len(entries))
	case "tab":
		return m.navigate(Location{Mode: ModeMappings})
	case "R":
		return m.loadRequests()
	case "enter":
		if idx, ok := m.requestUnderCursor(); ok {
			return m.navigate(Location{Mode: ModeRequestDetail, ID: entries[idx].ID})
		}
	case "f":
		m.filterTarget = ModeRequests
		m.filterInput = m.requestsView.FilterExpr()
		m.mode = ModeFilterInput
	case "F":
		m.requestsView.ClearFilter()
		m.filtered = nil
	case "C":
		m.mode = ModeConfirmClear
	case "y":
		if idx, ok := m.requestUnderCursor(); ok {
			entry := entries[idx]
			if m.requestsView.RegisterCopyPress(entry.ID, time.Now()) {
				// Second press within the double-press window copies
				// the absolute URL instead of the path.
				url := entry.Request.AbsoluteURL
				if url == "" {
					url = m.settings.BuildAbsoluteURL(entry.Request.URL)
				}
				return copyText(url, "Copied absolute URL")
			}
			return copyText(entry.Request.URL, "Copied URL path")
		}
	case "c":
		return m.probeHealth()
	}
	return nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	if m.form == nil {
		if msg.String() == "esc" {
			return m.navigate(Location{Mode: ModeMappings})
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		m.form = nil
		return m.navigate(Location{Mode: ModeMappings})
	case "tab", "down":
		m.form.NextField()
		return nil
	case "shift+tab", "up":
		m.form.PrevField()
		return nil
	case "ctrl+s", "enter":
		return m.submitForm()
	case "ctrl+t":
		// Hits the stub being edited so the response can be inspected
		// in a browser.
		if path := m.form.URLPath(); path != "" {
			return openInBrowser(m.settings.BuildAbsoluteURL(path))
		}
		return nil
	case "left":
		switch m.form.Focus() {
		case fieldMethod:
			m.form.CycleMethod(-1)
		case fieldPriority:
			m.form.CyclePriority(-1)
		case fieldPersistent:
			m.form.TogglePersistent()
		}
		return nil
	case "right":
		switch m.form.Focus() {
		case fieldMethod:
			m.form.CycleMethod(1)
		case fieldPriority:
			m.form.CyclePriority(1)
		case fieldPersistent:
			m.form.TogglePersistent()
		}
		return nil
	case "backspace":
		m.form.Backspace()
		return nil
	}

	switch m.form.Focus() {
	case fieldMethod:
		if msg.String() == " " {
			m.form.CycleMethod(1)
		}
	case fieldPriority:
		if msg.String() == " " {
			m.form.CyclePriority(1)
		}
	case fieldPersistent:
		if msg.String() == " " {
			m.form.TogglePersistent()
		}
	default:
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				m.form.InsertRune(r)
			}
		} else if msg.Type == tea.KeySpace {
			m.form.InsertRune(' ')
		}
	}
	return nil
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "backspace":
		if m.mode == ModeRequestDetail {
			return m.navigate(Location{Mode: ModeRequests})
		}
		return m.navigate(Location{Mode: ModeMappings})
	case "e":
		if m.mode == ModeMappingDetail && m.detailMapping != nil {
			return m.navigate(Location{Mode: ModeForm, ID: m.detailMapping.ID})
		}
	case "d":
		if m.mode == ModeMappingDetail && m.detailMapping != nil {
			m.pendingDeleteID = m.detailMapping.ID
			m.mode = ModeConfirmDelete
		}
	case "y":
		if m.mode == ModeMappingDetail && m.detailMapping != nil {
			return copyText(responseBodyText(m.detailMapping.Response), "Copied response body")
		}
		if m.mode == ModeRequestDetail && m.detailEntry != nil {
			return copyText(m.detailEntry.Request.Body, "Copied request body")
		}
	default:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleConfirmDeleteKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		id := m.pendingDeleteID
		m.pendingDeleteID = ""
		if m.detailMapping != nil && m.detailMapping.ID == id {
			m.mode = ModeMappingDetail
		} else {
			m.mode = ModeMappings
		}
		return m.deleteMapping(id)
	case "n", "esc":
		m.pendingDeleteID = ""
		if m.detailMapping != nil {
			m.mode = ModeMappingDetail
		} else {
			m.mode = ModeMappings
		}
	}
	return nil
}

func (m *Model) handleConfirmBulkDeleteKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		ids := m.pendingBulk
		m.pendingBulk = nil
		m.mode = ModeMappings
		return m.bulkDelete(ids)
	case "n", "esc":
		m.pendingBulk = nil
		m.mode = ModeMappings
	}
	return nil
}

func (m *Model) handleConfirmClearKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		m.mode = ModeRequests
		return m.clearRequests()
	case "n", "esc":
		m.mode = ModeRequests
	}
	return nil
}

func (m *Model) handleFilterInputKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = m.filterTarget
	case "enter":
		expr := m.filterInput
		m.mode = m.filterTarget
		if m.filterTarget == ModeMappings {
			if expr == "" {
				m.mappingsView.ClearFilter()
			} else {
				m.mappingsView.SetFilter(expr)
			}
			return nil
		}
		if expr == "" {
			m.requestsView.ClearFilter()
			m.filtered = nil
			return nil
		}
		filtered, err := FilterRequests(m.st.Requests(), expr)
		if err != nil {
			m.st.Dispatch(store.SetError{Message: "invalid filter expression"})
			return nil
		}
		m.requestsView.SetFilter(expr)
		m.filtered = filtered
		m.st.Dispatch(store.SetError{})
	case "backspace":
		if m.filterInput != "" {
			runes := []rune(m.filterInput)
			m.filterInput = string(runes[:len(runes)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.filterInput += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.filterInput += " "
		}
	}
	return nil
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "?", "enter":
		m.mode = ModeMappings
	}
	return nil
}
