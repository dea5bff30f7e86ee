package tui

import (
	"context"
	"os/exec"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wiremgr/wiremgr/internal/logger"
	"github.com/wiremgr/wiremgr/internal/store"
)

// opTimeout bounds every admin call issued from the TUI.
const opTimeout = 10 * time.Second

// loadMappings fetches the stub collection. The captured sequence number
// lets Update drop responses superseded by a newer load.
func (m *Model) loadMappings() tea.Cmd {
	m.mappingsSeq++
	seq := m.mappingsSeq
	m.st.Dispatch(store.SetLoading{Loading: true})
	m.st.Dispatch(store.SetError{})

	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		mappings, err := client.ListMappings(ctx)
		if err != nil {
			logger.L().Error("list mappings failed", "error", err)
			return opFailedMsg("failed to load mappings")
		}
		return mappingsLoadedMsg{seq: seq, mappings: mappings}
	}
}

// loadRequests fetches the request journal.
func (m *Model) loadRequests() tea.Cmd {
	m.requestsSeq++
	seq := m.requestsSeq
	m.st.Dispatch(store.SetLoading{Loading: true})
	m.st.Dispatch(store.SetError{})

	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		entries, err := client.ListRequests(ctx)
		if err != nil {
			logger.L().Error("list requests failed", "error", err)
			return opFailedMsg("failed to load requests")
		}
		return requestsLoadedMsg{seq: seq, entries: entries}
	}
}

// fetchMapping loads a single stub for the detail view or the edit form.
func (m *Model) fetchMapping(id string, purpose fetchPurpose) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		mapping, err := client.GetMapping(ctx, id)
		if err != nil {
			logger.L().Error("get mapping failed", "id", id, "error", err)
			return opFailedMsg("failed to load mapping")
		}
		return mappingFetchedMsg{mapping: mapping, purpose: purpose}
	}
}

// fetchRequest loads a single journal entry for the detail view.
func (m *Model) fetchRequest(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		entry, err := client.GetRequest(ctx, id)
		if err != nil {
			logger.L().Error("get request failed", "id", id, "error", err)
			return opFailedMsg("failed to load request")
		}
		return requestFetchedMsg{entry: entry}
	}
}

// submitForm saves the current form, creating or updating depending on
// the form's origin. The draft rides along so Update can reflect an edit
// locally without waiting for a reload.
func (m *Model) submitForm() tea.Cmd {
	if m.form == nil || m.saving {
		return nil
	}
	m.saving = true

	draft := m.form.Mapping()
	editID := m.form.EditID()
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if editID == "" {
			created, err := client.CreateMapping(ctx, &draft)
			if err != nil {
				logger.L().Error("create mapping failed", "error", err)
				return opFailedMsg("failed to save mapping")
			}
			return mappingSavedMsg{mapping: created, created: true}
		}

		updated, err := client.UpdateMapping(ctx, editID, &draft)
		if err != nil {
			logger.L().Error("update mapping failed", "id", editID, "error", err)
			return opFailedMsg("failed to save mapping")
		}
		return mappingSavedMsg{mapping: updated, draft: draft}
	}
}

// deleteMapping removes one stub.
func (m *Model) deleteMapping(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if err := client.DeleteMapping(ctx, id); err != nil {
			logger.L().Error("delete mapping failed", "id", id, "error", err)
			return opFailedMsg("failed to delete mapping")
		}
		return mappingDeletedMsg{id: id}
	}
}

// bulkDelete removes the given stubs one at a time, stopping at the first
// failure. The ids that made it through are reported either way so Update
// can remove exactly those rows.
func (m *Model) bulkDelete(ids []string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(len(ids))*opTimeout)
		defer cancel()

		deleted := make([]string, 0, len(ids))
		for _, id := range ids {
			if err := client.DeleteMapping(ctx, id); err != nil {
				logger.L().Error("bulk delete aborted", "id", id, "deleted", len(deleted), "error", err)
				return bulkDeleteDoneMsg{deleted: deleted, err: err}
			}
			deleted = append(deleted, id)
		}
		return bulkDeleteDoneMsg{deleted: deleted}
	}
}

// clearRequests empties the journal.
func (m *Model) clearRequests() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if err := client.ResetRequests(ctx); err != nil {
			logger.L().Error("clear requests failed", "error", err)
			return opFailedMsg("failed to clear requests")
		}
		return requestsClearedMsg{}
	}
}

// probeHealth pings the admin API. The result only drives the indicator.
func (m *Model) probeHealth() tea.Cmd {
	m.conn.BeginProbe()
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return healthResultMsg{connected: client.Health(ctx)}
	}
}

// healthTick schedules the next periodic probe.
func healthTick() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

// copyText writes to the system clipboard, reporting via the footer.
func copyText(text, note string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			logger.L().Error("clipboard write failed", "error", err)
			return statusNoteMsg("Copy failed")
		}
		return statusNoteMsg(note)
	}
}

// openInBrowser launches the system browser, fire-and-forget.
func openInBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		if err := cmd.Start(); err != nil {
			logger.L().Error("browser open failed", "url", url, "error", err)
			return statusNoteMsg("Failed to open browser")
		}
		return statusNoteMsg("Opened in browser")
	}
}

// saveToDisk persists the current stubs server-side.
func (m *Model) saveToDisk() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if err := client.SaveMappings(ctx); err != nil {
			logger.L().Error("save mappings failed", "error", err)
			return opFailedMsg("failed to save mappings to disk")
		}
		return statusNoteMsg("Mappings saved to disk")
	}
}

// resetServer restores the server's default stubs and clears the journal.
func (m *Model) resetServer() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if err := client.ResetMappings(ctx); err != nil {
			logger.L().Error("reset failed", "error", err)
			return opFailedMsg("failed to reset server")
		}
		return statusNoteMsg("Server reset")
	}
}
