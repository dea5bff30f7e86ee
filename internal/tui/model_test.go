package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wiremgr/wiremgr/internal/config"
	"github.com/wiremgr/wiremgr/internal/store"
	"github.com/wiremgr/wiremgr/internal/wiremock"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	settings := config.Settings{BaseURL: "http://localhost:8080"}
	m, err := New(settings, wiremock.New(settings.BaseURL), "/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.width = 80
	m.height = 24
	return &m
}

func TestNew_StartsOnResolvedRoute(t *testing.T) {
	settings := config.Settings{BaseURL: "http://localhost:8080"}

	m, err := New(settings, wiremock.New(settings.BaseURL), "/requests")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.mode != ModeRequests {
		t.Errorf("mode = %v, want ModeRequests", m.mode)
	}

	if _, err := New(settings, wiremock.New(settings.BaseURL), "/nope"); err == nil {
		t.Error("expected error for unknown path")
	}
}

func TestUpdate_MappingsLoaded(t *testing.T) {
	m := testModel(t)
	cmd := m.loadMappings()
	if cmd == nil {
		t.Fatal("loadMappings returned nil cmd")
	}

	m.Update(mappingsLoadedMsg{seq: m.mappingsSeq, mappings: testMappings("m1", "m2")})

	if got := len(m.st.Mappings()); got != 2 {
		t.Errorf("store holds %d mappings, want 2", got)
	}
	if m.st.State().Loading {
		t.Error("loading flag should be cleared")
	}
	if m.mappingsView.Page() != 1 {
		t.Errorf("page = %d, want 1 after reload", m.mappingsView.Page())
	}
}

func TestUpdate_DropsStaleMappingsLoad(t *testing.T) {
	m := testModel(t)
	m.loadMappings()
	stale := m.mappingsSeq
	m.loadMappings() // supersedes the first load

	m.Update(mappingsLoadedMsg{seq: stale, mappings: testMappings("old")})
	if got := len(m.st.Mappings()); got != 0 {
		t.Errorf("stale response applied: store holds %d mappings", got)
	}

	m.Update(mappingsLoadedMsg{seq: m.mappingsSeq, mappings: testMappings("new")})
	if got := m.st.Mappings(); len(got) != 1 || got[0].ID != "new" {
		t.Errorf("latest response not applied: %v", got)
	}
}

func TestUpdate_DropsLoadAfterNavigatingAway(t *testing.T) {
	m := testModel(t)
	m.loadMappings()
	seq := m.mappingsSeq
	m.mode = ModeRequests

	m.Update(mappingsLoadedMsg{seq: seq, mappings: testMappings("m1")})
	if got := len(m.st.Mappings()); got != 0 {
		t.Errorf("load applied after navigating away: %d mappings", got)
	}
}

func TestUpdate_SaveCreateUsesServerObject(t *testing.T) {
	m := testModel(t)
	m.mode = ModeForm
	m.form = NewMappingForm()

	server := wiremock.Mapping{ID: "assigned-id", Request: wiremock.RequestPattern{Method: "GET"}}
	m.Update(mappingSavedMsg{mapping: &server, created: true})

	got := m.st.Mappings()
	if len(got) != 1 || got[0].ID != "assigned-id" {
		t.Fatalf("store = %v, want the server-assigned mapping", got)
	}
	if m.mode != ModeMappings {
		t.Errorf("mode = %v, want ModeMappings after save", m.mode)
	}
	if m.form != nil {
		t.Error("form should be discarded after save")
	}
}

func TestUpdate_SaveEditUsesLocalDraft(t *testing.T) {
	m := testModel(t)
	m.st.Dispatch(store.SetMappings{Mappings: testMappings("m1")})
	m.mode = ModeForm

	draft := wiremock.Mapping{ID: "m1", Name: "edited", Request: wiremock.RequestPattern{Method: "PUT"}}
	serverEcho := wiremock.Mapping{ID: "m1", Name: "server-view"}
	m.Update(mappingSavedMsg{mapping: &serverEcho, draft: draft})

	got := m.st.Mappings()
	if len(got) != 1 || got[0].Name != "edited" {
		t.Errorf("store = %v, want the local draft reflected", got)
	}
}

func TestUpdate_BulkDeleteFailureKeepsSelection(t *testing.T) {
	m := testModel(t)
	m.st.Dispatch(store.SetMappings{Mappings: testMappings("m1", "m2", "m3")})
	m.mappingsView.ToggleSelect("m1")
	m.mappingsView.ToggleSelect("m2")
	m.mappingsView.ToggleSelect("m3")

	m.Update(bulkDeleteDoneMsg{deleted: []string{"m1"}, err: errors.New("boom")})

	if got := len(m.st.Mappings()); got != 2 {
		t.Errorf("store holds %d mappings, want 2 (only m1 removed)", got)
	}
	if m.st.State().Error == "" {
		t.Error("error message should surface on aborted bulk delete")
	}
	if m.mappingsView.SelectionCount() == 0 {
		t.Error("selection should survive a failed bulk delete")
	}
}

func TestUpdate_BulkDeleteSuccessClearsSelection(t *testing.T) {
	m := testModel(t)
	m.st.Dispatch(store.SetMappings{Mappings: testMappings("m1", "m2")})
	m.mappingsView.ToggleSelect("m1")
	m.mappingsView.ToggleSelect("m2")

	m.Update(bulkDeleteDoneMsg{deleted: []string{"m1", "m2"}})

	if got := len(m.st.Mappings()); got != 0 {
		t.Errorf("store holds %d mappings, want 0", got)
	}
	if m.mappingsView.SelectionCount() != 0 {
		t.Error("selection should clear after a successful bulk delete")
	}
}

func TestUpdate_BulkDeleteIncludesFilteredOutSelection(t *testing.T) {
	m := testModel(t)
	m.st.Dispatch(store.SetMappings{Mappings: testMappings("m1", "m2", "m3")})
	m.mappingsView.ToggleSelect("m1")
	m.mappingsView.ToggleSelect("m3")
	m.mappingsView.SetFilter("m1")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'D'}})

	if m.mode != ModeConfirmBulkDelete {
		t.Fatalf("mode = %v, want ModeConfirmBulkDelete", m.mode)
	}
	want := []string{"m1", "m3"}
	if len(m.pendingBulk) != len(want) {
		t.Fatalf("pendingBulk = %v, want %v", m.pendingBulk, want)
	}
	for i, id := range want {
		if m.pendingBulk[i] != id {
			t.Errorf("pendingBulk = %v, want %v", m.pendingBulk, want)
		}
	}
}

func TestUpdate_RequestsClearedResetsViewState(t *testing.T) {
	m := testModel(t)
	m.mode = ModeRequests
	m.loadRequests()
	m.Update(requestsLoadedMsg{seq: m.requestsSeq, entries: []wiremock.RequestLogEntry{
		{ID: "r1", Request: wiremock.LoggedRequest{Method: "GET", URL: "/a"}},
	}})

	m.Update(requestsClearedMsg{})

	if got := len(m.st.Requests()); got != 0 {
		t.Errorf("store holds %d requests, want 0", got)
	}
	if m.requestsView.Page() != 1 {
		t.Errorf("page = %d, want 1 after clear", m.requestsView.Page())
	}
}

func TestUpdate_OpFailedClearsLoading(t *testing.T) {
	m := testModel(t)
	m.loadMappings()

	m.Update(opFailedMsg("failed to load mappings"))

	if m.st.State().Loading {
		t.Error("loading flag should be cleared on failure")
	}
	if m.st.State().Error != "failed to load mappings" {
		t.Errorf("error = %q", m.st.State().Error)
	}
}

func TestUpdate_HealthResultDrivesIndicator(t *testing.T) {
	m := testModel(t)

	m.Update(healthResultMsg{connected: true})
	if m.conn.Status() != ConnConnected {
		t.Errorf("status = %v, want connected", m.conn.Status())
	}

	m.Update(healthResultMsg{connected: false})
	if m.conn.Status() != ConnDisconnected {
		t.Errorf("status = %v, want disconnected", m.conn.Status())
	}
}
