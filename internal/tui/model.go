package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wiremgr/wiremgr/internal/config"
	"github.com/wiremgr/wiremgr/internal/logger"
	"github.com/wiremgr/wiremgr/internal/store"
	"github.com/wiremgr/wiremgr/internal/wiremock"
)

// Mode represents the current view.
type Mode int

const (
	ModeMappings Mode = iota
	ModeMappingDetail
	ModeForm
	ModeRequests
	ModeRequestDetail
	ModeConfirmDelete
	ModeConfirmBulkDelete
	ModeConfirmClear
	ModeFilterInput
	ModeHelp
)

// Model is the TUI state. All remote data lives in the store; everything
// else here is view-local.
type Model struct {
	settings config.Settings
	client   *wiremock.Client
	st       *store.Store

	mode       Mode
	initialLoc Location
	width      int
	height     int

	statusMsg string

	mappingsView *MappingsViewState
	requestsView *RequestsViewState
	form         *MappingForm
	conn         *ConnectivityState

	// Journal filter results; nil when no filter is applied.
	filtered     []wiremock.RequestLogEntry
	filterInput  string
	filterTarget Mode // list view the filter prompt was opened from

	detailMapping *wiremock.Mapping
	detailEntry   *wiremock.RequestLogEntry
	detailView    viewport.Model

	pendingDeleteID string
	pendingBulk     []string

	// Load sequence numbers: a response older than the latest issued
	// load for its collection is dropped, so navigating away and back
	// can never paint stale data over a newer load.
	mappingsSeq int
	requestsSeq int

	saving bool
}

// New creates the TUI model. The initial view comes from openPath, which
// uses the routed-path form ("/", "/requests", "/edit/:id", ...).
func New(settings config.Settings, client *wiremock.Client, openPath string) (Model, error) {
	loc, err := Resolve(openPath)
	if err != nil {
		return Model{}, err
	}

	return Model{
		settings:     settings,
		client:       client,
		st:           store.New(),
		mode:         loc.Mode,
		initialLoc:   loc,
		mappingsView: NewMappingsViewState(),
		requestsView: NewRequestsViewState(),
		conn:         NewConnectivityState(),
		detailView:   viewport.New(80, 20),
	}, nil
}

// Run starts the console.
func Run(openPath string) error {
	if err := config.Initialize(); err != nil {
		return err
	}

	cleanup, err := logger.Setup(config.LogsDir, false)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = cleanup() }()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	client := wiremock.New(settings.AdminAddress())

	m, err := New(settings, client, openPath)
	if err != nil {
		return err
	}

	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// Init issues the first collection load and starts the health poll.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.navigate(m.initialLoc),
		m.probeHealth(),
		healthTick(),
	)
}

// navigate switches to a resolved route and returns its activation
// command (the load-on-mount behavior of each view).
func (m *Model) navigate(loc Location) tea.Cmd {
	m.mode = loc.Mode
	m.statusMsg = ""

	switch loc.Mode {
	case ModeMappings:
		m.detailMapping = nil
		m.mappingsView.ResetPage()
		return m.loadMappings()
	case ModeRequests:
		m.detailEntry = nil
		m.requestsView.ResetPage()
		return m.loadRequests()
	case ModeForm:
		if loc.ID != "" {
			// Edit mode populates the form from the server first.
			m.form = nil
			m.st.Dispatch(store.SetLoading{Loading: true})
			m.st.Dispatch(store.SetError{})
			return m.fetchMapping(loc.ID, fetchForEdit)
		}
		m.form = NewMappingForm()
		m.st.Dispatch(store.SetError{})
		return nil
	case ModeMappingDetail:
		m.detailMapping = nil
		m.st.Dispatch(store.SetLoading{Loading: true})
		m.st.Dispatch(store.SetError{})
		return m.fetchMapping(loc.ID, fetchForDetail)
	case ModeRequestDetail:
		m.detailEntry = nil
		m.st.Dispatch(store.SetLoading{Loading: true})
		m.st.Dispatch(store.SetError{})
		return m.fetchRequest(loc.ID)
	}
	return nil
}

// visibleMappings returns the stubs the list renders, narrowed by the
// substring filter when one is applied.
func (m *Model) visibleMappings() []wiremock.Mapping {
	return FilterMappings(m.st.Mappings(), m.mappingsView.Query())
}

// visibleRequests returns the journal entries the view renders: the
// filtered subset when a filter is active, the full store collection
// otherwise.
func (m *Model) visibleRequests() []wiremock.RequestLogEntry {
	if m.requestsView.FilterActive() && m.filtered != nil {
		return m.filtered
	}
	return m.st.Requests()
}

// reapplyFilter refreshes the filtered subset after a reload.
func (m *Model) reapplyFilter() {
	if !m.requestsView.FilterActive() {
		m.filtered = nil
		return
	}
	filtered, err := FilterRequests(m.st.Requests(), m.requestsView.FilterExpr())
	if err != nil {
		// The expression was valid when first applied, so the new
		// entries defeated it. Drop the filter rather than render a
		// stale subset.
		m.requestsView.ClearFilter()
		m.filtered = nil
		return
	}
	m.filtered = filtered
}

// Update folds messages into the model. Store dispatches happen here, on
// the single program goroutine, never in command goroutines.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detailView.Width = msg.Width - ViewportWidthMargin
		m.detailView.Height = msg.Height - ViewportHeightMargin

	case mappingsLoadedMsg:
		if msg.seq != m.mappingsSeq || m.mode != ModeMappings {
			// Stale, or the view navigated away mid-flight.
			return m, nil
		}
		m.st.Dispatch(store.SetMappings{Mappings: msg.mappings})
		m.st.Dispatch(store.SetLoading{Loading: false})
		m.mappingsView.ResetPage()

	case requestsLoadedMsg:
		if msg.seq != m.requestsSeq || m.mode != ModeRequests {
			return m, nil
		}
		m.st.Dispatch(store.SetRequests{Requests: msg.entries})
		m.st.Dispatch(store.SetLoading{Loading: false})
		m.requestsView.ResetPage()
		m.reapplyFilter()

	case mappingFetchedMsg:
		m.st.Dispatch(store.SetLoading{Loading: false})
		switch msg.purpose {
		case fetchForEdit:
			if m.mode == ModeForm {
				m.form = NewEditForm(*msg.mapping)
			}
		case fetchForDetail:
			if m.mode == ModeMappingDetail {
				m.detailMapping = msg.mapping
				m.st.Dispatch(store.SelectMapping{Mapping: msg.mapping})
				m.detailView.SetContent(renderMappingDetailContent(*msg.mapping))
				m.detailView.GotoTop()
			}
		}

	case requestFetchedMsg:
		m.st.Dispatch(store.SetLoading{Loading: false})
		if m.mode == ModeRequestDetail {
			m.detailEntry = msg.entry
			m.detailView.SetContent(renderRequestDetailContent(m.settings, *msg.entry))
			m.detailView.GotoTop()
		}

	case mappingSavedMsg:
		m.saving = false
		if msg.created {
			// The server-returned object is authoritative; it carries
			// the assigned id.
			m.st.Dispatch(store.AddMapping{Mapping: *msg.mapping})
		} else {
			// Edit reflects the locally held draft, matching what was
			// submitted. Server-side defaults not present in the draft
			// are picked up on the next reload.
			m.st.Dispatch(store.UpdateMapping{Mapping: msg.draft})
		}
		m.form = nil
		m.statusMsg = "Mapping saved"
		return m, m.navigate(Location{Mode: ModeMappings})

	case mappingDeletedMsg:
		m.st.Dispatch(store.DeleteMapping{ID: msg.id})
		m.statusMsg = "Mapping deleted"
		if m.mode == ModeMappingDetail {
			return m, m.navigate(Location{Mode: ModeMappings})
		}
		m.mappingsView.Window(len(m.st.Mappings()))

	case bulkDeleteDoneMsg:
		for _, id := range msg.deleted {
			m.st.Dispatch(store.DeleteMapping{ID: id})
		}
		if msg.err != nil {
			// Abort semantics: rows already deleted stay removed, the
			// remainder keep their selection, one error surfaces.
			m.st.Dispatch(store.SetError{Message: "failed to delete selected mappings"})
		} else {
			m.mappingsView.ClearSelection()
			m.statusMsg = fmt.Sprintf("Deleted %d mappings", len(msg.deleted))
		}
		m.mappingsView.Window(len(m.st.Mappings()))

	case requestsClearedMsg:
		m.st.Dispatch(store.SetRequests{Requests: []wiremock.RequestLogEntry{}})
		m.requestsView.ResetPage()
		m.filtered = nil
		m.statusMsg = "Request log cleared"

	case healthResultMsg:
		m.conn.Resolve(msg.connected)

	case healthTickMsg:
		return m, tea.Batch(m.probeHealth(), healthTick())

	case statusNoteMsg:
		m.statusMsg = string(msg)

	case opFailedMsg:
		// The underlying error is already in the log file; the user
		// sees one generic message per operation category.
		m.saving = false
		m.st.Dispatch(store.SetLoading{Loading: false})
		m.st.Dispatch(store.SetError{Message: string(msg)})
	}

	return m, nil
}

// Message types carried from command goroutines back into Update.

type mappingsLoadedMsg struct {
	seq      int
	mappings []wiremock.Mapping
}

type requestsLoadedMsg struct {
	seq     int
	entries []wiremock.RequestLogEntry
}

type fetchPurpose int

const (
	fetchForDetail fetchPurpose = iota
	fetchForEdit
)

type mappingFetchedMsg struct {
	mapping *wiremock.Mapping
	purpose fetchPurpose
}

type requestFetchedMsg struct {
	entry *wiremock.RequestLogEntry
}

type mappingSavedMsg struct {
	mapping *wiremock.Mapping
	draft   wiremock.Mapping
	created bool
}

type mappingDeletedMsg struct {
	id string
}

type bulkDeleteDoneMsg struct {
	deleted []string
	err     error
}

type requestsClearedMsg struct{}

type healthResultMsg struct {
	connected bool
}

type healthTickMsg struct{}

// statusNoteMsg is a transient footer note (copies, clipboard results).
type statusNoteMsg string

// opFailedMsg is the generic user-facing message for a failed operation.
type opFailedMsg string
