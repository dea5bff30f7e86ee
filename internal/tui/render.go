package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wiremgr/wiremgr/internal/config"
	"github.com/wiremgr/wiremgr/internal/paginate"
	"github.com/wiremgr/wiremgr/internal/wiremock"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleInfo = lipgloss.NewStyle().
			Foreground(colorBlue)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

func formatStatus(status int) string {
	return fmt.Sprintf("%d", status)
}

// View renders the current mode.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	switch m.mode {
	case ModeMappings, ModeConfirmDelete, ModeConfirmBulkDelete:
		body = m.renderMappingsList()
		if m.mode == ModeConfirmDelete {
			body = m.withConfirm(body, "Delete this mapping? (y/n)")
		}
		if m.mode == ModeConfirmBulkDelete {
			body = m.withConfirm(body, fmt.Sprintf("Delete %d selected mappings? (y/n)", len(m.pendingBulk)))
		}
	case ModeRequests, ModeConfirmClear:
		body = m.renderRequestsList()
		if m.mode == ModeConfirmClear {
			body = m.withConfirm(body, "Clear the entire request log? (y/n)")
		}
	case ModeForm:
		body = m.renderForm()
	case ModeMappingDetail, ModeRequestDetail:
		body = m.renderDetail()
	case ModeFilterInput:
		body = m.renderFilterInput()
	case ModeHelp:
		body = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

// withConfirm appends a confirmation prompt under the current view.
func (m *Model) withConfirm(body, prompt string) string {
	return body + "\n" + styleWarning.Bold(true).Render(prompt)
}

func (m *Model) renderMappingsList() string {
	var lines []string

	mappings := m.visibleMappings()
	w := m.mappingsView.Window(len(mappings))
	page := paginate.Slice(mappings, w)

	title := fmt.Sprintf("Mappings (%d)", len(mappings))
	if m.mappingsView.FilterActive() {
		title += fmt.Sprintf(" — filter: %s", m.mappingsView.Query())
	}
	if n := m.mappingsView.SelectionCount(); n > 0 {
		title += fmt.Sprintf(" — %d selected", n)
	}
	lines = append(lines, styleTitle.Render(title), "")

	switch {
	case m.st.State().Loading && len(mappings) == 0:
		lines = append(lines, styleSubtle.Render("Loading..."))
	case len(mappings) == 0 && m.mappingsView.FilterActive():
		lines = append(lines, styleSubtle.Render("No mappings match the filter."))
	case len(mappings) == 0:
		lines = append(lines, styleSubtle.Render("No mappings. Press n to create one."))
	default:
		for i, mp := range page {
			mark := "[ ]"
			if m.mappingsView.IsSelected(mp.ID) {
				mark = "[x]"
			}
			name := mp.Name
			if name == "" {
				name = styleSubtle.Render("(unnamed)")
			}
			row := fmt.Sprintf("%s %s %s %s  %s",
				mark,
				methodBadge(mp.Request.Method),
				statusBadge(mp.Response.Status),
				truncate(mp.MatchTarget(), 40),
				name,
			)
			if i == m.mappingsView.Cursor() {
				row = styleSelected.Render("> " + row)
			} else {
				row = "  " + row
			}
			lines = append(lines, row)
		}
	}

	lines = append(lines, "", m.renderPageIndicator(w))
	lines = append(lines, styleSubtle.Render("enter detail · n new · e edit · d delete · space select · D delete selected · f filter · tab requests · ? help"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderRequestsList() string {
	var lines []string

	entries := m.visibleRequests()
	w := m.requestsView.Window(len(entries))
	page := paginate.Slice(entries, w)

	title := fmt.Sprintf("Requests (%d)", len(entries))
	if m.requestsView.FilterActive() {
		title += fmt.Sprintf(" — filter: %s", m.requestsView.FilterExpr())
	}
	lines = append(lines, styleTitle.Render(title), "")

	switch {
	case m.st.State().Loading && len(entries) == 0:
		lines = append(lines, styleSubtle.Render("Loading..."))
	case len(entries) == 0:
		lines = append(lines, styleSubtle.Render("No requests logged."))
	default:
		for i, e := range page {
			matched := styleSuccess.Render("matched")
			if !e.ResponseDefinition.FromConfiguredStub {
				matched = styleError.Render("unmatched")
			}
			row := fmt.Sprintf("%s %s %s %s %s",
				styleSubtle.Render(e.Request.LoggedTime().Format("15:04:05")),
				methodBadge(e.Request.Method),
				statusBadge(e.ResponseDefinition.Status),
				truncate(e.Request.URL, 40),
				matched,
			)
			if i == m.requestsView.Cursor() {
				row = styleSelected.Render("> " + row)
			} else {
				row = "  " + row
			}
			lines = append(lines, row)
		}
	}

	lines = append(lines, "", m.renderPageIndicator(w))
	lines = append(lines, styleSubtle.Render("enter detail · y copy url (double: absolute) · f filter · C clear · tab mappings · ? help"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderPageIndicator(w paginate.Window) string {
	totalPages := w.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	return styleSubtle.Render(fmt.Sprintf("Page %d/%d · %d items", w.CurrentPage, totalPages, w.TotalItems))
}

// formLabels indexes display labels by field.
var formLabels = map[formField]string{
	fieldName:         "Name",
	fieldMethod:       "Method",
	fieldURLPath:      "URL path",
	fieldPriority:     "Priority",
	fieldPersistent:   "Persistent",
	fieldReqHeaders:   "Request headers (JSON)",
	fieldQueryParams:  "Query parameters (JSON)",
	fieldBodyPatterns: "Body patterns (JSON)",
	fieldStatus:       "Response status",
	fieldDelay:        "Delay (ms)",
	fieldRespHeaders:  "Response headers (JSON)",
	fieldRespBody:     "Response body",
}

func (m *Model) renderForm() string {
	if m.form == nil {
		return styleSubtle.Render("Loading...")
	}

	var lines []string
	title := "New Mapping"
	if m.form.IsEdit() {
		title = "Edit Mapping"
	}
	lines = append(lines, styleTitle.Render(title), "")

	for field := formField(0); field < fieldCount; field++ {
		if field == fieldBodyPatterns && !m.form.ShowBodyPatterns() {
			continue
		}
		label := formLabels[field]
		value := m.form.fieldText(field)
		line := fmt.Sprintf("%-26s %s", label+":", value)
		if field == m.form.Focus() {
			line = styleSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	lines = append(lines, "",
		styleSubtle.Render("tab/shift+tab fields · left/right cycle · enter save · ctrl+t test in browser · esc cancel"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderDetail() string {
	var title string
	switch m.mode {
	case ModeMappingDetail:
		title = "Mapping Detail"
		if m.detailMapping == nil {
			return styleTitle.Render(title) + "\n\n" + styleSubtle.Render("Loading...")
		}
	case ModeRequestDetail:
		title = "Request Detail"
		if m.detailEntry == nil {
			return styleTitle.Render(title) + "\n\n" + styleSubtle.Render("Loading...")
		}
	}

	footer := styleSubtle.Render("y copy body · esc back")
	if m.mode == ModeMappingDetail {
		footer = styleSubtle.Render("e edit · d delete · y copy body · esc back")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render(title),
		"",
		m.detailView.View(),
		"",
		footer,
	)
}

// renderMappingDetailContent builds the scrollable mapping detail text.
func renderMappingDetailContent(mp wiremock.Mapping) string {
	var b strings.Builder

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", styleSubtle.Render(label+":"), value)
	}

	writeField("ID", mp.ID)
	writeField("Name", mp.Name)
	fmt.Fprintf(&b, "%s %s %s\n", styleSubtle.Render("Match:"), methodBadge(mp.Request.Method), mp.MatchTarget())
	if mp.Priority != 0 {
		writeField("Priority", fmt.Sprintf("%d", mp.Priority))
	}
	writeField("Persistent", fmt.Sprintf("%v", mp.Persistent))
	writeField("Scenario", mp.ScenarioName)

	if len(mp.Request.Headers) > 0 {
		b.WriteString("\n" + styleTitle.Render("Request headers") + "\n")
		b.WriteString(prettyJSON(mp.Request.Headers))
		b.WriteString("\n")
	}
	if len(mp.Request.QueryParameters) > 0 {
		b.WriteString("\n" + styleTitle.Render("Query parameters") + "\n")
		b.WriteString(prettyJSON(mp.Request.QueryParameters))
		b.WriteString("\n")
	}
	if len(mp.Request.BodyPatterns) > 0 {
		b.WriteString("\n" + styleTitle.Render("Body patterns") + "\n")
		b.WriteString(prettyJSON(mp.Request.BodyPatterns))
		b.WriteString("\n")
	}

	b.WriteString("\n" + styleTitle.Render("Response") + "\n")
	fmt.Fprintf(&b, "%s %s\n", styleSubtle.Render("Status:"), statusBadge(mp.Response.Status))
	if mp.Response.FixedDelayMilliseconds > 0 {
		fmt.Fprintf(&b, "%s %dms\n", styleSubtle.Render("Delay:"), mp.Response.FixedDelayMilliseconds)
	}
	if len(mp.Response.Headers) > 0 {
		fmt.Fprintf(&b, "%s\n%s\n", styleSubtle.Render("Headers:"), prettyJSON(mp.Response.Headers))
	}
	// jsonBody wins over body when both are present, matching how the
	// server serves the stub.
	if body := responseBodyText(mp.Response); body != "" {
		label := "Body:"
		if mp.Response.JSONBody != nil {
			label = "Body (json):"
		}
		fmt.Fprintf(&b, "%s\n%s\n", styleSubtle.Render(label), body)
	}

	return b.String()
}

// responseBodyText returns the stub body as displayed and copied:
// jsonBody pretty-printed when present, the raw body otherwise.
func responseBodyText(r wiremock.ResponseDefinition) string {
	if r.JSONBody != nil {
		return prettyJSON(r.JSONBody)
	}
	return r.Body
}

// renderRequestDetailContent builds the scrollable journal entry text.
func renderRequestDetailContent(settings config.Settings, e wiremock.RequestLogEntry) string {
	var b strings.Builder

	absolute := e.Request.AbsoluteURL
	if absolute == "" {
		absolute = settings.BuildAbsoluteURL(e.Request.URL)
	}

	fmt.Fprintf(&b, "%s %s %s\n", methodBadge(e.Request.Method), e.Request.URL, statusBadge(e.ResponseDefinition.Status))
	fmt.Fprintf(&b, "%s %s\n", styleSubtle.Render("Absolute:"), absolute)
	fmt.Fprintf(&b, "%s %s\n", styleSubtle.Render("Logged:"), e.Request.LoggedTime().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "%s %s\n", styleSubtle.Render("Client:"), e.Request.ClientIP)
	if e.ResponseDefinition.FromConfiguredStub {
		fmt.Fprintf(&b, "%s %s\n", styleSubtle.Render("Stub:"), styleSuccess.Render("matched"))
	} else {
		fmt.Fprintf(&b, "%s %s\n", styleSubtle.Render("Stub:"), styleError.Render("unmatched"))
	}

	if len(e.Request.Headers) > 0 {
		b.WriteString("\n" + styleTitle.Render("Headers") + "\n")
		b.WriteString(prettyJSON(e.Request.Headers))
		b.WriteString("\n")
	}
	if len(e.Request.Cookies) > 0 {
		b.WriteString("\n" + styleTitle.Render("Cookies") + "\n")
		b.WriteString(prettyJSON(e.Request.Cookies))
		b.WriteString("\n")
	}
	if e.Request.Body != "" {
		b.WriteString("\n" + styleTitle.Render("Body") + "\n")
		b.WriteString(e.Request.Body)
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) renderFilterInput() string {
	title := "Filter requests (JMESPath)"
	hint := "Examples: request.method == 'POST' · responseDefinition.status >= `400`"
	if m.filterTarget == ModeMappings {
		title = "Filter mappings"
		hint = "Matches name, method or URL, case-insensitively"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render(title),
		"",
		"> "+m.filterInput+"█",
		"",
		styleSubtle.Render(hint),
		styleSubtle.Render("enter apply · esc cancel"),
	)
}

func (m *Model) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"up/down, k/j", "move cursor"},
		{"left/right, h/l", "change page"},
		{"tab", "switch mappings/requests"},
		{"enter", "open detail"},
		{"n", "new mapping"},
		{"e", "edit mapping"},
		{"d", "delete mapping"},
		{"space / a", "select row / all"},
		{"D", "delete selected"},
		{"R", "refresh"},
		{"s", "save mappings to disk"},
		{"ctrl+r", "reset server"},
		{"f / F", "filter list / clear filter"},
		{"C", "clear request log"},
		{"y", "copy request url (press twice: absolute)"},
		{"c", "re-check connection"},
		{"q", "quit"},
	}

	var lines []string
	lines = append(lines, styleTitle.Render("Keys"), "")
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("  %s %s", styleInfo.Width(18).Render(r.key), r.desc))
	}
	lines = append(lines, "", styleSubtle.Render("esc close"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatusBar() string {
	var conn string
	switch m.conn.Status() {
	case ConnConnected:
		conn = styleSuccess.Render("● connected")
	case ConnDisconnected:
		conn = styleError.Render("● disconnected")
	default:
		conn = styleWarning.Render("● checking")
	}

	parts := []string{conn, styleSubtle.Render(m.settings.AdminAddress())}
	if m.st.State().Loading {
		parts = append(parts, styleInfo.Render("loading..."))
	}
	if errMsg := m.st.State().Error; errMsg != "" {
		parts = append(parts, styleError.Render(errMsg))
	} else if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}

	return strings.Join(parts, styleSubtle.Render(" │ "))
}

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
