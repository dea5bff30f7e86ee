package tui

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmespath/go-jmespath"
	"github.com/wiremgr/wiremgr/internal/paginate"
	"github.com/wiremgr/wiremgr/internal/wiremock"
)

// doublePressWindow is how quickly the copy key must be pressed twice to
// copy the absolute URL instead of the relative one.
const doublePressWindow = 500 * time.Millisecond

// RequestsViewState holds the journal view's local state: cursor, page, an
// optional JMESPath filter and the double-press copy detector.
type RequestsViewState struct {
	cursor int
	page   int

	filterExpr   string
	filterActive bool

	lastCopyAt time.Time
	lastCopyID string
}

// NewRequestsViewState creates an empty journal view state on page 1.
func NewRequestsViewState() *RequestsViewState {
	return &RequestsViewState{page: 1}
}

// Window computes the pagination window for the current page.
func (s *RequestsViewState) Window(total int) paginate.Window {
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
func (s *RequestsViewState) Page() int { return s.page }

// Cursor returns the cursor index within the visible page.
func (s *RequestsViewState) Cursor() int { return s.cursor }

// MoveCursor moves within the visible page, clamped to its bounds.
func (s *RequestsViewState) MoveCursor(delta, visible int) {
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
func (s *RequestsViewState) ChangePage(delta, total int) {
	w := paginate.New(s.page, paginate.ItemsPerPage, total)
	s.page = paginate.Clamp(w.CurrentPage+delta, w.TotalPages)
	s.cursor = 0
}

// ResetPage returns to page 1, used after a reload or clear-all.
func (s *RequestsViewState) ResetPage() {
	s.page = 1
	s.cursor = 0
}

// FilterExpr returns the active JMESPath expression, if any.
func (s *RequestsViewState) FilterExpr() string { return s.filterExpr }

// FilterActive reports whether a filter is applied.
func (s *RequestsViewState) FilterActive() bool { return s.filterActive }

// SetFilter applies a JMESPath expression; an empty expression clears it.
func (s *RequestsViewState) SetFilter(expr string) {
	s.filterExpr = expr
	s.filterActive = expr != ""
	s.ResetPage()
}

// ClearFilter removes the active filter.
func (s *RequestsViewState) ClearFilter() {
	s.SetFilter("")
}

// RegisterCopyPress records a press of the copy key for the given entry and
// reports whether it completes a double press: a second press on the same
// entry within the window means "copy the absolute URL".
func (s *RequestsViewState) RegisterCopyPress(id string, now time.Time) bool {
	double := id == s.lastCopyID && now.Sub(s.lastCopyAt) <= doublePressWindow
	if double {
		// Consume the pair so a third press starts over.
		s.lastCopyID = ""
		s.lastCopyAt = time.Time{}
		return true
	}
	s.lastCopyID = id
	s.lastCopyAt = now
	return false
}

// FilterRequests keeps the entries for which the JMESPath expression
// evaluates to a truthy value. Entries are evaluated as their JSON shape,
// so expressions like `request.method == 'POST'` or
// `responseDefinition.status >= `400`` work directly.
func FilterRequests(entries []wiremock.RequestLogEntry, expr string) ([]wiremock.RequestLogEntry, error) {
	compiled, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	var out []wiremock.RequestLogEntry
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("failed to encode entry: %w", err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("failed to decode entry: %w", err)
		}
		result, err := compiled.Search(generic)
		if err != nil {
			return nil, fmt.Errorf("filter failed: %w", err)
		}
		if truthy(result) {
			out = append(out, e)
		}
	}
	return out, nil
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
