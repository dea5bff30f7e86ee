package tui

import (
	"encoding/json"
	"strconv"

	"github.com/wiremgr/wiremgr/internal/wiremock"
)

// formField identifies one editable field of the mapping form.
type formField int

const (
	fieldName formField = iota
	fieldMethod
	fieldURLPath
	fieldPriority
	fieldPersistent
	fieldReqHeaders
	fieldQueryParams
	fieldBodyPatterns
	fieldStatus
	fieldDelay
	fieldRespHeaders
	fieldRespBody
	fieldCount
)

// priorities offered by the form: low, normal, high. Lower values are
// evaluated first by the server.
var priorities = []int{1, 5, 10}

// MappingForm is the create/edit form state. In edit mode it keeps the
// fetched mapping as a base and overlays the edited fields on submit, so
// fields the form does not expose (scenario linkage, metadata, jsonBody)
// pass through unmodified.
type MappingForm struct {
	editID string
	base   wiremock.Mapping
	focus  formField

	name       string
	methodIdx  int
	urlPath    string
	priority   int
	persistent bool
	status     string
	delay      string
	respBody   string

	// JSON-valued fields are edited as raw text and reparsed on every
	// change. A parse failure keeps the previous valid value so invalid
	// in-progress JSON never interrupts typing.
	reqHeadersText   string
	queryParamsText  string
	bodyPatternsText string
	respHeadersText  string

	reqHeaders   map[string]string
	queryParams  map[string]string
	bodyPatterns []wiremock.BodyPattern
	respHeaders  map[string]string
}

// NewMappingForm creates a form in create mode with the default draft:
// GET, status 200, priority 1, persistent, empty path and body.
func NewMappingForm() *MappingForm {
	return &MappingForm{
		priority:         1,
		persistent:       true,
		status:           "200",
		delay:            "0",
		reqHeadersText:   "{}",
		queryParamsText:  "{}",
		bodyPatternsText: "[]",
		respHeadersText:  "{}",
	}
}

// NewEditForm creates a form in edit mode populated from an existing
// mapping.
func NewEditForm(m wiremock.Mapping) *MappingForm {
	f := NewMappingForm()
	f.editID = m.ID
	f.base = m

	f.name = m.Name
	for i, method := range wiremock.HTTPMethods {
		if method == m.Request.Method {
			f.methodIdx = i
		}
	}
	f.urlPath = m.MatchTarget()
	if m.Priority != 0 {
		f.priority = m.Priority
	}
	f.persistent = m.Persistent
	f.status = strconv.Itoa(m.Response.Status)
	f.delay = strconv.Itoa(m.Response.FixedDelayMilliseconds)
	f.respBody = m.Response.Body

	f.reqHeaders = m.Request.Headers
	f.queryParams = m.Request.QueryParameters
	f.bodyPatterns = m.Request.BodyPatterns
	f.respHeaders = m.Response.Headers
	f.reqHeadersText = marshalOr(m.Request.Headers, "{}")
	f.queryParamsText = marshalOr(m.Request.QueryParameters, "{}")
	f.bodyPatternsText = marshalOr(m.Request.BodyPatterns, "[]")
	f.respHeadersText = marshalOr(m.Response.Headers, "{}")
	return f
}

func marshalOr(v any, fallback string) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return fallback
	}
	return string(data)
}

// IsEdit reports whether the form edits an existing mapping.
func (f *MappingForm) IsEdit() bool { return f.editID != "" }

// EditID returns the id being edited, empty in create mode.
func (f *MappingForm) EditID() string { return f.editID }

// Focus returns the active field.
func (f *MappingForm) Focus() formField { return f.focus }

// NextField moves focus forward, skipping the body-pattern field for verbs
// that carry no body.
func (f *MappingForm) NextField() {
	for {
		f.focus = (f.focus + 1) % fieldCount
		if f.fieldVisible(f.focus) {
			return
		}
	}
}

// PrevField moves focus backward.
func (f *MappingForm) PrevField() {
	for {
		f.focus = (f.focus - 1 + fieldCount) % fieldCount
		if f.fieldVisible(f.focus) {
			return
		}
	}
}

func (f *MappingForm) fieldVisible(field formField) bool {
	if field == fieldBodyPatterns {
		return f.ShowBodyPatterns()
	}
	return true
}

// ShowBodyPatterns reports whether the body-pattern editor applies to the
// selected method.
func (f *MappingForm) ShowBodyPatterns() bool {
	switch f.Method() {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// Method returns the selected HTTP method.
func (f *MappingForm) Method() string {
	return wiremock.HTTPMethods[f.methodIdx]
}

// Priority returns the selected priority value.
func (f *MappingForm) Priority() int { return f.priority }

// Persistent returns the persistent flag.
func (f *MappingForm) Persistent() bool { return f.persistent }

// URLPath returns the current path field value.
func (f *MappingForm) URLPath() string { return f.urlPath }

// CycleMethod steps through the HTTP verb set.
func (f *MappingForm) CycleMethod(delta int) {
	n := len(wiremock.HTTPMethods)
	f.methodIdx = (f.methodIdx + delta + n) % n
	if f.focus == fieldBodyPatterns && !f.ShowBodyPatterns() {
		f.focus = fieldStatus
	}
}

// CyclePriority steps through low/normal/high.
func (f *MappingForm) CyclePriority(delta int) {
	idx := 0
	for i, p := range priorities {
		if p == f.priority {
			idx = i
		}
	}
	n := len(priorities)
	f.priority = priorities[(idx+delta+n)%n]
}

// TogglePersistent flips the persistent flag.
func (f *MappingForm) TogglePersistent() {
	f.persistent = !f.persistent
}

// InsertRune appends a character to the active text field. Numeric fields
// accept digits only; method, priority and persistent are cycled, not
// typed.
func (f *MappingForm) InsertRune(r rune) {
	switch f.focus {
	case fieldName:
		f.name += string(r)
	case fieldURLPath:
		f.urlPath += string(r)
	case fieldStatus:
		if r >= '0' && r <= '9' {
			f.status += string(r)
		}
	case fieldDelay:
		if r >= '0' && r <= '9' {
			f.delay += string(r)
		}
	case fieldRespBody:
		f.respBody += string(r)
	case fieldReqHeaders:
		f.setJSONText(&f.reqHeadersText, f.reqHeadersText+string(r))
	case fieldQueryParams:
		f.setJSONText(&f.queryParamsText, f.queryParamsText+string(r))
	case fieldBodyPatterns:
		f.setJSONText(&f.bodyPatternsText, f.bodyPatternsText+string(r))
	case fieldRespHeaders:
		f.setJSONText(&f.respHeadersText, f.respHeadersText+string(r))
	}
}

// Backspace removes the last character of the active text field.
func (f *MappingForm) Backspace() {
	switch f.focus {
	case fieldName:
		f.name = chop(f.name)
	case fieldURLPath:
		f.urlPath = chop(f.urlPath)
	case fieldStatus:
		f.status = chop(f.status)
	case fieldDelay:
		f.delay = chop(f.delay)
	case fieldRespBody:
		f.respBody = chop(f.respBody)
	case fieldReqHeaders:
		f.setJSONText(&f.reqHeadersText, chop(f.reqHeadersText))
	case fieldQueryParams:
		f.setJSONText(&f.queryParamsText, chop(f.queryParamsText))
	case fieldBodyPatterns:
		f.setJSONText(&f.bodyPatternsText, chop(f.bodyPatternsText))
	case fieldRespHeaders:
		f.setJSONText(&f.respHeadersText, chop(f.respHeadersText))
	}
}

func chop(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}

// setJSONText stores the raw text and reparses it. Invalid JSON is
// silently ignored so the previous valid value survives in-progress edits.
func (f *MappingForm) setJSONText(dst *string, text string) {
	*dst = text
	switch dst {
	case &f.reqHeadersText:
		var m map[string]string
		if err := json.Unmarshal([]byte(text), &m); err == nil {
			f.reqHeaders = m
		}
	case &f.queryParamsText:
		var m map[string]string
		if err := json.Unmarshal([]byte(text), &m); err == nil {
			f.queryParams = m
		}
	case &f.bodyPatternsText:
		var p []wiremock.BodyPattern
		if err := json.Unmarshal([]byte(text), &p); err == nil {
			f.bodyPatterns = p
		}
	case &f.respHeadersText:
		var m map[string]string
		if err := json.Unmarshal([]byte(text), &m); err == nil {
			f.respHeaders = m
		}
	}
}

// Mapping builds the draft to submit: the base mapping (create mode: zero
// value) overlaid with every edited field. Fields the form does not expose
// are passed through from the base unmodified.
func (f *MappingForm) Mapping() wiremock.Mapping {
	m := f.base
	m.Name = f.name
	m.Priority = f.priority
	m.Persistent = f.persistent

	m.Request.Method = f.Method()
	m.Request.URLPath = f.urlPath
	m.Request.URL = "" // urlPath is the match target the form edits
	m.Request.Headers = f.reqHeaders
	m.Request.QueryParameters = f.queryParams
	m.Request.BodyPatterns = f.bodyPatterns

	m.Response.Status, _ = strconv.Atoi(f.status)
	m.Response.FixedDelayMilliseconds, _ = strconv.Atoi(f.delay)
	m.Response.Headers = f.respHeaders
	m.Response.Body = f.respBody
	return m
}

// fieldText returns the display text for a field, for rendering.
func (f *MappingForm) fieldText(field formField) string {
	switch field {
	case fieldName:
		return f.name
	case fieldMethod:
		return f.Method()
	case fieldURLPath:
		return f.urlPath
	case fieldPriority:
		return priorityLabel(f.priority)
	case fieldPersistent:
		if f.persistent {
			return "yes"
		}
		return "no"
	case fieldReqHeaders:
		return f.reqHeadersText
	case fieldQueryParams:
		return f.queryParamsText
	case fieldBodyPatterns:
		return f.bodyPatternsText
	case fieldStatus:
		return f.status
	case fieldDelay:
		return f.delay
	case fieldRespHeaders:
		return f.respHeadersText
	case fieldRespBody:
		return f.respBody
	}
	return ""
}

func priorityLabel(p int) string {
	switch p {
	case 1:
		return "1 (low)"
	case 5:
		return "5 (normal)"
	case 10:
		return "10 (high)"
	}
	return strconv.Itoa(p)
}
