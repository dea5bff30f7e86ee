package wiremock

import "time"

// HTTPMethods is the fixed verb set offered by the mapping form.
var HTTPMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// RequestPattern describes the inbound request a mapping matches.
// Exactly one of URL or URLPath is meaningful per mapping.
type RequestPattern struct {
	Method          string            `json:"method"`
	URL             string            `json:"url,omitempty"`
	URLPath         string            `json:"urlPath,omitempty"`
	URLPathPattern  string            `json:"urlPathPattern,omitempty"`
	URLPattern      string            `json:"urlPattern,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	QueryParameters map[string]string `json:"queryParameters,omitempty"`
	BodyPatterns    []BodyPattern     `json:"bodyPatterns,omitempty"`
}

// BodyPattern is a single body matcher, e.g. {"equalTo": "..."}.
type BodyPattern struct {
	EqualTo         string `json:"equalTo,omitempty"`
	EqualToJSON     string `json:"equalToJson,omitempty"`
	Contains        string `json:"contains,omitempty"`
	Matches         string `json:"matches,omitempty"`
	CaseInsensitive bool   `json:"caseInsensitive,omitempty"`
}

// ResponseDefinition is the canned response returned on a match.
type ResponseDefinition struct {
	Status                 int               `json:"status"`
	StatusMessage          string            `json:"statusMessage,omitempty"`
	Headers                map[string]string `json:"headers,omitempty"`
	Body                   string            `json:"body,omitempty"`
	JSONBody               any               `json:"jsonBody,omitempty"`
	Base64Body             string            `json:"base64Body,omitempty"`
	BodyFileName           string            `json:"bodyFileName,omitempty"`
	FixedDelayMilliseconds int               `json:"fixedDelayMilliseconds,omitempty"`
	Fault                  string            `json:"fault,omitempty"`
}

// Mapping is a request-matching rule plus the response to return when it
// matches. A Mapping with an empty ID is a draft that has never been
// persisted; the server assigns the ID on create.
type Mapping struct {
	ID                    string             `json:"id,omitempty"`
	UUID                  string             `json:"uuid,omitempty"`
	Name                  string             `json:"name,omitempty"`
	Request               RequestPattern     `json:"request"`
	Response              ResponseDefinition `json:"response"`
	Persistent            bool               `json:"persistent,omitempty"`
	Priority              int                `json:"priority,omitempty"`
	ScenarioName          string             `json:"scenarioName,omitempty"`
	RequiredScenarioState string             `json:"requiredScenarioState,omitempty"`
	NewScenarioState      string             `json:"newScenarioState,omitempty"`
	Metadata              map[string]any     `json:"metadata,omitempty"`
}

// MatchTarget returns whichever of urlPath/url is set for display purposes.
func (m Mapping) MatchTarget() string {
	if m.Request.URLPath != "" {
		return m.Request.URLPath
	}
	return m.Request.URL
}

// LoggedRequest is the request half of a journal entry.
type LoggedRequest struct {
	URL              string            `json:"url"`
	AbsoluteURL      string            `json:"absoluteUrl"`
	Method           string            `json:"method"`
	ClientIP         string            `json:"clientIp"`
	Headers          map[string]string `json:"headers"`
	Cookies          map[string]string `json:"cookies"`
	Body             string            `json:"body"`
	LoggedDate       int64             `json:"loggedDate"`
	LoggedDateString string            `json:"loggedDateString,omitempty"`
}

// LoggedTime converts the epoch-millisecond timestamp to time.Time.
func (r LoggedRequest) LoggedTime() time.Time {
	return time.UnixMilli(r.LoggedDate)
}

// ServedResponse summarizes how the server answered a logged request.
type ServedResponse struct {
	Status             int  `json:"status"`
	FromConfiguredStub bool `json:"fromConfiguredStub"`
}

// RequestLogEntry is an immutable record of one request the mock server
// received and answered. The client only reads, lists and clears these.
type RequestLogEntry struct {
	ID                 string         `json:"id"`
	Request            LoggedRequest  `json:"request"`
	ResponseDefinition ServedResponse `json:"responseDefinition"`
}

// Meta carries the collection totals returned alongside list responses.
type Meta struct {
	Total int `json:"total"`
}

// MappingsResponse is the envelope returned by GET /__admin/mappings.
type MappingsResponse struct {
	Mappings []Mapping `json:"mappings"`
	Meta     Meta      `json:"meta"`
}

// RequestsResponse is the envelope returned by GET /__admin/requests.
type RequestsResponse struct {
	Requests []RequestLogEntry `json:"requests"`
	Meta     Meta              `json:"meta"`
}
