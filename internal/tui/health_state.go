package tui

import "time"

// healthInterval is how often the server is probed.
const healthInterval = 5 * time.Second

// ConnStatus is the connectivity indicator state.
type ConnStatus int

const (
	ConnChecking ConnStatus = iota
	ConnConnected
	ConnDisconnected
)

// ConnectivityState tracks the health of the remote server. Probes run on a
// fixed interval and on manual trigger; a probe failure only flips the
// indicator, it is never surfaced as an error.
type ConnectivityState struct {
	status  ConnStatus
	probing bool
}

// NewConnectivityState starts in the checking state, matching the initial
// probe that runs on startup.
func NewConnectivityState() *ConnectivityState {
	return &ConnectivityState{status: ConnChecking}
}

// Status returns the current indicator state.
func (s *ConnectivityState) Status() ConnStatus {
	return s.status
}

// Probing reports whether a probe is in flight.
func (s *ConnectivityState) Probing() bool {
	return s.probing
}

// BeginProbe marks a probe as started; the indicator shows checking for the
// probe's duration.
func (s *ConnectivityState) BeginProbe() {
	s.probing = true
	s.status = ConnChecking
}

// Resolve records a probe result.
func (s *ConnectivityState) Resolve(connected bool) {
	s.probing = false
	if connected {
		s.status = ConnConnected
	} else {
		s.status = ConnDisconnected
	}
}
