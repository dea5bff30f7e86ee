/*
Package tui implements the terminal console for a WireMock-compatible
mock server.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Model struct, Mode enum, Update loop and message types
  - keys.go: Keyboard input handling per mode
  - render.go: View rendering for lists, form, detail views and status bar
  - actions.go: Side effects as tea.Cmd closures (admin API calls,
    clipboard, browser)
  - router.go: Declarative path-to-view table used by --open

# State Management

Remote data (mappings, requests, loading/error flags) lives in the
store package and only changes through dispatched actions. Everything
view-local is kept in focused state objects:
  - MappingsViewState: cursor, page and row selection for the stub list
  - RequestsViewState: cursor, page, journal filter and copy detection
  - MappingForm: create/edit form fields with JSON-typed text
  - ConnectivityState: health probe tracking

Store dispatches happen exclusively inside Update, on the program
goroutine. Command goroutines only perform I/O and return messages.
Each collection load carries a sequence number so a stale response can
never overwrite a newer one.

# Threading Model

The TUI runs in a single goroutine (Bubble Tea's event loop) and spawns
goroutines through tea.Cmd for:
  - Admin API calls (load, save, delete, clear, health probe)
  - Clipboard writes
  - Browser launches

# Example Usage

	if err := tui.Run("/"); err != nil {
		log.Fatal(err)
	}
*/
package tui
