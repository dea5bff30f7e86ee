package tui

import "github.com/charmbracelet/lipgloss"

// Severity is the display class a badge renders with.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeveritySuccess
	SeverityInfo
	SeverityWarning
	SeverityError
)

// MethodSeverity classifies an HTTP method for badge coloring.
func MethodSeverity(method string) Severity {
	switch method {
	case "GET":
		return SeveritySuccess
	case "POST", "PATCH":
		return SeverityInfo
	case "PUT":
		return SeverityWarning
	case "DELETE":
		return SeverityError
	default:
		return SeverityNeutral
	}
}

// StatusSeverity classifies a response status code for badge coloring.
func StatusSeverity(status int) Severity {
	switch {
	case status >= 200 && status < 300:
		return SeveritySuccess
	case status >= 400 && status < 500:
		return SeverityWarning
	case status >= 500 && status < 600:
		return SeverityError
	default:
		return SeverityInfo
	}
}

func severityStyle(s Severity) lipgloss.Style {
	switch s {
	case SeveritySuccess:
		return styleSuccess
	case SeverityInfo:
		return styleInfo
	case SeverityWarning:
		return styleWarning
	case SeverityError:
		return styleError
	default:
		return styleSubtle
	}
}

// methodBadge renders a method name in its severity color, padded to a
// fixed width so table columns line up.
func methodBadge(method string) string {
	return severityStyle(MethodSeverity(method)).Width(7).Render(method)
}

// statusBadge renders a status code in its severity color.
func statusBadge(status int) string {
	return severityStyle(StatusSeverity(status)).Render(formatStatus(status))
}
