package model

import "fmt"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeveritySuccess, SeverityInfo, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

// Notification is a transient user-facing message.
type Notification struct {
	Message  string
	Severity Severity
}

func Notify(sev Severity, format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), Severity: sev}
}
