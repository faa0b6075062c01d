package models

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// ParseSeverity validates a free-form severity string from the catalog.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(s), nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

type Status string

const (
	StatusOpen  Status = "OPEN"
	StatusClose Status = "CLOSE" // terminal, no reopen path
)

// Alert tracks one detected occurrence of a fault code through its
// open/close lifecycle. JSON field names match the operator UI contract.
type Alert struct {
	ID             string   `json:"id"`
	OpenedAt       string   `json:"openedAt"` // UTC, set at creation, immutable
	ClosedAt       string   `json:"closedAt"` // empty until CLOSE
	Status         Status   `json:"status"`
	Severity       Severity `json:"severity"`
	Category       string   `json:"category"`
	Detail         string   `json:"detail"`
	Name           string   `json:"name"`        // catalog tag name
	Description    string   `json:"description"` // catalog tag description
	ClosedBy       string   `json:"closedBy"`
	Comment        string   `json:"comment"`
	ConversationID string   `json:"conversation_id"`
	MeetingIDs     []string `json:"meetingIds"`
}

// AlertPatch is a sparse update: only non-nil fields are applied,
// absent fields are left untouched, never reset to empty.
type AlertPatch struct {
	Status         *Status
	ClosedAt       *string
	ClosedBy       *string
	Comment        *string
	ConversationID *string
}

// IsEmpty reports whether the patch would modify nothing.
func (p AlertPatch) IsEmpty() bool {
	return p.Status == nil && p.ClosedAt == nil && p.ClosedBy == nil &&
		p.Comment == nil && p.ConversationID == nil
}

// ClosePatch builds the patch applied by the close-alert convenience path.
func ClosePatch(closedAt, closedBy, comment string) AlertPatch {
	status := StatusClose
	return AlertPatch{
		Status:   &status,
		ClosedAt: &closedAt,
		ClosedBy: &closedBy,
		Comment:  &comment,
	}
}
