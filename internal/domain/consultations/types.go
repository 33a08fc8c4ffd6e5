package consultations

import "strings"

// Kind es el tipo de consulta. VIDEO_CALL es solo una etiqueta sobre el
// registro: acá no hay transporte de media.
type Kind string

const (
	KindChat      Kind = "CHAT"
	KindVideoCall Kind = "VIDEO_CALL"
)

// ParseKind acepta el tipo sin distinguir mayúsculas (el cliente manda
// "chat" y se guarda "CHAT").
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindChat:
		return KindChat, true
	case KindVideoCall:
		return KindVideoCall, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal indica si desde este estado no hay más transiciones.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled:
		return true
	case StatusPending, StatusActive:
		return false
	default:
		return false
	}
}
