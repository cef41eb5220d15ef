package quote

// Status is the lifecycle state of a quote.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusViewed   Status = "viewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusDraft, StatusSent, StatusViewed, StatusAccepted, StatusRejected, StatusExpired}

var statusLabels = map[Status]string{
	StatusDraft:    "Brouillon",
	StatusSent:     "Envoyé",
	StatusViewed:   "Consulté",
	StatusAccepted: "Accepté",
	StatusRejected: "Refusé",
	StatusExpired:  "Expiré",
}

// StatusLabel returns the French display label, or the raw value for unknown statuses.
func StatusLabel(s Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Label is shorthand for StatusLabel(s).
func (s Status) Label() string { return StatusLabel(s) }

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ParseStatus accepts a status value or its French label.
func ParseStatus(v string) (Status, bool) {
	s := Status(v)
	if s.Valid() {
		return s, true
	}
	for status, label := range statusLabels {
		if label == v {
			return status, true
		}
	}
	return "", false
}

// DiscountType selects how discount_value applies.
type DiscountType string

const (
	DiscountNone    DiscountType = ""
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// Label returns the French description of the discount type.
func (t DiscountType) Label() string {
	switch t {
	case DiscountPercent:
		return "Pourcentage (%)"
	case DiscountFixed:
		return "Montant fixe (€)"
	default:
		return "Aucune remise"
	}
}
