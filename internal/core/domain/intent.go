package domain

// Intent is the routing decision for a visitor query.
type Intent string

const (
	// IntentSearch sends the query through the index.
	IntentSearch Intent = "search"

	// IntentEscalate sends the query to a human contact.
	IntentEscalate Intent = "escalate"
)

// MentorContact is a contact number resolved from page signals.
// It is recomputed for every escalation and never persisted.
type MentorContact struct {
	// Digits is the phone number with every non-digit removed.
	Digits string `json:"digits"`
}

// DefaultEscalationMessage is prefilled into the messaging deep link.
const DefaultEscalationMessage = "Hello, I am visiting the website and want to connect with the mentor."

// DefaultContactAttribute is the <body> attribute site authors set to publish a contact number.
const DefaultContactAttribute = "data-mentor-phone"
