package events

import "time"

// Change kinds. Subscribers filter by prefix, e.g. "conversation." or "ride.".
const (
	ContactCreated       = "contact.created"
	ConversationCreated  = "conversation.created"
	ConversationAppended = "conversation.appended"
	ConversationRead     = "conversation.read"
	EmailUpdated         = "email.updated"
	EmailDeleted         = "email.deleted"
	LedgerAppended       = "ledger.appended"
	CartAdded            = "cart.added"
	CartRemoved          = "cart.removed"
	CalendarUpserted     = "calendar.upserted"
	CalendarDeleted      = "calendar.deleted"
	RideChanged          = "ride.changed"
	MusicChanged         = "music.changed"
	AppInstalled         = "apps.installed"
	NavigationChanged    = "nav.changed"
)

// Change is one committed mutation
type Change struct {
	Kind      string      `json:"kind"`
	EntityID  string      `json:"entity_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
