package types

import "time"

// Contact is a person the simulated phone knows about
type Contact struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required,max=256"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Relationship string `json:"relationship,omitempty"`
	Favorite     bool   `json:"favorite"`
	AvatarRef    string `json:"avatar_ref,omitempty"`
}

// Message is a single chat bubble. Messages are never edited or reordered.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text,omitempty"`
	ImageRef  string    `json:"image_ref,omitempty"`
	FromSelf  bool      `json:"from_self"`
	System    bool      `json:"system"`
	CreatedAt time.Time `json:"created_at"`
}

// Empty reports whether the message carries neither text nor image
func (m Message) Empty() bool {
	return m.Text == "" && m.ImageRef == ""
}

// Conversation is the one thread belonging to a contact
type Conversation struct {
	ContactID string    `json:"contact_id"`
	Messages  []Message `json:"messages"`
	Unread    bool      `json:"unread"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no slice backing array with c
func (c Conversation) Clone() Conversation {
	out := c
	out.Messages = append([]Message(nil), c.Messages...)
	return out
}

// Last returns the most recent message, if any
func (c Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Email is an inbox entry in the Mail app
type Email struct {
	ID         string    `json:"id"`
	Sender     string    `json:"sender" validate:"required"`
	Subject    string    `json:"subject"`
	Preview    string    `json:"preview"`
	Body       string    `json:"body,omitempty"`
	Unread     bool      `json:"unread"`
	ReceivedAt time.Time `json:"received_at"`
}
