package types

// SendMessageRequest is the body of a message send
type SendMessageRequest struct {
	Text     string `json:"text" validate:"required_without=ImageRef,max=16384"`
	ImageRef string `json:"image_ref,omitempty"`
}

// AddToCartRequest is the body of an add-to-cart action
type AddToCartRequest struct {
	ProductID string  `json:"product_id" validate:"required,max=128"`
	Title     string  `json:"title" validate:"max=256"`
	Price     float64 `json:"price"`
	Store     string  `json:"store" validate:"required,max=128"`
	ImageRef  string  `json:"image_ref,omitempty"`
}

// ShareItineraryRequest shares a calendar event or free text with a contact
type ShareItineraryRequest struct {
	ContactID string `json:"contact_id" validate:"required"`
	EventID   string `json:"event_id,omitempty"`
	Text      string `json:"text,omitempty" validate:"required_without=EventID,max=16384"`
}

// OpenAppRequest is the app-open surface; a nil AppID means home
type OpenAppRequest struct {
	AppID *string `json:"app_id"`
}

// PaginateRequest moves the home grid by Delta pages
type PaginateRequest struct {
	Delta int `json:"delta"`
}

// WSMessage is a frame sent on the change stream
type WSMessage struct {
	Type      string      `json:"type"`
	Kind      string      `json:"kind,omitempty"`
	Entity    string      `json:"entity,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp"`
}
