package generation

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrEmptyReply is returned when the service answers with nothing usable
var ErrEmptyReply = errors.New("generation: empty reply")

// Persona describes who is replying
type Persona struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
}

// Generator produces replies and images
type Generator interface {
	// GenerateReply answers topic (the last outgoing message) in persona's voice
	GenerateReply(ctx context.Context, topic string, persona Persona) (string, error)
	// GenerateImage returns a reference to an image matching prompt
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// textPolicy strips every tag; replies are plain chat text
var textPolicy = bluemonday.StrictPolicy()

// CleanText removes markup and surrounding whitespace from generated text.
// The policy escapes entities, which are decoded again for display as chat text.
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// WantsImage reports whether an outgoing message asks for a picture
func WantsImage(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range []string{"send a pic", "send me a pic", "send a photo", "send me a photo", "picture of", "photo of", "selfie"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
