package generation

import (
	"context"
	"hash/fnv"
	"strings"
)

var cannedReplies = map[string][]string{
	"family": {
		"Love you! Call me later?",
		"Did you eat today?",
		"Ok sweetie. Drive safe.",
	},
	"coworker": {
		"Sounds good, let's sync tomorrow.",
		"Thanks! I'll take a look.",
		"Can we push that to Thursday?",
	},
	"": {
		"haha yes!",
		"omw",
		"Sounds good to me",
		"wait really?",
		"lol ok",
	},
}

// Canned is an offline generator with deterministic replies
type Canned struct{}

// NewCanned creates the offline generator
func NewCanned() *Canned {
	return &Canned{}
}

// GenerateReply picks a stock reply for the persona's relationship
func (Canned) GenerateReply(ctx context.Context, topic string, persona Persona) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	pool, ok := cannedReplies[strings.ToLower(persona.Relationship)]
	if !ok {
		pool = cannedReplies[""]
	}
	return pool[pick(topic+persona.Name, len(pool))], nil
}

// GenerateImage returns a stable placeholder reference for prompt
func (Canned) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "canned://image/" + slug(prompt), nil
}

func pick(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= 48 {
			break
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "untitled"
	}
	return out
}
