// Package id provides prefixed ULID generation for PhoneSim entities.
//
// IDs are lexicographically sortable by creation time, so insertion order
// of messages and ledger lines can be recovered from the ID alone. Each
// entity kind carries its own prefix (msg_, txn_, cart_...) which keeps
// logs readable and makes cross-kind mixups obvious.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefix names one entity namespace
type Prefix string

const (
	Contact     Prefix = "ct"
	Message     Prefix = "msg"
	Email       Prefix = "mail"
	Transaction Prefix = "txn"
	CartItem    Prefix = "cart"
	Event       Prefix = "evt"
	Track       Prefix = "trk"
	Task        Prefix = "task"
)

// Generator produces monotonic ULIDs
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand.
// Monotonic entropy keeps IDs minted within the same millisecond ordered.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source and clock.
// Useful for tests that need reproducible IDs.
func NewGeneratorWithEntropy(entropy io.Reader, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{entropy: entropy, now: now}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// New creates a prefixed ID such as "msg_01HZX..."
func (g *Generator) New(p Prefix) string {
	return fmt.Sprintf("%s_%s", p, g.Generate().String())
}

// Split separates a prefixed ID into prefix and ULID parts
func Split(id string) (Prefix, string, bool) {
	prefix, rest, ok := strings.Cut(id, "_")
	if !ok {
		return "", "", false
	}
	return Prefix(prefix), rest, true
}

// HasPrefix reports whether id belongs to namespace p
func HasPrefix(id string, p Prefix) bool {
	got, _, ok := Split(id)
	return ok && got == p
}

