package store

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/events"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/id"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// Store holds all shared entities
type Store struct {
	mu    sync.RWMutex
	state state // Protected by mu
	bus   *events.Bus
	ids   *id.Generator
	now   func() time.Time
}

// New creates an empty store. bus may be nil when nobody listens.
func New(bus *events.Bus) *Store {
	return &Store{
		state: newState(),
		bus:   bus,
		ids:   id.Default(),
		now:   time.Now,
	}
}

// WithClock replaces the time source used for timestamps
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// WithIDGenerator replaces the ID generator
func (s *Store) WithIDGenerator(g *id.Generator) *Store {
	s.ids = g
	return s
}

// Bus returns the change feed the store publishes to
func (s *Store) Bus() *events.Bus {
	return s.bus
}

// Update runs fn against a private copy of the state and commits it
// only if fn succeeds. Updates are serialized.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	tx := &Tx{
		state: s.state.clone(),
		now:   s.now(),
		ids:   s.ids,
	}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = tx.state
	changes := tx.changes
	s.mu.Unlock()

	s.bus.Publish(changes...)
	return nil
}

// View runs fn against a read-only snapshot. Mutations made by fn are discarded.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	return fn(&Tx{state: snapshot, now: s.now(), ids: s.ids, readOnly: true})
}

// Contacts lists contacts in creation order
func (s *Store) Contacts() []types.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&Tx{state: s.state}).Contacts()
}

// Contact looks up a contact by ID
func (s *Store) Contact(contactID string) (types.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&Tx{state: s.state}).Contact(contactID)
}

// UpsertContact creates or updates a contact
func (s *Store) UpsertContact(ctx context.Context, c types.Contact) (types.Contact, error) {
	var out types.Contact
	err := s.Update(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.UpsertContact(c)
		return err
	})
	return out, err
}

// Conversation returns the conversation with a contact
func (s *Store) Conversation(contactID string) (types.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&Tx{state: s.state}).Conversation(contactID)
}

// Conversations lists conversations, most recently active first
func (s *Store) Conversations() []types.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&Tx{state: s.state}).Conversations()
}

// Emails lists the inbox, newest first
func (s *Store) Emails() []types.Email {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&Tx{state: s.state}).Emails()
}

// Transactions lists the ledger in append order
func (s *Store) Transactions() []types.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&Tx{state: s.state}).Transactions()
}

// AppendTransaction adds a ledger line
func (s *Store) AppendTransaction(ctx context.Context, t types.Transaction) (types.Transaction, error) {
	var out types.Transaction
	err := s.Update(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.AppendTransaction(t)
		return err
	})
	return out, err
}

// Cart lists cart items in the order they were added
func (s *Store) Cart() []types.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&Tx{state: s.state}).CartItems()
}

// CalendarEvents lists events by start time
func (s *Store) CalendarEvents() []types.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return (&Tx{state: s.state}).CalendarEvents()
}

// Ride returns the active ride record
func (s *Store) Ride() types.ActiveRide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ride
}

// SetActiveRide replaces the ride record, enforcing the ride lifecycle
func (s *Store) SetActiveRide(ctx context.Context, r types.ActiveRide) error {
	return s.Update(ctx, func(tx *Tx) error {
		return tx.SetActiveRide(r)
	})
}

// Player returns the music player state
func (s *Store) Player() types.MusicPlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.player
}

// Library lists the music library
func (s *Store) Library() []types.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Track(nil), s.state.library...)
}

// InstalledApps lists installed app IDs in install order
func (s *Store) InstalledApps() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.state.installedOrder...)
}

// IsInstalled reports whether appID was installed
func (s *Store) IsInstalled(appID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.state.installed[appID]
	return ok
}

// Snapshot is a point-in-time copy of every collection
type Snapshot struct {
	Contacts      []types.Contact       `json:"contacts"`
	Conversations []types.Conversation  `json:"conversations"`
	Emails        []types.Email         `json:"emails"`
	Transactions  []types.Transaction   `json:"transactions"`
	Cart          []types.CartItem      `json:"cart"`
	Calendar      []types.CalendarEvent `json:"calendar"`
	Ride          types.ActiveRide      `json:"ride"`
	Player        types.MusicPlayer     `json:"player"`
	Library       []types.Track         `json:"library"`
	InstalledApps []string              `json:"installed_apps"`
}

// Snapshot copies the whole store
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx := &Tx{state: s.state}
	return Snapshot{
		Contacts:      tx.Contacts(),
		Conversations: tx.Conversations(),
		Emails:        tx.Emails(),
		Transactions:  tx.Transactions(),
		Cart:          tx.CartItems(),
		Calendar:      tx.CalendarEvents(),
		Ride:          s.state.ride,
		Player:        s.state.player,
		Library:       append([]types.Track(nil), s.state.library...),
		InstalledApps: append([]string(nil), s.state.installedOrder...),
	}
}
