package store

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/events"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/id"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/utils"
)

// ErrReadOnly is returned when a View callback tries to mutate
var ErrReadOnly = errors.New("store: read-only transaction")

// Tx is the working copy handed to Update and View callbacks
type Tx struct {
	state    state
	changes  []events.Change
	now      time.Time
	ids      *id.Generator
	readOnly bool
}

// Now is the timestamp shared by every mutation in this transaction
func (tx *Tx) Now() time.Time {
	return tx.now
}

func (tx *Tx) guard() error {
	if tx.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (tx *Tx) record(kind, entityID string, payload interface{}) {
	tx.changes = append(tx.changes, events.Change{
		Kind:      kind,
		EntityID:  entityID,
		Payload:   payload,
		Timestamp: tx.now,
	})
}

// ----------------------------------------------------------------------------
// Contacts
// ----------------------------------------------------------------------------

// Contacts lists contacts in creation order
func (tx *Tx) Contacts() []types.Contact {
	out := make([]types.Contact, 0, len(tx.state.contactOrder))
	for _, cid := range tx.state.contactOrder {
		out = append(out, tx.state.contacts[cid])
	}
	return out
}

// Contact looks up a contact by ID
func (tx *Tx) Contact(contactID string) (types.Contact, bool) {
	c, ok := tx.state.contacts[contactID]
	return c, ok
}

// ContactByName finds a contact by case-insensitive name
func (tx *Tx) ContactByName(name string) (types.Contact, bool) {
	want := strings.TrimSpace(name)
	for _, cid := range tx.state.contactOrder {
		c := tx.state.contacts[cid]
		if strings.EqualFold(c.Name, want) {
			return c, true
		}
	}
	return types.Contact{}, false
}

// UpsertContact creates a contact (assigning an ID when empty) or replaces
// the display fields of an existing one
func (tx *Tx) UpsertContact(c types.Contact) (types.Contact, error) {
	if err := tx.guard(); err != nil {
		return types.Contact{}, err
	}
	c.Name = strings.TrimSpace(c.Name)
	if err := utils.ValidateStruct(c); err != nil {
		return types.Contact{}, err
	}

	if c.ID == "" {
		c.ID = tx.ids.New(id.Contact)
	}
	if _, exists := tx.state.contacts[c.ID]; !exists {
		tx.state.contactOrder = append(tx.state.contactOrder, c.ID)
		tx.record(events.ContactCreated, c.ID, c)
	}
	tx.state.contacts[c.ID] = c
	return c, nil
}

// EnsureContactByName returns the contact with that name, creating it when
// nobody matches. created reports whether a new contact was made.
func (tx *Tx) EnsureContactByName(name string) (c types.Contact, created bool, err error) {
	if existing, ok := tx.ContactByName(name); ok {
		return existing, false, nil
	}
	c, err = tx.UpsertContact(types.Contact{Name: name})
	return c, err == nil, err
}

// ----------------------------------------------------------------------------
// Conversations
// ----------------------------------------------------------------------------

// Conversation returns the thread with a contact
func (tx *Tx) Conversation(contactID string) (types.Conversation, bool) {
	c, ok := tx.state.conversations[contactID]
	if !ok {
		return types.Conversation{}, false
	}
	return c.Clone(), true
}

// Conversations lists threads, most recently active first
func (tx *Tx) Conversations() []types.Conversation {
	out := make([]types.Conversation, 0, len(tx.state.conversations))
	for _, c := range tx.state.conversations {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ContactID < out[j].ContactID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// EnsureConversation returns the contact's conversation, creating it on
// first use. At most one conversation exists per contact.
func (tx *Tx) EnsureConversation(contactID string) (types.Conversation, bool, error) {
	if err := tx.guard(); err != nil {
		return types.Conversation{}, false, err
	}
	if _, ok := tx.state.contacts[contactID]; !ok {
		return types.Conversation{}, false, &types.NotFoundError{Kind: "contact", ID: contactID}
	}
	if conv, ok := tx.state.conversations[contactID]; ok {
		return conv.Clone(), false, nil
	}

	conv := types.Conversation{ContactID: contactID, Messages: []types.Message{}, UpdatedAt: tx.now}
	tx.state.conversations[contactID] = conv
	tx.record(events.ConversationCreated, contactID, nil)
	return conv.Clone(), true, nil
}

// AppendMessage appends msg to the contact's conversation. ID and
// CreatedAt are assigned here.
func (tx *Tx) AppendMessage(contactID string, msg types.Message) (types.Message, error) {
	if msg.Empty() {
		return types.Message{}, &types.ValidationError{Field: "message", Reason: "needs text or an image"}
	}
	if _, _, err := tx.EnsureConversation(contactID); err != nil {
		return types.Message{}, err
	}

	msg.ID = tx.ids.New(id.Message)
	msg.CreatedAt = tx.now

	conv := tx.state.conversations[contactID]
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = tx.now
	tx.state.conversations[contactID] = conv

	tx.record(events.ConversationAppended, contactID, msg)
	return msg, nil
}

// SetUnread sets the conversation's unread flag
func (tx *Tx) SetUnread(contactID string, unread bool) error {
	if err := tx.guard(); err != nil {
		return err
	}
	conv, ok := tx.state.conversations[contactID]
	if !ok {
		return &types.NotFoundError{Kind: "conversation", ID: contactID}
	}
	if conv.Unread == unread {
		return nil
	}
	conv.Unread = unread
	tx.state.conversations[contactID] = conv
	if !unread {
		tx.record(events.ConversationRead, contactID, nil)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Mail
// ----------------------------------------------------------------------------

// Emails lists the inbox, newest first
func (tx *Tx) Emails() []types.Email {
	out := make([]types.Email, 0, len(tx.state.emails))
	for _, e := range tx.state.emails {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	return out
}

// Email looks up an email by ID
func (tx *Tx) Email(emailID string) (types.Email, bool) {
	e, ok := tx.state.emails[emailID]
	return e, ok
}

// UpsertEmail stores an email, assigning ID and ReceivedAt when missing
func (tx *Tx) UpsertEmail(e types.Email) (types.Email, error) {
	if err := tx.guard(); err != nil {
		return types.Email{}, err
	}
	if err := utils.ValidateStruct(e); err != nil {
		return types.Email{}, err
	}
	if e.ID == "" {
		e.ID = tx.ids.New(id.Email)
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = tx.now
	}
	tx.state.emails[e.ID] = e
	tx.record(events.EmailUpdated, e.ID, e)
	return e, nil
}

// SetEmailUnread flips the unread flag of an email
func (tx *Tx) SetEmailUnread(emailID string, unread bool) error {
	if err := tx.guard(); err != nil {
		return err
	}
	e, ok := tx.state.emails[emailID]
	if !ok {
		return &types.NotFoundError{Kind: "email", ID: emailID}
	}
	if e.Unread == unread {
		return nil
	}
	e.Unread = unread
	tx.state.emails[emailID] = e
	tx.record(events.EmailUpdated, emailID, e)
	return nil
}

// RemoveEmail deletes an email
func (tx *Tx) RemoveEmail(emailID string) error {
	if err := tx.guard(); err != nil {
		return err
	}
	if _, ok := tx.state.emails[emailID]; !ok {
		return &types.NotFoundError{Kind: "email", ID: emailID}
	}
	delete(tx.state.emails, emailID)
	tx.record(events.EmailDeleted, emailID, nil)
	return nil
}

// ----------------------------------------------------------------------------
// Ledger
// ----------------------------------------------------------------------------

// Transactions lists the ledger in append order
func (tx *Tx) Transactions() []types.Transaction {
	return append([]types.Transaction(nil), tx.state.ledger...)
}

// AppendTransaction validates and appends a ledger line. The ledger is
// append-only: lines are never edited or removed.
func (tx *Tx) AppendTransaction(t types.Transaction) (types.Transaction, error) {
	if err := tx.guard(); err != nil {
		return types.Transaction{}, err
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return types.Transaction{}, &types.ValidationError{Field: "merchant", Reason: "is required"}
	}
	if t.Amount.IsZero() {
		return types.Transaction{}, &types.ValidationError{Field: "amount", Reason: "must not be zero"}
	}

	t.ID = tx.ids.New(id.Transaction)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = tx.now
	}
	if t.Account == "" {
		t.Account = types.DefaultAccount
	}
	tx.state.ledger = append(tx.state.ledger, t)
	tx.record(events.LedgerAppended, t.ID, t)
	return t, nil
}

// ----------------------------------------------------------------------------
// Cart
// ----------------------------------------------------------------------------

// CartItems lists the cart in insertion order
func (tx *Tx) CartItems() []types.CartItem {
	return append([]types.CartItem(nil), tx.state.cart...)
}

// CartItem looks up a cart line by ID
func (tx *Tx) CartItem(itemID string) (types.CartItem, bool) {
	for _, item := range tx.state.cart {
		if item.ID == itemID {
			return item, true
		}
	}
	return types.CartItem{}, false
}

// AddCartItem appends a product to the cart
func (tx *Tx) AddCartItem(item types.CartItem) (types.CartItem, error) {
	if err := tx.guard(); err != nil {
		return types.CartItem{}, err
	}
	if err := utils.ValidateStruct(item); err != nil {
		return types.CartItem{}, err
	}
	if item.Price.IsNegative() {
		return types.CartItem{}, &types.ValidationError{Field: "price", Reason: "must not be negative"}
	}

	item.ID = tx.ids.New(id.CartItem)
	item.AddedAt = tx.now
	tx.state.cart = append(tx.state.cart, item)
	tx.record(events.CartAdded, item.ID, item)
	return item, nil
}

// RemoveCartItem removes and returns a cart line
func (tx *Tx) RemoveCartItem(itemID string) (types.CartItem, error) {
	if err := tx.guard(); err != nil {
		return types.CartItem{}, err
	}
	for i, item := range tx.state.cart {
		if item.ID != itemID {
			continue
		}
		tx.state.cart = append(tx.state.cart[:i:i], tx.state.cart[i+1:]...)
		tx.record(events.CartRemoved, itemID, item)
		return item, nil
	}
	return types.CartItem{}, &types.NotFoundError{Kind: "cart item", ID: itemID}
}

// ----------------------------------------------------------------------------
// Calendar
// ----------------------------------------------------------------------------

// CalendarEvents lists events by start time
func (tx *Tx) CalendarEvents() []types.CalendarEvent {
	out := make([]types.CalendarEvent, 0, len(tx.state.calendar))
	for _, e := range tx.state.calendar {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// CalendarEvent looks up an event by ID
func (tx *Tx) CalendarEvent(eventID string) (types.CalendarEvent, bool) {
	e, ok := tx.state.calendar[eventID]
	if !ok {
		return types.CalendarEvent{}, false
	}
	return e.Clone(), true
}

// UpsertCalendarEvent creates or edits an event
func (tx *Tx) UpsertCalendarEvent(e types.CalendarEvent) (types.CalendarEvent, error) {
	if err := tx.guard(); err != nil {
		return types.CalendarEvent{}, err
	}
	if err := utils.ValidateStruct(e); err != nil {
		return types.CalendarEvent{}, err
	}
	if e.ID == "" {
		e.ID = tx.ids.New(id.Event)
	}
	e = e.Clone()
	tx.state.calendar[e.ID] = e
	tx.record(events.CalendarUpserted, e.ID, e)
	return e, nil
}

// RemoveCalendarEvent deletes an event
func (tx *Tx) RemoveCalendarEvent(eventID string) error {
	if err := tx.guard(); err != nil {
		return err
	}
	if _, ok := tx.state.calendar[eventID]; !ok {
		return &types.NotFoundError{Kind: "calendar event", ID: eventID}
	}
	delete(tx.state.calendar, eventID)
	tx.record(events.CalendarDeleted, eventID, nil)
	return nil
}

// ----------------------------------------------------------------------------
// Ride
// ----------------------------------------------------------------------------

// Ride returns the active ride record
func (tx *Tx) Ride() types.ActiveRide {
	return tx.state.ride
}

// SetActiveRide replaces the whole ride record. A status change must follow
// the ride lifecycle and the attempt counter never goes backwards.
func (tx *Tx) SetActiveRide(r types.ActiveRide) error {
	if err := tx.guard(); err != nil {
		return err
	}
	cur := tx.state.ride
	if r.Status == "" {
		r.Status = types.RideIdle
	}
	if r.Status != cur.Status && !types.CanTransition(cur.Status, r.Status) {
		return &types.ValidationError{
			Field:  "status",
			Reason: "cannot move ride from " + string(cur.Status) + " to " + string(r.Status),
		}
	}
	if r.Attempt < cur.Attempt {
		return &types.ValidationError{Field: "attempt", Reason: "must not decrease"}
	}

	tx.state.ride = r
	tx.record(events.RideChanged, "", r)
	return nil
}

// AdvanceRide moves the ride one step along its lifecycle. The ride must
// currently be in from; anything else is a ConflictError.
func (tx *Tx) AdvanceRide(from, to types.RideStatus) (types.ActiveRide, error) {
	if err := tx.guard(); err != nil {
		return types.ActiveRide{}, err
	}
	ride := tx.state.ride
	if ride.Status != from {
		return ride, &types.ConflictError{Reason: "ride is " + string(ride.Status) + ", not " + string(from)}
	}
	ride.Status = to
	if err := tx.SetActiveRide(ride); err != nil {
		return tx.state.ride, err
	}
	return ride, nil
}

// ----------------------------------------------------------------------------
// Music
// ----------------------------------------------------------------------------

// Player returns the now-playing state
func (tx *Tx) Player() types.MusicPlayer {
	return tx.state.player
}

// Library lists the music library
func (tx *Tx) Library() []types.Track {
	return append([]types.Track(nil), tx.state.library...)
}

// Track looks up a library track
func (tx *Tx) Track(trackID string) (types.Track, bool) {
	for _, t := range tx.state.library {
		if t.ID == trackID {
			return t, true
		}
	}
	return types.Track{}, false
}

// SetPlayer replaces the now-playing state
func (tx *Tx) SetPlayer(p types.MusicPlayer) error {
	if err := tx.guard(); err != nil {
		return err
	}
	if p.PositionSec < 0 {
		return &types.ValidationError{Field: "position_sec", Reason: "must not be negative"}
	}
	tx.state.player = p
	tx.record(events.MusicChanged, p.TrackID, p)
	return nil
}

// AddTrack appends a track to the library
func (tx *Tx) AddTrack(t types.Track) (types.Track, error) {
	if err := tx.guard(); err != nil {
		return types.Track{}, err
	}
	if err := utils.ValidateName(t.Title, "title"); err != nil {
		return types.Track{}, err
	}
	if t.ID == "" {
		t.ID = tx.ids.New(id.Track)
	}
	tx.state.library = append(tx.state.library, t)
	return t, nil
}

// ----------------------------------------------------------------------------
// Installed apps
// ----------------------------------------------------------------------------

// InstalledApps lists installed app IDs in install order
func (tx *Tx) InstalledApps() []string {
	return append([]string(nil), tx.state.installedOrder...)
}

// IsInstalled reports whether appID is installed
func (tx *Tx) IsInstalled(appID string) bool {
	_, ok := tx.state.installed[appID]
	return ok
}

// Install adds appID to the installed set. Installing twice is a no-op;
// added reports whether the set grew.
func (tx *Tx) Install(appID string) (added bool, err error) {
	if err := tx.guard(); err != nil {
		return false, err
	}
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		return false, err
	}
	if _, ok := tx.state.installed[appID]; ok {
		return false, nil
	}
	tx.state.installed[appID] = struct{}{}
	tx.state.installedOrder = append(tx.state.installedOrder, appID)
	tx.record(events.AppInstalled, appID, nil)
	return true, nil
}
