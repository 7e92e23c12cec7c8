package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/events"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/id"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(events.NewBus())
	_, err := s.UpsertContact(context.Background(), types.Contact{ID: "alice", Name: "Alice"})
	require.NoError(t, err)
	return s
}

func TestConversationLookupOrCreateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := s.Update(ctx, func(tx *Tx) error {
			_, err := tx.AppendMessage("alice", types.Message{Text: "hi", FromSelf: true})
			return err
		})
		require.NoError(t, err)
	}

	convs := s.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, "alice", convs[0].ContactID)
	assert.Len(t, convs[0].Messages, 3)
}

func TestConcurrentFirstMessagesShareOneConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, func(tx *Tx) error {
				_, err := tx.AppendMessage("alice", types.Message{Text: "race", FromSelf: true})
				return err
			})
		}()
	}
	wg.Wait()

	require.Len(t, s.Conversations(), 1)
	conv, ok := s.Conversation("alice")
	require.True(t, ok)
	assert.Len(t, conv.Messages, 20)
}

func TestAppendMessageUnknownContact(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(context.Background(), func(tx *Tx) error {
		_, err := tx.AppendMessage("ghost", types.Message{Text: "boo"})
		return err
	})

	assert.True(t, types.IsNotFound(err))
	assert.Empty(t, s.Conversations())
}

func TestMessagesKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	texts := []string{"one", "two", "three"}

	for _, txt := range texts {
		require.NoError(t, s.Update(ctx, func(tx *Tx) error {
			_, err := tx.AppendMessage("alice", types.Message{Text: txt})
			return err
		}))
	}

	conv, _ := s.Conversation("alice")
	for i, msg := range conv.Messages {
		assert.Equal(t, texts[i], msg.Text)
		assert.NotEmpty(t, msg.ID)
	}
}

func TestAppendTransactionValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		txn     types.Transaction
		wantErr bool
	}{
		{"debit", types.Transaction{Merchant: "Shopr", Amount: decimal.NewFromInt(-20)}, false},
		{"credit", types.Transaction{Merchant: "Payroll", Amount: decimal.NewFromInt(100)}, false},
		{"zero amount", types.Transaction{Merchant: "Shopr"}, true},
		{"missing merchant", types.Transaction{Amount: decimal.NewFromInt(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(s.Transactions())
			got, err := s.AppendTransaction(ctx, tt.txn)
			if tt.wantErr {
				assert.True(t, types.IsValidation(err))
				assert.Len(t, s.Transactions(), before)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, types.DefaultAccount, got.Account)
			assert.Len(t, s.Transactions(), before+1)
		})
	}
}

func TestFailedUpdateCommitsNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var item types.CartItem
	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		var err error
		item, err = tx.AddCartItem(types.CartItem{ProductID: "x", Store: "Shopr", Price: decimal.NewFromInt(20)})
		return err
	}))

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx *Tx) error {
		if _, err := tx.RemoveCartItem(item.ID); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Len(t, s.Cart(), 1)
	assert.Empty(t, s.Transactions())
}

func TestCartRejectsNegativePrice(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(context.Background(), func(tx *Tx) error {
		_, err := tx.AddCartItem(types.CartItem{ProductID: "x", Store: "Shopr", Price: decimal.NewFromInt(-1)})
		return err
	})

	assert.True(t, types.IsValidation(err))
	assert.Empty(t, s.Cart())
}

func TestRemoveCartItemNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(context.Background(), func(tx *Tx) error {
		_, err := tx.RemoveCartItem("cart_missing")
		return err
	})

	assert.True(t, types.IsNotFound(err))
}

func TestRideLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, types.RideIdle, s.Ride().Status)

	steps := []types.RideStatus{types.RideRequesting, types.RideConfirmed, types.RideArrived, types.RideOnTrip, types.RideIdle}
	for i, status := range steps {
		require.NoError(t, s.SetActiveRide(ctx, types.ActiveRide{Status: status, Attempt: uint64(i + 1)}), status)
	}

	err := s.SetActiveRide(ctx, types.ActiveRide{Status: types.RideConfirmed, Attempt: 10})
	assert.True(t, types.IsValidation(err), "idle cannot jump to confirmed")
	assert.Equal(t, types.RideIdle, s.Ride().Status)
}

func TestRideCancelFromAnyActiveState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetActiveRide(ctx, types.ActiveRide{Status: types.RideRequesting, Attempt: 1}))
	require.NoError(t, s.SetActiveRide(ctx, types.ActiveRide{Status: types.RideIdle, Attempt: 2}))

	err := s.SetActiveRide(ctx, types.ActiveRide{Status: types.RideIdle, Attempt: 1})
	assert.True(t, types.IsValidation(err), "attempt must not decrease")
}

func TestAdvanceRideRequiresCurrentStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetActiveRide(ctx, types.ActiveRide{Status: types.RideRequesting, Attempt: 1, Pickup: "Home"}))

	err := s.Update(ctx, func(tx *Tx) error {
		_, err := tx.AdvanceRide(types.RideArrived, types.RideOnTrip)
		return err
	})
	assert.True(t, types.IsConflict(err))

	var ride types.ActiveRide
	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		var err error
		ride, err = tx.AdvanceRide(types.RideRequesting, types.RideConfirmed)
		return err
	}))
	assert.Equal(t, types.RideConfirmed, ride.Status)
	assert.Equal(t, "Home", s.Ride().Pickup)

	err = s.Update(ctx, func(tx *Tx) error {
		_, err := tx.AdvanceRide(types.RideConfirmed, types.RideOnTrip)
		return err
	})
	assert.True(t, types.IsValidation(err), "confirmed cannot skip arrival")
	assert.Equal(t, types.RideConfirmed, s.Ride().Status)
}

func TestInstallIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, s.Update(ctx, func(tx *Tx) error {
			_, err := tx.Install("podcasts")
			return err
		}))
	}

	assert.Equal(t, []string{"podcasts"}, s.InstalledApps())
	assert.True(t, s.IsInstalled("podcasts"))
}

func TestEnsureContactByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var first, second types.Contact
	var created bool
	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		var err error
		first, created, err = tx.EnsureContactByName("  Taylor ")
		return err
	}))
	assert.True(t, created)

	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		var err error
		second, created, err = tx.EnsureContactByName("taylor")
		return err
	}))
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	existing, created, err := func() (types.Contact, bool, error) {
		var c types.Contact
		var made bool
		err := s.Update(ctx, func(tx *Tx) error {
			var err error
			c, made, err = tx.EnsureContactByName("ALICE")
			return err
		})
		return c, made, err
	}()
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "alice", existing.ID)
	assert.Len(t, s.Contacts(), 2)
}

func TestViewIsReadOnly(t *testing.T) {
	s := newTestStore(t)

	err := s.View(func(tx *Tx) error {
		_, err := tx.Install("podcasts")
		return err
	})

	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Empty(t, s.InstalledApps())
}

func TestUpdatePublishesAfterCommit(t *testing.T) {
	bus := events.NewBus()
	s := New(bus)
	ch, stop := bus.Subscribe("", 16)
	defer stop()

	_, err := s.UpsertContact(context.Background(), types.Contact{ID: "bo", Name: "Bo"})
	require.NoError(t, err)

	select {
	case c := <-ch:
		assert.Equal(t, events.ContactCreated, c.Kind)
		assert.Equal(t, "bo", c.EntityID)
	case <-time.After(time.Second):
		t.Fatal("expected a change on the bus")
	}
}

func TestUpdateHonoursCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Update(ctx, func(tx *Tx) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCalendarEditAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

	var evt types.CalendarEvent
	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		var err error
		evt, err = tx.UpsertCalendarEvent(types.CalendarEvent{Title: "Gym", Start: start, End: start.Add(time.Hour)})
		return err
	}))

	evt.Title = "Gym (legs)"
	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		_, err := tx.UpsertCalendarEvent(evt)
		return err
	}))
	require.Len(t, s.CalendarEvents(), 1)
	assert.Equal(t, "Gym (legs)", s.CalendarEvents()[0].Title)

	require.NoError(t, s.Update(ctx, func(tx *Tx) error { return tx.RemoveCalendarEvent(evt.ID) }))
	assert.Empty(t, s.CalendarEvents())
}

func TestSeedDefault(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Seed(context.Background(), DefaultSeed()))

	snap := s.Snapshot()
	assert.Len(t, snap.Contacts, 4)
	assert.Len(t, snap.Emails, 3)
	assert.Len(t, snap.Transactions, 3)
	assert.Len(t, snap.Calendar, 2)
	assert.Len(t, snap.Library, 3)
	assert.Equal(t, types.RideIdle, snap.Ride.Status)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	content := `
installed = ["podcasts"]

[[contacts]]
id = "dana"
name = "Dana"
favorite = true

[[transactions]]
merchant = "Bakery"
amount = -3.5
days_ago = 1

[[tracks]]
id = "trk_a"
title = "A Song"
artist = "Someone"
duration_sec = 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	seed, err := LoadSeedFile(path)
	require.NoError(t, err)

	s := New(nil)
	require.NoError(t, s.Seed(context.Background(), seed))

	c, ok := s.Contact("dana")
	require.True(t, ok)
	assert.True(t, c.Favorite)
	require.Len(t, s.Transactions(), 1)
	assert.True(t, s.Transactions()[0].Amount.Equal(decimal.NewFromFloat(-3.5)))
	assert.Equal(t, 200, s.Library()[0].DurationSec)
	assert.True(t, s.IsInstalled("podcasts"))
}

func TestLoadSeedFileMissing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestInjectedClockAndIDs(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }
	gen := id.NewGeneratorWithEntropy(strings.NewReader(strings.Repeat("x", 64)), clock)
	s := New(events.NewBus()).WithClock(clock).WithIDGenerator(gen)
	ctx := context.Background()

	_, err := s.UpsertContact(ctx, types.Contact{ID: "alice", Name: "Alice"})
	require.NoError(t, err)

	var msg types.Message
	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		msg, err = tx.AppendMessage("alice", types.Message{Text: "hi", FromSelf: true})
		return err
	}))

	assert.True(t, id.HasPrefix(msg.ID, id.Message))
	assert.Equal(t, fixed, msg.CreatedAt)

	conv, ok := s.Conversation("alice")
	require.True(t, ok)
	assert.Equal(t, fixed, conv.UpdatedAt)
}
