package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// SeedData is the initial content of a fresh phone. Times are relative to
// the moment of seeding so the demo always looks current.
type SeedData struct {
	Contacts     []SeedContact     `toml:"contacts"`
	Emails       []SeedEmail       `toml:"emails"`
	Transactions []SeedTransaction `toml:"transactions"`
	Events       []SeedEvent       `toml:"events"`
	Tracks       []types.Track     `toml:"tracks"`
	Installed    []string          `toml:"installed"`
}

// SeedContact is a contact row in the seed file
type SeedContact struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	Phone        string `toml:"phone"`
	Relationship string `toml:"relationship"`
	Favorite     bool   `toml:"favorite"`
	AvatarRef    string `toml:"avatar"`
}

// SeedEmail is an inbox row in the seed file
type SeedEmail struct {
	Sender     string `toml:"sender"`
	Subject    string `toml:"subject"`
	Preview    string `toml:"preview"`
	Body       string `toml:"body"`
	Unread     bool   `toml:"unread"`
	MinutesAgo int    `toml:"minutes_ago"`
}

// SeedTransaction is a ledger row in the seed file. Amount is signed.
type SeedTransaction struct {
	Merchant string  `toml:"merchant"`
	Amount   float64 `toml:"amount"`
	Category string  `toml:"category"`
	DaysAgo  int     `toml:"days_ago"`
}

// SeedEvent is a calendar row in the seed file
type SeedEvent struct {
	Title           string   `toml:"title"`
	StartsInMinutes int      `toml:"starts_in_minutes"`
	DurationMinutes int      `toml:"duration_minutes"`
	Location        string   `toml:"location"`
	Category        string   `toml:"category"`
	Evidence        []string `toml:"evidence"`
}

// LoadSeedFile reads seed data from a TOML file
func LoadSeedFile(path string) (SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedData{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedData
	if err := toml.Unmarshal(data, &seed); err != nil {
		return SeedData{}, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return seed, nil
}

// Seed loads seed data in a single transaction
func (s *Store) Seed(ctx context.Context, seed SeedData) error {
	return s.Update(ctx, func(tx *Tx) error {
		now := tx.Now()

		for _, c := range seed.Contacts {
			if _, err := tx.UpsertContact(types.Contact{
				ID:           c.ID,
				Name:         c.Name,
				Phone:        c.Phone,
				Relationship: c.Relationship,
				Favorite:     c.Favorite,
				AvatarRef:    c.AvatarRef,
			}); err != nil {
				return fmt.Errorf("seed contact %q: %w", c.Name, err)
			}
		}

		for _, e := range seed.Emails {
			if _, err := tx.UpsertEmail(types.Email{
				Sender:     e.Sender,
				Subject:    e.Subject,
				Preview:    e.Preview,
				Body:       e.Body,
				Unread:     e.Unread,
				ReceivedAt: now.Add(-time.Duration(e.MinutesAgo) * time.Minute),
			}); err != nil {
				return fmt.Errorf("seed email %q: %w", e.Subject, err)
			}
		}

		for _, t := range seed.Transactions {
			if _, err := tx.AppendTransaction(types.Transaction{
				Merchant:  t.Merchant,
				Amount:    decimal.NewFromFloat(t.Amount).Round(2),
				Category:  t.Category,
				CreatedAt: now.AddDate(0, 0, -t.DaysAgo),
			}); err != nil {
				return fmt.Errorf("seed transaction %q: %w", t.Merchant, err)
			}
		}

		for _, e := range seed.Events {
			start := now.Add(time.Duration(e.StartsInMinutes) * time.Minute).Truncate(time.Minute)
			if _, err := tx.UpsertCalendarEvent(types.CalendarEvent{
				Title:    e.Title,
				Start:    start,
				End:      start.Add(time.Duration(e.DurationMinutes) * time.Minute),
				Location: e.Location,
				Category: e.Category,
				Evidence: e.Evidence,
			}); err != nil {
				return fmt.Errorf("seed event %q: %w", e.Title, err)
			}
		}

		for _, t := range seed.Tracks {
			if _, err := tx.AddTrack(t); err != nil {
				return fmt.Errorf("seed track %q: %w", t.Title, err)
			}
		}

		for _, appID := range seed.Installed {
			if _, err := tx.Install(appID); err != nil {
				return fmt.Errorf("seed installed app %q: %w", appID, err)
			}
		}
		return nil
	})
}

// DefaultSeed is the built-in demo content
func DefaultSeed() SeedData {
	return SeedData{
		Contacts: []SeedContact{
			{ID: "alice", Name: "Alice", Phone: "+1 555 0101", Relationship: "friend", Favorite: true},
			{ID: "mom", Name: "Mom", Phone: "+1 555 0102", Relationship: "family", Favorite: true},
			{ID: "sam", Name: "Sam Rivera", Phone: "+1 555 0103", Relationship: "coworker"},
			{ID: "jordan", Name: "Jordan", Phone: "+1 555 0104", Relationship: "roommate"},
		},
		Emails: []SeedEmail{
			{Sender: "Airline Co", Subject: "Your flight to Denver", Preview: "Check-in opens 24h before departure", Unread: true, MinutesAgo: 30},
			{Sender: "Sam Rivera", Subject: "Q3 planning", Preview: "Can we move the sync to Thursday?", Unread: true, MinutesAgo: 95},
			{Sender: "Shopr", Subject: "Your order has shipped", Preview: "Track your package", MinutesAgo: 60 * 26},
		},
		Transactions: []SeedTransaction{
			{Merchant: "Payroll", Amount: 2450.00, Category: "income", DaysAgo: 6},
			{Merchant: "Corner Coffee", Amount: -4.75, Category: "food", DaysAgo: 2},
			{Merchant: "Grocer", Amount: -62.18, Category: "groceries", DaysAgo: 1},
		},
		Events: []SeedEvent{
			{Title: "Dinner with Alice", StartsInMinutes: 180, DurationMinutes: 90, Location: "Luigi's, 5th Ave", Category: "social",
				Evidence: []string{"Alice: dinner tonight at Luigi's?"}},
			{Title: "Flight to Denver", StartsInMinutes: 60 * 26, DurationMinutes: 150, Location: "Airport Terminal B", Category: "travel",
				Evidence: []string{"Airline Co: Your flight to Denver"}},
		},
		Tracks: []types.Track{
			{ID: "trk_sunrise", Title: "Sunrise Drive", Artist: "The Pixels", DurationSec: 214},
			{ID: "trk_static", Title: "Static Hearts", Artist: "Modem Club", DurationSec: 187},
			{ID: "trk_dialtone", Title: "Dial Tone Blues", Artist: "Rotary", DurationSec: 243},
		},
	}
}
