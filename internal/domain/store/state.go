package store

import "github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"

type state struct {
	contacts       map[string]types.Contact
	contactOrder   []string
	conversations  map[string]types.Conversation
	emails         map[string]types.Email
	ledger         []types.Transaction
	cart           []types.CartItem
	calendar       map[string]types.CalendarEvent
	ride           types.ActiveRide
	player         types.MusicPlayer
	library        []types.Track
	installed      map[string]struct{}
	installedOrder []string
}

func newState() state {
	return state{
		contacts:      map[string]types.Contact{},
		conversations: map[string]types.Conversation{},
		emails:        map[string]types.Email{},
		calendar:      map[string]types.CalendarEvent{},
		ride:          types.ActiveRide{Status: types.RideIdle},
		installed:     map[string]struct{}{},
	}
}

func (s state) clone() state {
	out := state{
		contacts:       make(map[string]types.Contact, len(s.contacts)),
		contactOrder:   append([]string(nil), s.contactOrder...),
		conversations:  make(map[string]types.Conversation, len(s.conversations)),
		emails:         make(map[string]types.Email, len(s.emails)),
		ledger:         append([]types.Transaction(nil), s.ledger...),
		cart:           append([]types.CartItem(nil), s.cart...),
		calendar:       make(map[string]types.CalendarEvent, len(s.calendar)),
		ride:           s.ride,
		player:         s.player,
		library:        append([]types.Track(nil), s.library...),
		installed:      make(map[string]struct{}, len(s.installed)),
		installedOrder: append([]string(nil), s.installedOrder...),
	}
	for k, v := range s.contacts {
		out.contacts[k] = v
	}
	for k, v := range s.conversations {
		out.conversations[k] = v.Clone()
	}
	for k, v := range s.emails {
		out.emails[k] = v
	}
	for k, v := range s.calendar {
		out.calendar[k] = v.Clone()
	}
	for k := range s.installed {
		out.installed[k] = struct{}{}
	}
	return out
}
