package router

import (
	"context"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/store"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/id"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

// MarkEmailRead clears an email's unread flag
func (r *Router) MarkEmailRead(ctx context.Context, emailID string) error {
	if err := knownID("email", id.Email, emailID); err != nil {
		return r.outcome("mark_email_read", err)
	}
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		return tx.SetEmailUnread(emailID, false)
	})
	return r.outcome("mark_email_read", err)
}

// DeleteEmail removes an email from the inbox
func (r *Router) DeleteEmail(ctx context.Context, emailID string) error {
	if err := knownID("email", id.Email, emailID); err != nil {
		return r.outcome("delete_email", err)
	}
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		return tx.RemoveEmail(emailID)
	})
	return r.outcome("delete_email", err)
}

// UpsertCalendarEvent creates an event, or edits it when the ID exists
func (r *Router) UpsertCalendarEvent(ctx context.Context, e types.CalendarEvent) (types.CalendarEvent, error) {
	if e.ID != "" {
		if err := knownID("calendar event", id.Event, e.ID); err != nil {
			return types.CalendarEvent{}, r.outcome("upsert_calendar_event", err)
		}
	}
	var saved types.CalendarEvent
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		if e.ID != "" {
			if _, ok := tx.CalendarEvent(e.ID); !ok {
				return &types.NotFoundError{Kind: "calendar event", ID: e.ID}
			}
		}
		var err error
		saved, err = tx.UpsertCalendarEvent(e)
		return err
	})
	return saved, r.outcome("upsert_calendar_event", err)
}

// DeleteCalendarEvent removes an event. A ride booked for it keeps going.
func (r *Router) DeleteCalendarEvent(ctx context.Context, eventID string) error {
	if err := knownID("calendar event", id.Event, eventID); err != nil {
		return r.outcome("delete_calendar_event", err)
	}
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		return tx.RemoveCalendarEvent(eventID)
	})
	return r.outcome("delete_calendar_event", err)
}

// PlayTrack starts a library track from the beginning
func (r *Router) PlayTrack(ctx context.Context, trackID string) (types.MusicPlayer, error) {
	var player types.MusicPlayer
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		track, ok := tx.Track(trackID)
		if !ok {
			return &types.NotFoundError{Kind: "track", ID: trackID}
		}
		player = types.MusicPlayer{
			TrackID: track.ID,
			Title:   track.Title,
			Artist:  track.Artist,
			Playing: true,
		}
		return tx.SetPlayer(player)
	})
	return player, r.outcome("play_track", err)
}

// TogglePlayback pauses or resumes the current track
func (r *Router) TogglePlayback(ctx context.Context) (types.MusicPlayer, error) {
	var player types.MusicPlayer
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		player = tx.Player()
		if player.TrackID == "" {
			return &types.ConflictError{Reason: "nothing is queued"}
		}
		player.Playing = !player.Playing
		return tx.SetPlayer(player)
	})
	return player, r.outcome("toggle_playback", err)
}
