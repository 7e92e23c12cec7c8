package types

import "time"

// CalendarEvent is an editable entry in the Calendar app
type CalendarEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title" validate:"required,max=256"`
	Start    time.Time `json:"start" validate:"required"`
	End      time.Time `json:"end" validate:"required,gtefield=Start"`
	Location string    `json:"location,omitempty"`
	Category string    `json:"category,omitempty"`
	Evidence []string  `json:"evidence,omitempty"` // snippets (emails, texts) that produced the event
}

// Clone returns a deep copy
func (e CalendarEvent) Clone() CalendarEvent {
	out := e
	out.Evidence = append([]string(nil), e.Evidence...)
	return out
}

// Track is a song in the music library
type Track struct {
	ID          string `json:"id" toml:"id"`
	Title       string `json:"title" toml:"title"`
	Artist      string `json:"artist" toml:"artist"`
	DurationSec int    `json:"duration_sec" toml:"duration_sec"`
}

// MusicPlayer is the shared now-playing state
type MusicPlayer struct {
	TrackID     string `json:"track_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Playing     bool   `json:"playing"`
	PositionSec int    `json:"position_sec"`
}
