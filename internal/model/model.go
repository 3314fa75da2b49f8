// Package model defines domain entities shared by the API client, the event
// store, and the form layer.
package model

import "time"

// Participant is a single registration on an event. The ID is normally
// assigned by the server; when the response omits it the client falls back
// to a millisecond-timestamp string.
type Participant struct {
	ID               string `json:"id,omitempty"`
	ParticipantEmail string `json:"participantEmail"`
	ParticipantName  string `json:"participantName"`
	ManagerEmail     string `json:"managerEmail"`
	Location         string `json:"location"`
}

// Event is the server-shaped training event.
// Invariant: len(Participants) <= MaxParticipants (the server is
// authoritative; the client only pre-checks before submitting).
type Event struct {
	ID              string        `json:"id"`
	Name            string        `json:"name,omitempty"`
	EventDate       string        `json:"eventDate"` // YYYY-MM-DD
	StartTime       string        `json:"startTime"` // HH:MM or HH:MM:SS
	EndTime         string        `json:"endTime"`
	CategoryID      string        `json:"categoryId"`
	Location        string        `json:"location"`
	MaxParticipants int           `json:"maxParticipants"`
	Description     string        `json:"description,omitempty"`
	Participants    []Participant `json:"participants"`
}

// EventRequest is the create/update payload sent to the backend.
type EventRequest struct {
	ID              string        `json:"-"`
	EventDate       string        `json:"eventDate"`
	StartTime       string        `json:"startTime"`
	EndTime         string        `json:"endTime"`
	CategoryID      string        `json:"categoryId"`
	Location        string        `json:"location"`
	MaxParticipants int           `json:"maxParticipants"`
	Description     string        `json:"description,omitempty"`
	Participants    []Participant `json:"-"`
}

// Category classifies a training event and carries its display colors.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	BackColor string `json:"backColor"`
}

// CalendarEvent is the view-shaped projection of an Event joined with its
// Category. It is derived on every load/mutation and never persisted; see
// store.Project.
type CalendarEvent struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Start           string        `json:"start"` // YYYY-MM-DDTHH:MM:SS local
	End             string        `json:"end"`
	AllDay          bool          `json:"allDay"`
	BackgroundColor string        `json:"backgroundColor"`
	BorderColor     string        `json:"borderColor"`
	ClassNames      []string      `json:"classNames"`
	CategoryID      string        `json:"categoryId"`
	Location        string        `json:"location"`
	MaxParticipants int           `json:"maxParticipants"`
	Description     string        `json:"description,omitempty"`
	Participants    []Participant `json:"participants"`
	AvailableSpots  int           `json:"availableSpots"`
	IsFull          bool          `json:"isFull"`
}

// Event reconstructs the domain event embedded in the projection, splitting
// the combined start/end timestamps back into date and times. Projecting the
// result with the same category yields the projection again.
func (c CalendarEvent) Event() Event {
	date, start := splitDateTime(c.Start)
	_, end := splitDateTime(c.End)
	return Event{
		ID:              c.ID,
		EventDate:       date,
		StartTime:       start,
		EndTime:         end,
		CategoryID:      c.CategoryID,
		Location:        c.Location,
		MaxParticipants: c.MaxParticipants,
		Description:     c.Description,
		Participants:    c.Participants,
	}
}

func splitDateTime(s string) (date, clock string) {
	if i := len("2006-01-02"); len(s) > i && s[i] == 'T' {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// ConflictStatus is the tri-state outcome of a server-side conflict check.
// ConflictUnknown means the check itself failed, which callers may treat
// differently from a definite answer.
type ConflictStatus int

const (
	ConflictUnknown ConflictStatus = iota
	NoConflict
	Conflict
)

func (s ConflictStatus) String() string {
	switch s {
	case NoConflict:
		return "no conflict"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Tokens holds an issued bearer token together with its expiry as decoded
// from the token itself (for diagnostics; the server remains authoritative).
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}
