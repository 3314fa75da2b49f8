package store

import (
	"fmt"

	"trainingcal/internal/model"
)

// Fallback colors for events whose category is unknown.
const (
	defaultBackColor = "#f0f0f0"
	defaultColor     = "#ccc"
)

// Project derives the view-shaped CalendarEvent from a domain event and its
// resolved category. It is the single formatting path used by every load and
// mutation, pure and idempotent: projecting the event reconstructed from its
// own output yields the same projection.
func Project(e model.Event, cat model.Category) model.CalendarEvent {
	name := cat.Name
	if name == "" {
		name = e.CategoryID
	}
	backColor := cat.BackColor
	if backColor == "" {
		backColor = defaultBackColor
	}
	color := cat.Color
	if color == "" {
		color = defaultColor
	}

	start := normalizeTime(e.StartTime)
	end := normalizeTime(e.EndTime)
	count := len(e.Participants)

	available := e.MaxParticipants - count
	// maxParticipants <= 0 means unlimited as far as the client is concerned.
	full := e.MaxParticipants > 0 && count >= e.MaxParticipants

	return model.CalendarEvent{
		ID:              e.ID,
		Title:           fmt.Sprintf("%s - %s (%s-%s) %d/%d", name, e.Location, clock(start), clock(end), count, e.MaxParticipants),
		Start:           e.EventDate + "T" + start,
		End:             e.EventDate + "T" + end,
		AllDay:          false,
		BackgroundColor: backColor,
		BorderColor:     color,
		ClassNames:      []string{e.CategoryID},
		CategoryID:      e.CategoryID,
		Location:        e.Location,
		MaxParticipants: e.MaxParticipants,
		Description:     e.Description,
		Participants:    e.Participants,
		AvailableSpots:  available,
		IsFull:          full,
	}
}

// normalizeTime widens HH:MM to HH:MM:SS and zero-pads a single-digit hour.
func normalizeTime(s string) string {
	switch len(s) {
	case 4: // H:MM
		s = "0" + s
	case 7: // H:MM:SS
		s = "0" + s
	}
	if len(s) == 5 {
		s += ":00"
	}
	return s
}

// clock trims a normalized HH:MM:SS down to HH:MM for display.
func clock(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}
