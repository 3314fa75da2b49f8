// Package registration builds participant records from the sign-up form,
// pre-checks capacity locally, and reports one of three outcomes:
// already-full (client-detected), success, or failure (server-detected).
package registration

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"trainingcal/internal/errs"
	"trainingcal/internal/model"
)

// User-facing outcome messages.
const (
	MsgNotFound          = "Event not found"
	MsgFull              = "This event is already full. Please select another event."
	MsgSuccess           = "Registration successful! You are now registered for this event."
	MsgFailed            = "Registration failed. The event might be full or an error occurred."
	MsgAlreadyRegistered = "You are already registered for this event"
	MsgServerFull        = "Event is already full"
)

// EventStore is the slice of the event store the flow depends on.
type EventStore interface {
	Event(id string) (model.CalendarEvent, bool)
	AddParticipant(ctx context.Context, eventID string, p model.Participant) error
}

// ParticipantAPI covers the participant endpoints used outside the store.
type ParticipantAPI interface {
	ParticipantsByEvent(ctx context.Context, eventID string) ([]model.Participant, error)
	RemoveParticipant(ctx context.Context, id string) error
}

// Input is the raw sign-up form.
type Input struct {
	EventID          string
	ParticipantEmail string
	ParticipantName  string
	ManagerEmail     string
	Location         string
}

// Result is a user-facing registration outcome.
type Result struct {
	OK      bool
	Message string
}

// Flow orchestrates participant registration against the event store.
type Flow struct {
	store  EventStore
	api    ParticipantAPI
	logger *zap.Logger

	participants []model.Participant
}

// NewFlow constructs a Flow.
func NewFlow(store EventStore, api ParticipantAPI, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{store: store, api: api, logger: logger}
}

// Register builds the participant record and registers it, pre-checking the
// cached event's capacity before any network call. A full event is rejected
// locally at equality; the server remains the final authority.
func (f *Flow) Register(ctx context.Context, in Input) Result {
	p := model.Participant{
		ID:               strconv.FormatInt(time.Now().UnixMilli(), 10),
		ParticipantEmail: in.ParticipantEmail,
		ParticipantName:  in.ParticipantName,
		ManagerEmail:     in.ManagerEmail,
		Location:         in.Location,
	}
	if p.ParticipantName == "" {
		p.ParticipantName = emailLocalPart(in.ParticipantEmail)
	}

	event, ok := f.store.Event(in.EventID)
	if !ok {
		return Result{OK: false, Message: MsgNotFound}
	}
	if event.MaxParticipants > 0 && len(event.Participants) >= event.MaxParticipants {
		return Result{OK: false, Message: MsgFull}
	}

	if err := f.store.AddParticipant(ctx, in.EventID, p); err != nil {
		f.logger.Error("registration failed", zap.String("event_id", in.EventID), zap.Error(err))
		switch {
		case errors.Is(err, errs.ErrAlreadyRegistered):
			return Result{OK: false, Message: MsgAlreadyRegistered}
		case errors.Is(err, errs.ErrEventFull):
			return Result{OK: false, Message: MsgServerFull}
		default:
			return Result{OK: false, Message: MsgFailed}
		}
	}
	return Result{OK: true, Message: MsgSuccess}
}

// Participants lists the participants registered on an event.
func (f *Flow) Participants(ctx context.Context, eventID string) ([]model.Participant, error) {
	ps, err := f.api.ParticipantsByEvent(ctx, eventID)
	if err != nil {
		f.logger.Error("load participants", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	f.participants = ps
	return ps, nil
}

// Remove deletes a participant registration and drops it from the local
// list.
func (f *Flow) Remove(ctx context.Context, id string) error {
	if err := f.api.RemoveParticipant(ctx, id); err != nil {
		f.logger.Error("remove participant", zap.String("id", id), zap.Error(err))
		return err
	}
	kept := f.participants[:0]
	for _, p := range f.participants {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.participants = kept
	return nil
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
