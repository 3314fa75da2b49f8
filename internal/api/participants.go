package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"trainingcal/internal/errs"
	"trainingcal/internal/model"
)

// RegisterParticipant registers a participant on an event. On this endpoint
// a 409 means the participant is already registered and a 400 mentioning
// capacity means the event is full.
func (c *Client) RegisterParticipant(ctx context.Context, eventID string, p model.Participant) (model.Participant, error) {
	var out model.Participant
	err := c.post(ctx, "/participants/event/"+url.PathEscape(eventID)+"/register", p, &out)
	if err != nil {
		return model.Participant{}, refineParticipantErr(err)
	}
	return out, nil
}

// ParticipantsByEvent lists the participants of an event.
func (c *Client) ParticipantsByEvent(ctx context.Context, eventID string) ([]model.Participant, error) {
	var out []model.Participant
	if err := c.get(ctx, "/participants/event/"+url.PathEscape(eventID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Participant fetches a single participant by id.
func (c *Client) Participant(ctx context.Context, id string) (model.Participant, error) {
	var out model.Participant
	if err := c.get(ctx, "/participants/"+url.PathEscape(id), nil, &out); err != nil {
		return model.Participant{}, err
	}
	return out, nil
}

// RemoveParticipant deletes a participant registration by id.
func (c *Client) RemoveParticipant(ctx context.Context, id string) error {
	return c.delete(ctx, "/participants/"+url.PathEscape(id))
}

func refineParticipantErr(err error) error {
	switch StatusOf(err) {
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", errs.ErrAlreadyRegistered, err)
	case http.StatusBadRequest:
		var se *StatusError
		if errors.As(err, &se) && strings.Contains(strings.ToLower(se.Message), "full") {
			return fmt.Errorf("%w: %w", errs.ErrEventFull, err)
		}
	}
	return err
}
