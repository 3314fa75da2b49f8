package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"trainingcal/internal/errs"
	"trainingcal/internal/model"
)

// Events fetches all events.
func (c *Client) Events(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	if err := c.get(ctx, "/events", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventsByMonth fetches the events of a single month (month is 1-12).
func (c *Client) EventsByMonth(ctx context.Context, year, month int) ([]model.Event, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))
	var out []model.Event
	if err := c.get(ctx, "/events/month", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventsByDay fetches the events of a single day (date is YYYY-MM-DD).
func (c *Client) EventsByDay(ctx context.Context, date string) ([]model.Event, error) {
	q := url.Values{}
	q.Set("date", date)
	var out []model.Event
	if err := c.get(ctx, "/events/day", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Event fetches a single event by id.
func (c *Client) Event(ctx context.Context, id string) (model.Event, error) {
	var out model.Event
	if err := c.get(ctx, "/events/"+url.PathEscape(id), nil, &out); err != nil {
		return model.Event{}, err
	}
	return out, nil
}

// EventsByCategory fetches the events of one category.
func (c *Client) EventsByCategory(ctx context.Context, categoryID string) ([]model.Event, error) {
	var out []model.Event
	if err := c.get(ctx, "/events/category/"+url.PathEscape(categoryID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent creates an event. A 409 response means the date/time range
// overlaps an existing event and maps to errs.ErrTimeConflict.
func (c *Client) CreateEvent(ctx context.Context, req model.EventRequest) (model.Event, error) {
	var out model.Event
	if err := c.post(ctx, "/events", req, &out); err != nil {
		return model.Event{}, refineEventErr(err)
	}
	return out, nil
}

// UpdateEvent updates an event by id; 409 maps to errs.ErrTimeConflict.
func (c *Client) UpdateEvent(ctx context.Context, id string, req model.EventRequest) (model.Event, error) {
	var out model.Event
	if err := c.put(ctx, "/events/"+url.PathEscape(id), req, &out); err != nil {
		return model.Event{}, refineEventErr(err)
	}
	return out, nil
}

// DeleteEvent deletes an event by id.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.delete(ctx, "/events/"+url.PathEscape(id))
}

// CheckConflict asks the backend whether the proposed range overlaps an
// existing event. excludeEventID is omitted when empty (create mode).
func (c *Client) CheckConflict(ctx context.Context, date, startTime, endTime, excludeEventID string) (bool, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("startTime", startTime)
	q.Set("endTime", endTime)
	if excludeEventID != "" {
		q.Set("excludeEventId", excludeEventID)
	}
	var out bool
	if err := c.get(ctx, "/events/check-conflict", q, &out); err != nil {
		return false, err
	}
	return out, nil
}

// EventAvailability reports whether the event still has open spots.
func (c *Client) EventAvailability(ctx context.Context, id string) (bool, error) {
	var out bool
	if err := c.get(ctx, "/events/"+url.PathEscape(id)+"/available", nil, &out); err != nil {
		return false, err
	}
	return out, nil
}

func refineEventErr(err error) error {
	if StatusOf(err) == http.StatusConflict {
		return fmt.Errorf("%w: %w", errs.ErrTimeConflict, err)
	}
	return err
}
