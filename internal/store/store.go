// Package store owns the client-side cache of calendar events and every
// mutation that keeps it consistent with the backend.
package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"trainingcal/internal/errs"
	"trainingcal/internal/model"
)

// API is the backend surface the store depends on.
type API interface {
	Events(ctx context.Context) ([]model.Event, error)
	EventsByMonth(ctx context.Context, year, month int) ([]model.Event, error)
	EventsByDay(ctx context.Context, date string) ([]model.Event, error)
	CreateEvent(ctx context.Context, req model.EventRequest) (model.Event, error)
	UpdateEvent(ctx context.Context, id string, req model.EventRequest) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	CheckConflict(ctx context.Context, date, startTime, endTime, excludeEventID string) (bool, error)
	RegisterParticipant(ctx context.Context, eventID string, p model.Participant) (model.Participant, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// User-facing error strings surfaced through Err().
const (
	MsgLoadFailed     = "Failed to load events"
	MsgAddFailed      = "Failed to add event"
	MsgUpdateFailed   = "Failed to update event"
	MsgDeleteFailed   = "Failed to delete event"
	MsgRegisterFailed = "Failed to register for event"
	MsgTimeConflict   = "This time slot conflicts with another event. Please choose a different time."
)

// Store is the authoritative client-side cache of calendar events for the
// currently loaded window. Construct with New and pass by reference; there
// is no package-level instance.
type Store struct {
	api    API
	logger *zap.Logger

	loadSeq atomic.Int64

	mu         sync.Mutex
	events     []model.CalendarEvent
	categories map[string]model.Category
	errMsg     string
	loading    bool
}

// New constructs a Store over the given backend client.
func New(api API, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{api: api, logger: logger}
}

// Input is a create/update intent. It accepts both the domain field names
// and the form-side aliases (Date/Category); the domain names win when both
// are set.
type Input struct {
	ID              string
	EventDate       string
	Date            string // alias for EventDate
	CategoryID      string
	Category        string // alias for CategoryID
	StartTime       string
	EndTime         string
	Location        string
	MaxParticipants int
	Description     string
}

func (in Input) request() model.EventRequest {
	date := in.EventDate
	if date == "" {
		date = in.Date
	}
	cat := in.CategoryID
	if cat == "" {
		cat = in.Category
	}
	return model.EventRequest{
		ID:              in.ID,
		EventDate:       date,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		CategoryID:      cat,
		Location:        in.Location,
		MaxParticipants: in.MaxParticipants,
		Description:     in.Description,
	}
}

// Events returns a snapshot of the cached collection.
func (s *Store) Events() []model.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CalendarEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Event returns a cached event by id.
func (s *Store) Event(id string) (model.CalendarEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return model.CalendarEvent{}, false
}

// Err returns the last user-facing error string, "" when the previous
// operation succeeded.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Load fetches one month's events (month is 1-12) and atomically replaces
// the cached collection. Returns false and sets Err on failure; never
// returns an error.
func (s *Store) Load(ctx context.Context, year, month int) bool {
	return s.load(ctx, func(ctx context.Context) ([]model.Event, error) {
		return s.api.EventsByMonth(ctx, year, month)
	})
}

// LoadAll fetches every event and atomically replaces the cached collection.
func (s *Store) LoadAll(ctx context.Context) bool {
	return s.load(ctx, s.api.Events)
}

func (s *Store) load(ctx context.Context, fetch func(context.Context) ([]model.Event, error)) bool {
	seq := s.loadSeq.Add(1)
	s.setLoading(true)
	defer s.setLoading(false)

	events, err := fetch(ctx)
	if err != nil {
		s.logger.Error("load events", zap.Error(err))
		s.setErr(MsgLoadFailed)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer load was issued while this one was in flight; its result wins
	// regardless of arrival order.
	if seq != s.loadSeq.Load() {
		s.logger.Debug("discarding stale load", zap.Int64("seq", seq))
		return false
	}
	formatted := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		formatted = append(formatted, Project(e, s.categoryLocked(e.CategoryID)))
	}
	s.events = formatted
	s.errMsg = ""
	return true
}

// LoadDay fetches one day's events as a transient projection. The month
// cache is deliberately left untouched: merging a day window into a month
// window would evict everything outside the day.
func (s *Store) LoadDay(ctx context.Context, date string) ([]model.CalendarEvent, bool) {
	s.setLoading(true)
	defer s.setLoading(false)

	events, err := s.api.EventsByDay(ctx, date)
	if err != nil {
		s.logger.Error("load day events", zap.String("date", date), zap.Error(err))
		s.setErr(MsgLoadFailed)
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	formatted := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		formatted = append(formatted, Project(e, s.categoryLocked(e.CategoryID)))
	}
	s.errMsg = ""
	return formatted, true
}

// Add creates an event and appends the projected result to the cache. On
// failure the store error is set and the error is returned for the caller
// to react; a 409 produces the time-conflict message.
func (s *Store) Add(ctx context.Context, in Input) (model.CalendarEvent, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	created, err := s.api.CreateEvent(ctx, in.request())
	if err != nil {
		s.logger.Error("add event", zap.Error(err))
		s.setErr(mutationMsg(err, MsgAddFailed))
		return model.CalendarEvent{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	formatted := Project(created, s.categoryLocked(created.CategoryID))
	s.events = append(s.events, formatted)
	s.errMsg = ""
	return formatted, nil
}

// Update updates an event and replaces it in the cache by index.
func (s *Store) Update(ctx context.Context, in Input) (model.CalendarEvent, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.api.UpdateEvent(ctx, in.ID, in.request())
	if err != nil {
		s.logger.Error("update event", zap.String("id", in.ID), zap.Error(err))
		s.setErr(mutationMsg(err, MsgUpdateFailed))
		return model.CalendarEvent{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	formatted := Project(updated, s.categoryLocked(updated.CategoryID))
	for i := range s.events {
		if s.events[i].ID == in.ID {
			s.events[i] = formatted
			break
		}
	}
	s.errMsg = ""
	return formatted, nil
}

// Delete removes an event from the backend and then from the cache.
// Returns false and sets Err on failure; never returns an error.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.DeleteEvent(ctx, id); err != nil {
		s.logger.Error("delete event", zap.String("id", id), zap.Error(err))
		s.setErr(MsgDeleteFailed)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.events[:0]
	for _, e := range s.events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.events = kept
	s.errMsg = ""
	return true
}

// CheckTimeConflict delegates to the backend. A failed check returns
// ConflictUnknown so callers can distinguish "no conflict" from "could not
// check" and decide whether to block or warn.
func (s *Store) CheckTimeConflict(ctx context.Context, date, startTime, endTime, excludeEventID string) model.ConflictStatus {
	conflict, err := s.api.CheckConflict(ctx, date, startTime, endTime, excludeEventID)
	if err != nil {
		s.logger.Warn("conflict check failed", zap.String("date", date), zap.Error(err))
		return model.ConflictUnknown
	}
	if conflict {
		return model.Conflict
	}
	return model.NoConflict
}

// AddParticipant registers a participant and patches the cached event's
// participant list and derived fields in place, without a full reload. If
// the event is not cached the whole collection is reloaded instead.
func (s *Store) AddParticipant(ctx context.Context, eventID string, p model.Participant) error {
	s.setLoading(true)
	defer s.setLoading(false)

	registered, err := s.api.RegisterParticipant(ctx, eventID, p)
	if err != nil {
		s.logger.Error("register participant", zap.String("event_id", eventID), zap.Error(err))
		s.setErr(MsgRegisterFailed)
		return err
	}
	if registered.ID == "" {
		registered.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	s.mu.Lock()
	cached := -1
	for i := range s.events {
		if s.events[i].ID == eventID {
			cached = i
			break
		}
	}
	if cached == -1 {
		s.mu.Unlock()
		s.logger.Warn("registered event not cached, reloading", zap.String("event_id", eventID))
		s.LoadAll(ctx)
		return nil
	}

	// Re-derive title and availability through the one projection path.
	event := s.events[cached].Event()
	event.Participants = append(event.Participants, registered)
	s.events[cached] = Project(event, s.categoryLocked(event.CategoryID))
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

// FetchCategories loads category metadata, falling back to the static table
// when the endpoint fails. The result is cached until the next call.
func (s *Store) FetchCategories(ctx context.Context) {
	cats, err := s.api.Categories(ctx)
	if err != nil || len(cats) == 0 {
		if err != nil {
			s.logger.Warn("fetch categories, using static fallback", zap.Error(err))
		}
		s.mu.Lock()
		s.categories = StaticCategories()
		s.mu.Unlock()
		return
	}
	byID := make(map[string]model.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	s.mu.Lock()
	s.categories = byID
	s.mu.Unlock()
}

// Categories returns the cached category table. It does not fetch lazily;
// call FetchCategories first.
func (s *Store) Categories() map[string]model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.Category, len(s.categories))
	for k, v := range s.categories {
		out[k] = v
	}
	return out
}

// categoryLocked resolves a category from the fetched table, then the
// static fallback. Caller holds s.mu or guarantees exclusive access.
func (s *Store) categoryLocked(id string) model.Category {
	if c, ok := s.categories[id]; ok {
		return c
	}
	if c, ok := StaticCategories()[id]; ok {
		return c
	}
	return model.Category{ID: id}
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func mutationMsg(err error, generic string) string {
	if errors.Is(err, errs.ErrTimeConflict) {
		return MsgTimeConflict
	}
	return generic
}
