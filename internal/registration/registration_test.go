package registration

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trainingcal/internal/errs"
	"trainingcal/internal/model"
)

type fakeStore struct {
	events map[string]model.CalendarEvent

	addErr   error
	addCalls int
	added    model.Participant
}

var _ EventStore = (*fakeStore)(nil)

func (f *fakeStore) Event(id string) (model.CalendarEvent, bool) {
	e, ok := f.events[id]
	return e, ok
}

func (f *fakeStore) AddParticipant(_ context.Context, eventID string, p model.Participant) error {
	f.addCalls++
	if f.addErr != nil {
		return f.addErr
	}
	f.added = p
	e := f.events[eventID]
	e.Participants = append(e.Participants, p)
	e.IsFull = e.MaxParticipants > 0 && len(e.Participants) >= e.MaxParticipants
	f.events[eventID] = e
	return nil
}

type fakeParticipantAPI struct {
	list      []model.Participant
	listErr   error
	removeErr error
}

var _ ParticipantAPI = (*fakeParticipantAPI)(nil)

func (f *fakeParticipantAPI) ParticipantsByEvent(context.Context, string) ([]model.Participant, error) {
	return f.list, f.listErr
}
func (f *fakeParticipantAPI) RemoveParticipant(context.Context, string) error { return f.removeErr }

func cachedEvent(id string, max, registered int) model.CalendarEvent {
	return model.CalendarEvent{
		ID:              id,
		MaxParticipants: max,
		Participants:    make([]model.Participant, registered),
	}
}

func TestRegister_Success(t *testing.T) {
	st := &fakeStore{events: map[string]model.CalendarEvent{"ev": cachedEvent("ev", 10, 3)}}
	flow := NewFlow(st, &fakeParticipantAPI{}, zap.NewNop())

	res := flow.Register(context.Background(), Input{
		EventID:          "ev",
		ParticipantEmail: "ana@example.ro",
		ManagerEmail:     "boss@example.ro",
		Location:         "București",
	})
	assert.True(t, res.OK)
	assert.Equal(t, MsgSuccess, res.Message)
	assert.Equal(t, 1, st.addCalls)
	assert.NotEmpty(t, st.added.ID, "client assigns a fallback id")
	assert.Equal(t, "ana", st.added.ParticipantName, "name defaults to the email local part")
}

func TestRegister_EventNotFound(t *testing.T) {
	st := &fakeStore{events: map[string]model.CalendarEvent{}}
	flow := NewFlow(st, &fakeParticipantAPI{}, zap.NewNop())

	res := flow.Register(context.Background(), Input{EventID: "nope", ParticipantEmail: "a@b.ro"})
	assert.False(t, res.OK)
	assert.Equal(t, MsgNotFound, res.Message)
	assert.Zero(t, st.addCalls)
}

func TestRegister_FullEventRejectedBeforeNetworkCall(t *testing.T) {
	st := &fakeStore{events: map[string]model.CalendarEvent{"ev": cachedEvent("ev", 5, 5)}}
	flow := NewFlow(st, &fakeParticipantAPI{}, zap.NewNop())

	res := flow.Register(context.Background(), Input{EventID: "ev", ParticipantEmail: "a@b.ro"})
	assert.False(t, res.OK)
	assert.Equal(t, MsgFull, res.Message)
	assert.Zero(t, st.addCalls, "full event must be rejected locally, no network call")
}

func TestRegister_LastSpotFlipsFullThenBlocks(t *testing.T) {
	st := &fakeStore{events: map[string]model.CalendarEvent{"ev": cachedEvent("ev", 4, 3)}}
	flow := NewFlow(st, &fakeParticipantAPI{}, zap.NewNop())
	ctx := context.Background()

	res := flow.Register(ctx, Input{EventID: "ev", ParticipantEmail: "a@b.ro"})
	require.True(t, res.OK)
	got, _ := st.Event("ev")
	assert.True(t, got.IsFull)

	res = flow.Register(ctx, Input{EventID: "ev", ParticipantEmail: "b@c.ro"})
	assert.False(t, res.OK)
	assert.Equal(t, MsgFull, res.Message)
	assert.Equal(t, 1, st.addCalls, "second attempt must not reach the network")
}

func TestRegister_ServerErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"already registered", fmt.Errorf("%w: http 409", errs.ErrAlreadyRegistered), MsgAlreadyRegistered},
		{"server-side full", fmt.Errorf("%w: http 400", errs.ErrEventFull), MsgServerFull},
		{"generic failure", fmt.Errorf("boom"), MsgFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := &fakeStore{
				events: map[string]model.CalendarEvent{"ev": cachedEvent("ev", 10, 0)},
				addErr: tc.err,
			}
			flow := NewFlow(st, &fakeParticipantAPI{}, zap.NewNop())
			res := flow.Register(context.Background(), Input{EventID: "ev", ParticipantEmail: "a@b.ro"})
			assert.False(t, res.OK)
			assert.Equal(t, tc.message, res.Message)
		})
	}
}

func TestRegister_ZeroMaxNeverFullLocally(t *testing.T) {
	st := &fakeStore{events: map[string]model.CalendarEvent{"ev": cachedEvent("ev", 0, 7)}}
	flow := NewFlow(st, &fakeParticipantAPI{}, zap.NewNop())

	res := flow.Register(context.Background(), Input{EventID: "ev", ParticipantEmail: "a@b.ro"})
	assert.True(t, res.OK)
	assert.Equal(t, 1, st.addCalls)
}

func TestParticipantsAndRemove(t *testing.T) {
	api := &fakeParticipantAPI{list: []model.Participant{{ID: "1"}, {ID: "2"}}}
	flow := NewFlow(&fakeStore{}, api, zap.NewNop())
	ctx := context.Background()

	ps, err := flow.Participants(ctx, "ev")
	require.NoError(t, err)
	require.Len(t, ps, 2)

	require.NoError(t, flow.Remove(ctx, "1"))
	assert.Len(t, flow.participants, 1)
	assert.Equal(t, "2", flow.participants[0].ID)

	api.removeErr = fmt.Errorf("boom")
	assert.Error(t, flow.Remove(ctx, "2"))
	assert.Len(t, flow.participants, 1, "failed remove keeps the local list")
}
