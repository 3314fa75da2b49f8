package form

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trainingcal/internal/errs"
	"trainingcal/internal/model"
)

type fakeChecker struct {
	mu     sync.Mutex
	status model.ConflictStatus
	calls  []string
}

func (c *fakeChecker) CheckTimeConflict(_ context.Context, date, start, end, exclude string) model.ConflictStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, date+"_"+start+"_"+end+"_"+exclude)
	return c.status
}

func (c *fakeChecker) callLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func newTestForm(status model.ConflictStatus) (*Form, *fakeChecker) {
	checker := &fakeChecker{status: status}
	return New(checker, zap.NewNop(), 20*time.Millisecond), checker
}

func TestDefaults(t *testing.T) {
	f, _ := newTestForm(model.NoConflict)
	fd := f.Fields()
	assert.Equal(t, "CONSULTANTA", fd.Category)
	assert.Equal(t, "09:00", fd.StartTime)
	assert.Equal(t, "17:00", fd.EndTime)
	assert.Equal(t, 10, fd.MaxParticipants)
}

func TestValidate(t *testing.T) {
	f, _ := newTestForm(model.NoConflict)
	err := f.Validate()
	require.Error(t, err, "empty location/date must not validate")
	assert.ErrorIs(t, err, errs.ErrValidation)

	f.SetLocation("București")
	f.SetDate("2025-06-01")
	require.NoError(t, f.Validate())

	f.SetMaxParticipants(0)
	assert.Error(t, f.Validate())
	f.SetMaxParticipants(10)

	f.SetStartTime("18:00") // after end
	err = f.Validate()
	require.Error(t, err)
	assert.Equal(t, MsgTimeOrder, f.Err())
}

func TestDebounce_CoalescesEditsIntoOneCheck(t *testing.T) {
	f, checker := newTestForm(model.NoConflict)

	// Three rapid edits inside the debounce window.
	f.SetDate("2025-06-01")
	f.SetStartTime("10:00")
	f.SetEndTime("12:00")
	f.Flush()

	calls := checker.callLog()
	require.Len(t, calls, 1, "rapid edits must coalesce into a single check")
	assert.Equal(t, "2025-06-01_10:00_12:00_", calls[0])
}

func TestDebounce_SkipsWhileRangeInvalid(t *testing.T) {
	f, checker := newTestForm(model.NoConflict)

	f.SetDate("2025-06-01")
	f.SetStartTime("18:00") // start after the default 17:00 end
	f.Flush()
	time.Sleep(40 * time.Millisecond)

	assert.Empty(t, checker.callLog(), "invalid range must not be checked remotely")
}

func TestCheckConflicts_MemoizesIdenticalParameters(t *testing.T) {
	f, checker := newTestForm(model.NoConflict)
	f.SetLocation("București")
	f.SetDate("2025-06-01")
	f.Flush()

	ctx := context.Background()
	f.CheckConflicts(ctx)
	f.CheckConflicts(ctx)
	assert.Len(t, checker.callLog(), 1, "identical parameters must be checked once")

	f.SetStartTime("10:00")
	f.CheckConflicts(ctx)
	f.Flush()
	assert.GreaterOrEqual(t, len(checker.callLog()), 2)
}

func TestCheckConflicts_ConflictBlocksAndEditClears(t *testing.T) {
	f, _ := newTestForm(model.Conflict)
	f.SetDate("2025-06-01")
	f.Flush()

	assert.True(t, f.TimeConflict())
	assert.Equal(t, MsgTimeConflict, f.Err())

	// Any further edit clears the blocking message.
	f.SetStartTime("10:30")
	assert.False(t, f.TimeConflict())
	assert.Empty(t, f.Err())
	f.Flush()
}

func TestCheckConflicts_UnknownDoesNotBlock(t *testing.T) {
	f, _ := newTestForm(model.ConflictUnknown)
	f.SetDate("2025-06-01")
	f.Flush()

	assert.False(t, f.TimeConflict(), "a failed check must not block submission")
	assert.Empty(t, f.Err())
}

func TestCheckConflicts_InvalidOrderSetsMessage(t *testing.T) {
	f, checker := newTestForm(model.NoConflict)
	f.mu.Lock()
	f.fields.Date = "2025-06-01"
	f.fields.StartTime = "18:00"
	f.mu.Unlock()

	f.CheckConflicts(context.Background())
	assert.Equal(t, MsgTimeOrder, f.Err())
	assert.False(t, f.TimeConflict())
	assert.Empty(t, checker.callLog())
}

func TestEdit_SeedsAndExcludesEventID(t *testing.T) {
	f, checker := newTestForm(model.NoConflict)
	f.Edit(Fields{ID: "ev-7", Location: "Cluj", Date: "2025-06-02"})

	fd := f.Fields()
	assert.Equal(t, "CONSULTANTA", fd.Category, "zero fields fall back to defaults")
	assert.Equal(t, "Cluj", fd.Location)

	f.CheckConflicts(context.Background())
	calls := checker.callLog()
	require.Len(t, calls, 1)
	assert.Equal(t, "2025-06-02_09:00_17:00_ev-7", calls[0])
}

func TestReset(t *testing.T) {
	f, _ := newTestForm(model.Conflict)
	f.Edit(Fields{ID: "x", Location: "Cluj", Date: "2025-06-01"})
	f.CheckConflicts(context.Background())
	require.True(t, f.TimeConflict())

	f.Reset()
	assert.False(t, f.TimeConflict())
	assert.Empty(t, f.Err())
	assert.Equal(t, Defaults(""), f.Fields())
}

func TestRequest_NormalizesDate(t *testing.T) {
	f, _ := newTestForm(model.NoConflict)
	f.SetLocation("București")
	f.SetDate("2025-06-01T00:00:00Z")
	f.Flush()

	req := f.Request()
	assert.Equal(t, "2025-06-01", req.EventDate)
	assert.Equal(t, "CONSULTANTA", req.CategoryID)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2025-06-01", NormalizeDate("2025-06-01"))
	assert.Equal(t, "2025-06-01", NormalizeDate("2025-06-01T12:30:00Z"))
	assert.Equal(t, "2025-06-01", NormalizeDate("01.06.2025"))
	assert.Equal(t, "", NormalizeDate("not a date"))
	assert.Equal(t, "", NormalizeDate(""))
}
