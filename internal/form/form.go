// Package form holds the transient, editable copy of event fields and
// validates it against local constraints and the server-side conflict check
// before submission.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"trainingcal/internal/errs"
	"trainingcal/internal/model"
)

// Messages surfaced through Err().
const (
	MsgTimeOrder    = "End time must be after start time"
	MsgTimeConflict = "This time slot conflicts with another event. Please choose a different time."
)

const defaultDebounce = 500 * time.Millisecond

// ConflictChecker is the store-side dependency for server conflict checks.
type ConflictChecker interface {
	CheckTimeConflict(ctx context.Context, date, startTime, endTime, excludeEventID string) model.ConflictStatus
}

// Fields is the editable form state.
type Fields struct {
	ID              string
	Category        string `validate:"required"`
	Location        string `validate:"required"`
	Date            string `validate:"required"`
	StartTime       string `validate:"required"`
	EndTime         string `validate:"required"`
	MaxParticipants int    `validate:"required,gt=0"`
	Description     string
	Participants    []model.Participant
}

// Defaults returns the initial form state for a new event, optionally
// preselecting a date.
func Defaults(date string) Fields {
	return Fields{
		Category:        "CONSULTANTA",
		Date:            date,
		StartTime:       "09:00",
		EndTime:         "17:00",
		MaxParticipants: 10,
	}
}

// Form owns the view-state of the create/edit dialog. Changing any of the
// date/time fields schedules a debounced server-side conflict check; rapid
// edits coalesce into one request carrying the last edit's parameters.
type Form struct {
	checker  ConflictChecker
	logger   *zap.Logger
	validate *validator.Validate
	wait     time.Duration

	mu           sync.Mutex
	fields       Fields
	editMode     bool
	errMsg       string
	timeConflict bool
	lastCheckKey string
	timer        *time.Timer
	pending      sync.WaitGroup
}

// New constructs a Form for creating an event. debounce <= 0 selects the
// default 500ms window.
func New(checker ConflictChecker, logger *zap.Logger, debounce time.Duration) *Form {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Form{
		checker:  checker,
		logger:   logger,
		validate: validator.New(),
		wait:     debounce,
		fields:   Defaults(""),
	}
}

// Edit switches the form to edit mode, seeded from an existing event. Zero
// fields fall back to the create defaults, mirroring a partially loaded
// initial record.
func (f *Form) Edit(initial Fields) {
	def := Defaults("")
	if initial.Category == "" {
		initial.Category = def.Category
	}
	if initial.StartTime == "" {
		initial.StartTime = def.StartTime
	}
	if initial.EndTime == "" {
		initial.EndTime = def.EndTime
	}
	if initial.MaxParticipants == 0 {
		initial.MaxParticipants = def.MaxParticipants
	}
	f.mu.Lock()
	f.fields = initial
	f.editMode = true
	f.mu.Unlock()
}

// Fields returns a snapshot of the current form state.
func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Err returns the current human-readable error, "" when none.
func (f *Form) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// TimeConflict reports whether the last completed check found a conflict.
// Submit handlers must consult this before calling the store.
func (f *Form) TimeConflict() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timeConflict
}

// SetCategory sets the category field.
func (f *Form) SetCategory(v string) {
	f.mu.Lock()
	f.fields.Category = v
	f.mu.Unlock()
}

// SetLocation sets the location field.
func (f *Form) SetLocation(v string) {
	f.mu.Lock()
	f.fields.Location = v
	f.mu.Unlock()
}

// SetMaxParticipants sets the capacity field.
func (f *Form) SetMaxParticipants(v int) {
	f.mu.Lock()
	f.fields.MaxParticipants = v
	f.mu.Unlock()
}

// SetDescription sets the description field.
func (f *Form) SetDescription(v string) {
	f.mu.Lock()
	f.fields.Description = v
	f.mu.Unlock()
}

// SetDate sets the date and re-schedules the conflict check.
func (f *Form) SetDate(v string) {
	f.mu.Lock()
	f.fields.Date = v
	f.onTimeFieldChangedLocked()
	f.mu.Unlock()
}

// SetStartTime sets the start time and re-schedules the conflict check.
func (f *Form) SetStartTime(v string) {
	f.mu.Lock()
	f.fields.StartTime = v
	f.onTimeFieldChangedLocked()
	f.mu.Unlock()
}

// SetEndTime sets the end time and re-schedules the conflict check.
func (f *Form) SetEndTime(v string) {
	f.mu.Lock()
	f.fields.EndTime = v
	f.onTimeFieldChangedLocked()
	f.mu.Unlock()
}

// onTimeFieldChangedLocked clears any previous conflict verdict (stale after
// the edit) and schedules a debounced check when the local ordering
// invariant holds. Each edit resets the single pending timer, so only the
// last edit within the window fires.
func (f *Form) onTimeFieldChangedLocked() {
	if f.errMsg == MsgTimeConflict {
		f.errMsg = ""
	}
	f.timeConflict = false

	fd := f.fields
	if fd.Date == "" || fd.StartTime == "" || fd.EndTime == "" || fd.StartTime >= fd.EndTime {
		return
	}
	if f.timer != nil && f.timer.Stop() {
		f.pending.Done() // cancelled before firing
	}
	f.pending.Add(1)
	var t *time.Timer
	t = time.AfterFunc(f.wait, func() {
		defer f.pending.Done()
		f.mu.Lock()
		if f.timer == t {
			f.timer = nil
		}
		f.mu.Unlock()
		f.CheckConflicts(context.Background())
	})
	f.timer = t
}

// CheckConflicts runs the server-side conflict check immediately. Checks
// with the same (date, startTime, endTime, event) tuple as the previous one
// are skipped.
func (f *Form) CheckConflicts(ctx context.Context) {
	f.mu.Lock()
	fd := f.fields
	editMode := f.editMode

	if fd.Date == "" || fd.StartTime == "" || fd.EndTime == "" {
		f.timeConflict = false
		f.errMsg = ""
		f.mu.Unlock()
		return
	}
	if fd.EndTime <= fd.StartTime {
		// Not a conflict with other events, just an invalid range.
		f.timeConflict = false
		f.errMsg = MsgTimeOrder
		f.mu.Unlock()
		return
	}

	exclude := ""
	if editMode {
		exclude = fd.ID
	}
	key := fmt.Sprintf("%s_%s_%s_%s", fd.Date, fd.StartTime, fd.EndTime, keyID(editMode, fd.ID))
	if f.lastCheckKey == key {
		f.logger.Debug("skipping redundant conflict check", zap.String("key", key))
		f.mu.Unlock()
		return
	}
	f.lastCheckKey = key
	f.mu.Unlock()

	date := NormalizeDate(fd.Date)
	if date == "" {
		return
	}
	status := f.checker.CheckTimeConflict(ctx, date, fd.StartTime, fd.EndTime, exclude)

	f.mu.Lock()
	defer f.mu.Unlock()
	switch status {
	case model.Conflict:
		f.timeConflict = true
		f.errMsg = MsgTimeConflict
	case model.NoConflict:
		f.timeConflict = false
		if f.errMsg == MsgTimeConflict {
			f.errMsg = ""
		}
	case model.ConflictUnknown:
		// Could not check; do not block submission, the server will still
		// reject a real overlap with a 409.
		f.logger.Warn("conflict check unavailable")
		f.timeConflict = false
		if f.errMsg == MsgTimeConflict {
			f.errMsg = ""
		}
	}
}

// Flush waits for any scheduled debounced check to complete. Intended for
// submit handlers that want the latest verdict.
func (f *Form) Flush() {
	f.pending.Wait()
}

// Validate applies the local invariants: required fields, positive
// capacity, start strictly before end.
func (f *Form) Validate() error {
	f.mu.Lock()
	fd := f.fields
	f.mu.Unlock()

	if err := f.validate.Struct(fd); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrValidation, missingFields(err))
	}
	if fd.EndTime <= fd.StartTime {
		f.mu.Lock()
		f.errMsg = MsgTimeOrder
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", errs.ErrValidation, MsgTimeOrder)
	}
	return nil
}

// IsValid reports whether the form currently passes local validation.
func (f *Form) IsValid() bool { return f.Validate() == nil }

// Reset restores the create defaults and clears all validation state.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		if f.timer.Stop() {
			f.pending.Done()
		}
		f.timer = nil
	}
	f.fields = Defaults("")
	f.editMode = false
	f.errMsg = ""
	f.timeConflict = false
	f.lastCheckKey = ""
}

// Request produces the submission payload with the date normalized to
// YYYY-MM-DD.
func (f *Form) Request() model.EventRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.EventRequest{
		ID:              f.fields.ID,
		EventDate:       NormalizeDate(f.fields.Date),
		StartTime:       f.fields.StartTime,
		EndTime:         f.fields.EndTime,
		CategoryID:      f.fields.Category,
		Location:        f.fields.Location,
		MaxParticipants: f.fields.MaxParticipants,
		Description:     f.fields.Description,
		Participants:    f.fields.Participants,
	}
}

func keyID(editMode bool, id string) string {
	if editMode && id != "" {
		return id
	}
	return "new"
}

// NormalizeDate coerces a date input to YYYY-MM-DD, accepting already
// formatted strings, datetime strings, and a few common layouts. Returns ""
// when the input cannot be interpreted.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "02.01.2006", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func missingFields(err error) string {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return err.Error()
	}
	names := make([]string, 0, len(verr))
	for _, fe := range verr {
		names = append(names, fe.Field())
	}
	return "invalid fields: " + strings.Join(names, ", ")
}
