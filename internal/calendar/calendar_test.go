package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingcal/internal/model"
)

func TestNewOptions_AdminControlsEditing(t *testing.T) {
	events := []model.CalendarEvent{{ID: "a"}}

	opts := NewOptions("", 2025, 6, true, events)
	assert.Equal(t, ViewMonth, opts.InitialView, "empty view falls back to month")
	assert.Equal(t, "ro", opts.Locale)
	assert.Equal(t, 1, opts.FirstDay)
	assert.Equal(t, "2025-06-01", opts.InitialDate)
	assert.True(t, opts.Selectable)
	assert.True(t, opts.Editable)
	assert.Len(t, opts.Events, 1)

	opts = NewOptions(ViewWeek, 2025, 6, false, nil)
	assert.Equal(t, ViewWeek, opts.InitialView)
	assert.False(t, opts.Selectable)
	assert.False(t, opts.Editable)
}

func TestNewOptions_TimeGridWindow(t *testing.T) {
	opts := NewOptions(ViewDay, 2025, 1, false, nil)
	assert.Equal(t, "08:00:00", opts.SlotMinTime)
	assert.Equal(t, "20:00:00", opts.SlotMaxTime)
	assert.Equal(t, "00:30:00", opts.SlotDuration)
	assert.Equal(t, "01:00:00", opts.SlotLabelInterval)

	require.Contains(t, opts.Views, ViewMonth)
	assert.Equal(t, 4, opts.Views[ViewMonth].DayMaxEventRows)
	require.Contains(t, opts.Views, ViewDay)
	assert.Equal(t, "long", opts.Views[ViewDay].DayHeaderFormat["weekday"])
}

func TestLocalizedNames(t *testing.T) {
	require.Len(t, Months, 12)
	assert.Equal(t, "Ianuarie", Months[0])
	require.Len(t, Weekdays, 7)
	assert.Equal(t, "Luni", Weekdays[0])
}

func TestExportICS(t *testing.T) {
	events := []model.CalendarEvent{
		{
			ID:       "ev-1",
			Title:    "ZIUA CONSULTANȚEI - București (09:00-17:00) 0/10",
			Start:    "2025-06-01T09:00:00",
			End:      "2025-06-01T17:00:00",
			Location: "București",
		},
	}

	out, err := ExportICS(events)
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "UID:ev-1")
	assert.Contains(t, out, "SUMMARY:ZIUA CONSULTANȚEI - Bucure")
	assert.Contains(t, out, "DTSTART")
	assert.Contains(t, out, "DTEND")
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestExportICS_BadTimestamp(t *testing.T) {
	_, err := ExportICS([]model.CalendarEvent{{ID: "x", Start: "not-a-time"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x")
}

func TestExportICS_Empty(t *testing.T) {
	out, err := ExportICS(nil)
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
