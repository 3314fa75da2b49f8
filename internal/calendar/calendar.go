// Package calendar maps store state into the calendar widget's
// configuration and exports cached events as an iCalendar feed.
package calendar

import (
	"time"

	"trainingcal/internal/model"
)

// Romanian month names, January first.
var Months = []string{
	"Ianuarie", "Februarie", "Martie", "Aprilie", "Mai", "Iunie",
	"Iulie", "August", "Septembrie", "Octombrie", "Noiembrie", "Decembrie",
}

// Romanian weekday names, Monday first.
var Weekdays = []string{
	"Luni", "Marți", "Miercuri", "Joi", "Vineri", "Sâmbătă", "Duminică",
}

// Supported widget views.
const (
	ViewMonth = "dayGridMonth"
	ViewWeek  = "timeGridWeek"
	ViewDay   = "timeGridDay"
)

// SlotLabelFormat describes how time-grid slot labels are rendered.
type SlotLabelFormat struct {
	Hour           string `json:"hour"`
	Minute         string `json:"minute"`
	OmitZeroMinute bool   `json:"omitZeroMinute"`
	Hour12         bool   `json:"hour12"`
}

// ViewOptions holds per-view overrides.
type ViewOptions struct {
	DayMaxEventRows int              `json:"dayMaxEventRows,omitempty"`
	SlotLabelFormat *SlotLabelFormat `json:"slotLabelFormat,omitempty"`
	DayHeaderFormat map[string]string `json:"dayHeaderFormat,omitempty"`
}

// Options is the widget configuration derived from store state and the
// viewer's role. Field names follow the widget's option surface.
type Options struct {
	InitialView       string                 `json:"initialView"`
	Locale            string                 `json:"locale"`
	FirstDay          int                    `json:"firstDay"`
	HeaderToolbar     bool                   `json:"headerToolbar"`
	Events            []model.CalendarEvent  `json:"events"`
	Selectable        bool                   `json:"selectable"`
	Editable          bool                   `json:"editable"`
	Height            string                 `json:"height"`
	InitialDate       string                 `json:"initialDate"`
	DayMaxEvents      bool                   `json:"dayMaxEvents"`
	AllDaySlot        bool                   `json:"allDaySlot"`
	SlotMinTime       string                 `json:"slotMinTime"`
	SlotMaxTime       string                 `json:"slotMaxTime"`
	SlotDuration      string                 `json:"slotDuration"`
	SlotLabelInterval string                 `json:"slotLabelInterval"`
	SlotLabelFormat   SlotLabelFormat        `json:"slotLabelFormat"`
	Views             map[string]ViewOptions `json:"views"`
}

// NewOptions builds the widget configuration. Selection and editing are
// enabled only for admins; the date window starts at the first of the
// given month (1-12).
func NewOptions(view string, year, month int, isAdmin bool, events []model.CalendarEvent) Options {
	if view == "" {
		view = ViewMonth
	}
	hourLabels := SlotLabelFormat{Hour: "numeric", Minute: "2-digit"}
	return Options{
		InitialView:       view,
		Locale:            "ro",
		FirstDay:          1, // Monday
		HeaderToolbar:     false,
		Events:            events,
		Selectable:        isAdmin,
		Editable:          isAdmin,
		Height:            "auto",
		InitialDate:       time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local).Format("2006-01-02"),
		DayMaxEvents:      true,
		AllDaySlot:        true,
		SlotMinTime:       "08:00:00",
		SlotMaxTime:       "20:00:00",
		SlotDuration:      "00:30:00",
		SlotLabelInterval: "01:00:00",
		SlotLabelFormat:   hourLabels,
		Views: map[string]ViewOptions{
			ViewMonth: {DayMaxEventRows: 4},
			ViewWeek:  {SlotLabelFormat: &hourLabels},
			ViewDay: {DayHeaderFormat: map[string]string{
				"weekday": "long", "month": "long", "day": "numeric",
			}},
		},
	}
}
