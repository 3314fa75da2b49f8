package calendar

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"trainingcal/internal/model"
)

const datetimeLayout = "2006-01-02T15:04:05"

// ExportICS serializes calendar events into an iCalendar document so the
// schedule can be subscribed to from external calendar apps.
func ExportICS(events []model.CalendarEvent) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//trainingcal//EN")

	for _, e := range events {
		start, err := time.ParseInLocation(datetimeLayout, e.Start, time.Local)
		if err != nil {
			return "", fmt.Errorf("event %s: bad start %q: %w", e.ID, e.Start, err)
		}
		end, err := time.ParseInLocation(datetimeLayout, e.End, time.Local)
		if err != nil {
			return "", fmt.Errorf("event %s: bad end %q: %w", e.ID, e.End, err)
		}

		ve := cal.AddEvent(e.ID)
		ve.SetSummary(e.Title)
		ve.SetLocation(e.Location)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetDtStampTime(time.Now())
	}
	return cal.Serialize(), nil
}
