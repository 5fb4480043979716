// Package calendarlink builds "Add to Google Calendar" links for events.
package calendarlink

import (
	"net/url"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// Duration is the length given to calendar entries; events carry only a
// start time.
const Duration = 2 * time.Hour

const stamp = "20060102T150405Z"

// Google returns the Google Calendar template URL for ev.
func Google(ev models.Event) string {
	start := ev.Date.UTC()
	end := start.Add(Duration)

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", ev.Title)
	q.Set("dates", start.Format(stamp)+"/"+end.Format(stamp))
	q.Set("details", ev.Description)
	q.Set("location", ev.Venue)
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}
