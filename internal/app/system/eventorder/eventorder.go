// Package eventorder orders and filters event snapshots for display.
package eventorder

import (
	"sort"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/audience"
	"github.com/dalemusser/campushub/internal/domain/models"
)

// Split returns the upcoming events (date >= now) soonest first and the
// expired events (date < now) most recent first. Ties keep input order.
func Split(events []models.Event, now time.Time) (upcoming, expired []models.Event) {
	upcoming = make([]models.Event, 0, len(events))
	expired = make([]models.Event, 0)
	for _, e := range events {
		if e.Expired(now) {
			expired = append(expired, e)
		} else {
			upcoming = append(upcoming, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date.Time)
	})
	sort.SliceStable(expired, func(i, j int) bool {
		return expired[i].Date.After(expired[j].Date.Time)
	})
	return upcoming, expired
}

// Partition is Split concatenated: upcoming first, then expired.
func Partition(events []models.Event, now time.Time) []models.Event {
	upcoming, expired := Split(events, now)
	return append(upcoming, expired...)
}

// Criteria is the student event filter. Empty fields do not filter.
type Criteria struct {
	Category     string
	Venue        string
	Branches     []string
	Semesters    []int
	UpcomingOnly bool
}

// Select returns the events matching c, partitioned.
func Select(events []models.Event, c Criteria, now time.Time) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if c.Category != "" && e.Category != c.Category {
			continue
		}
		if c.Venue != "" && e.Venue != c.Venue {
			continue
		}
		if c.UpcomingOnly && e.Expired(now) {
			continue
		}
		if !audience.MatchesAny(audience.Target{Branches: e.Branches, Semesters: e.Semesters}, c.Branches, c.Semesters) {
			continue
		}
		out = append(out, e)
	}
	return Partition(out, now)
}

// VolunteerOpen returns upcoming events that accept volunteers, soonest first.
// An event is upcoming here only if its date is strictly after now.
func VolunteerOpen(events []models.Event, now time.Time) []models.Event {
	out := make([]models.Event, 0)
	for _, e := range events {
		if e.EnableVolunteers && e.Date.After(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// Facets lists the distinct categories and venues in events, in first-seen
// order, for filter dropdowns.
func Facets(events []models.Event) (categories, venues []string) {
	seenC := map[string]bool{}
	seenV := map[string]bool{}
	for _, e := range events {
		if e.Category != "" && !seenC[e.Category] {
			seenC[e.Category] = true
			categories = append(categories, e.Category)
		}
		if e.Venue != "" && !seenV[e.Venue] {
			seenV[e.Venue] = true
			venues = append(venues, e.Venue)
		}
	}
	return categories, venues
}
