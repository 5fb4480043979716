package calendarlink_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/calendarlink"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogle(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ev := models.Event{
		Title:       "Hackathon & Demo",
		Description: "Bring a laptop",
		Venue:       "Lab 3",
		Date:        models.Instant{Time: time.Date(2026, 4, 2, 10, 0, 0, 0, ist)},
	}

	link := calendarlink.Google(ev)
	u, err := url.Parse(link)
	require.NoError(t, err)

	assert.Equal(t, "calendar.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Hackathon & Demo", q.Get("text"))
	assert.Equal(t, "20260402T043000Z/20260402T063000Z", q.Get("dates"))
	assert.Equal(t, "Bring a laptop", q.Get("details"))
	assert.Equal(t, "Lab 3", q.Get("location"))
}
