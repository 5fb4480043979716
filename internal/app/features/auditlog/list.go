// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	dayLayout  = "2006-01-02"
	whenLayout = "Jan 2 2006 15:04:05 UTC"
)

// ServeList handles GET /audit: newest events first, filtered by category,
// event type and an inclusive UTC date range.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	category := query.Get(r, "category")
	if _, ok := eventsByCategory[category]; !ok {
		category = ""
	}
	eventType := query.Get(r, "event_type")
	if _, ok := eventLabels[eventType]; !ok {
		eventType = ""
	}
	startDate, endDate := query.Get(r, "start_date"), query.Get(r, "end_date")
	start := paging.ParseStart(r)

	filter := audit.Filter{
		Category:  category,
		EventType: eventType,
		Limit:     paging.LimitPlusOne(),
		Offset:    paging.Skip(start),
	}
	filter.From, filter.Before = dayRange(startDate, endDate)

	events, err := h.Audit.Find(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "Could not load the audit log.", "/dashboard/admin")
		return
	}
	hasNext := paging.Trim(&events)

	items := buildItems(events, h.resolveNames(ctx, events))
	rng := paging.ComputeRange(start, len(items), hasNext)

	base := url.Values{}
	for k, v := range map[string]string{"category": category, "event_type": eventType, "start_date": startDate, "end_date": endDate} {
		if v != "" {
			base.Set(k, v)
		}
	}

	templates.Render(w, r, "audit_list", listData{
		BaseVM:     viewdata.NewBaseVM(r, "Audit log", "/dashboard/admin"),
		Items:      items,
		Category:   category,
		EventType:  eventType,
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: categories,
		EventTypes: eventTypeOptions(category),
		Range:      rng,
		PrevURL:    pageURL(base, rng.PrevStart),
		NextURL:    pageURL(base, rng.NextStart),
	})
}

// dayRange turns YYYY-MM-DD bounds into an inclusive UTC window. Blank or
// malformed bounds are open.
func dayRange(from, to string) (lo, before time.Time) {
	if t, err := time.Parse(dayLayout, from); err == nil {
		lo = t
	}
	if t, err := time.Parse(dayLayout, to); err == nil {
		before = t.AddDate(0, 0, 1)
	}
	return lo, before
}

func pageURL(base url.Values, start int) string {
	v := url.Values{}
	for k, vals := range base {
		v[k] = vals
	}
	if start > 1 {
		v.Set("start", strconv.Itoa(start))
	}
	if len(v) == 0 {
		return "/audit"
	}
	return "/audit?" + v.Encode()
}

// resolveNames looks up display names for every actor and subject on the
// page. A lookup failure leaves ids unresolved.
func (h *Handler) resolveNames(ctx context.Context, events []audit.Event) map[primitive.ObjectID]string {
	seen := map[primitive.ObjectID]struct{}{}
	var ids []primitive.ObjectID
	add := func(id *primitive.ObjectID) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; !ok {
			seen[*id] = struct{}{}
			ids = append(ids, *id)
		}
	}
	for _, e := range events {
		add(e.ActorID)
		add(e.UserID)
	}

	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	users, err := h.Users.ListByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("resolve audit names failed", zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.ID] = u.DisplayName(u.Email)
	}
	return names
}

func buildItems(events []audit.Event, names map[primitive.ObjectID]string) []listItem {
	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{
			When:       e.Timestamp.UTC().Format(whenLayout),
			Category:   e.Category,
			EventType:  e.EventType,
			Label:      labelFor(e.EventType),
			ActorName:  nameOf(e.ActorID, names),
			TargetName: nameOf(e.UserID, names),
			IP:         e.IP,
			Success:    e.Success,
			Failure:    e.FailureReason,
			Details:    sortedDetails(e.Details),
		})
	}
	return items
}

func nameOf(id *primitive.ObjectID, names map[primitive.ObjectID]string) string {
	if id == nil {
		return ""
	}
	if n, ok := names[*id]; ok {
		return n
	}
	return id.Hex()
}

func sortedDetails(m map[string]string) []detail {
	out := make([]detail, 0, len(m))
	for k, v := range m {
		out = append(out, detail{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
