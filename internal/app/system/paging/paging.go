// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the number of rows shown in paged lists.
const PageSize = 50

// LimitPlusOne is the fetch size for look-ahead paging: one row past the
// page tells us whether a next page exists.
func LimitPlusOne() int64 { return int64(PageSize + 1) }

// ParseStart reads the 1-based "start" query parameter. Missing or invalid
// values mean 1.
func ParseStart(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "start"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Skip converts a 1-based start into a Mongo skip count.
func Skip(start int) int64 {
	if start < 1 {
		return 0
	}
	return int64(start - 1)
}

// Trim cuts a look-ahead fetch back to PageSize and reports whether the
// extra row was present.
func Trim[T any](rows *[]T) (hasNext bool) {
	if len(*rows) > PageSize {
		*rows = (*rows)[:PageSize]
		return true
	}
	return false
}

// Range holds the display bounds and neighbour links of one page.
type Range struct {
	Start     int // 1-based, 0 when the page is empty
	End       int
	PrevStart int
	NextStart int
	HasPrev   bool
	HasNext   bool
}

// ComputeRange describes the page beginning at start that shows shown rows.
func ComputeRange(start, shown int, hasNext bool) Range {
	prev := start - PageSize
	if prev < 1 {
		prev = 1
	}
	if shown == 0 {
		return Range{PrevStart: prev, NextStart: start, HasPrev: start > 1}
	}
	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: prev,
		NextStart: start + shown,
		HasPrev:   start > 1,
		HasNext:   hasNext,
	}
}
