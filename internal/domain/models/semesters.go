// internal/domain/models/semesters.go
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Semesters is a set of semester numbers. Older documents store the values
// as strings ("3") or doubles; both decode to ints. Values that are not
// whole numbers ("III", 2.5) are dropped and reported, so a set holding only
// bad values reads as empty, which is global. Encodes as an int array.
type Semesters []int

// Contains reports whether n is in the set.
func (s Semesters) Contains(n int) bool {
	for _, v := range s {
		if v == n {
			return true
		}
	}
	return false
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (s Semesters) MarshalBSONValue() (bsontype.Type, []byte, error) {
	out := []int(s)
	if out == nil {
		out = []int{}
	}
	return bson.MarshalValue(out)
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (s *Semesters) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null || t == bsontype.Undefined {
		*s = nil
		return nil
	}
	if t != bsontype.Array {
		reportDecodeIssue("semesters", bson.RawValue{Type: t, Value: data}.String(),
			fmt.Errorf("cannot decode %s into Semesters", t))
		*s = nil
		return nil
	}
	rv := bson.RawValue{Type: t, Value: data}
	vals, err := rv.Array().Values()
	if err != nil {
		return err
	}
	out := make(Semesters, 0, len(vals))
	for _, v := range vals {
		n, err := semesterValue(v)
		if err != nil {
			reportDecodeIssue("semesters", v.String(), err)
			continue
		}
		out = append(out, n)
	}
	*s = out
	return nil
}

func semesterValue(v bson.RawValue) (int, error) {
	switch v.Type {
	case bsontype.Int32:
		return int(v.Int32()), nil
	case bsontype.Int64:
		return int(v.Int64()), nil
	case bsontype.Double:
		f := v.Double()
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("semester %v is not whole", f)
		}
		return int(f), nil
	case bsontype.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.StringValue()))
		if err != nil {
			return 0, fmt.Errorf("semester %q: %w", v.StringValue(), err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("cannot decode %s as semester", v.Type)
}
