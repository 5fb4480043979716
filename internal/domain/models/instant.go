// internal/domain/models/instant.go
package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Instant is a point in time that decodes from a BSON datetime, a BSON
// timestamp, or a date string written by older clients. It always encodes
// as a BSON datetime.
type Instant struct {
	time.Time
}

// At wraps t as an Instant in UTC.
func At(t time.Time) Instant {
	return Instant{Time: t.UTC()}
}

// Layouts accepted for string-encoded dates, tried in order.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant parses s using the accepted layouts.
// Strings without a zone are read as UTC.
func ParseInstant(s string) (Instant, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return At(t), nil
		}
	}
	return Instant{}, fmt.Errorf("unrecognized date %q", s)
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (i Instant) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(i.Time.UTC())
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (i *Instant) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		*i = At(rv.Time())
	case bsontype.Timestamp:
		sec, _ := rv.Timestamp()
		*i = At(time.Unix(int64(sec), 0))
	case bsontype.String:
		parsed, err := ParseInstant(rv.StringValue())
		if err != nil {
			return err
		}
		*i = parsed
	case bsontype.Null, bsontype.Undefined:
		*i = Instant{}
	default:
		return fmt.Errorf("cannot decode %s into Instant", t)
	}
	return nil
}
