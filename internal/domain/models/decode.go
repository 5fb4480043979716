// internal/domain/models/decode.go
package models

import "sync/atomic"

// DecodeIssue describes a stored value that was dropped while decoding so
// that one bad legacy document cannot fail a whole list read.
type DecodeIssue struct {
	Field string
	Raw   string
	Err   error
}

var decodeReporter atomic.Pointer[func(DecodeIssue)]

// OnDecodeIssue installs fn to hear about dropped values. Bootstrap points
// it at the logger; nil removes it.
func OnDecodeIssue(fn func(DecodeIssue)) {
	if fn == nil {
		decodeReporter.Store(nil)
		return
	}
	decodeReporter.Store(&fn)
}

func reportDecodeIssue(field, raw string, err error) {
	if fn := decodeReporter.Load(); fn != nil {
		(*fn)(DecodeIssue{Field: field, Raw: raw, Err: err})
	}
}
