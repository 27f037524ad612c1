package codec

import (
	"time"

	serial "github.com/bridgekit/serial"
)

// Timestamp is a point in time carried on the wire as milliseconds since the
// Unix epoch (the protocol's origin_server_ts convention).
type Timestamp struct {
	time.Time
}

// TimestampFromUnixMilli builds a Timestamp from a millisecond epoch value.
func TimestampFromUnixMilli(ms int64) Timestamp {
	return Timestamp{Time: time.UnixMilli(ms).UTC()}
}

// TimestampNow returns the current time truncated to millisecond precision,
// the resolution the wire format can represent.
func TimestampNow() Timestamp {
	return TimestampFromUnixMilli(time.Now().UnixMilli())
}

func (t Timestamp) MarshalDoc() serial.Value { return serial.Int(t.UnixMilli()) }

func (t *Timestamp) UnmarshalDoc(v serial.Value) error {
	ms, ok := v.Int64()
	if !ok {
		return serial.TypeMismatch("integer", v.Kind())
	}
	*t = TimestampFromUnixMilli(ms)
	return nil
}
