// Package codec provides the protocol-defined leaf wire types that plug into
// the generic record codec through the custom-serializable capability:
// identifiers, content URIs, timestamps, and the membership enumeration.
package codec

import (
	"fmt"
	"strings"

	serial "github.com/bridgekit/serial"
)

// UserID is a Matrix user identifier of the form @localpart:server.
type UserID string

// ParseUserID validates s as a user identifier.
func ParseUserID(s string) (UserID, error) {
	if err := checkSigilID(s, '@', true); err != nil {
		return "", err
	}
	return UserID(s), nil
}

func (id UserID) String() string { return string(id) }

// Localpart returns the part between the sigil and the first colon.
func (id UserID) Localpart() string { return localpart(string(id)) }

// Homeserver returns the server name after the first colon.
func (id UserID) Homeserver() string { return homeserver(string(id)) }

func (id UserID) MarshalDoc() serial.Value { return serial.String(string(id)) }

func (id *UserID) UnmarshalDoc(v serial.Value) error {
	s, err := stringPayload(v)
	if err != nil {
		return err
	}
	parsed, err := ParseUserID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// RoomID is a Matrix room identifier of the form !opaque:server.
type RoomID string

// ParseRoomID validates s as a room identifier.
func ParseRoomID(s string) (RoomID, error) {
	if err := checkSigilID(s, '!', true); err != nil {
		return "", err
	}
	return RoomID(s), nil
}

func (id RoomID) String() string     { return string(id) }
func (id RoomID) Homeserver() string { return homeserver(string(id)) }

func (id RoomID) MarshalDoc() serial.Value { return serial.String(string(id)) }

func (id *RoomID) UnmarshalDoc(v serial.Value) error {
	s, err := stringPayload(v)
	if err != nil {
		return err
	}
	parsed, err := ParseRoomID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// RoomAlias is a Matrix room alias of the form #localpart:server.
type RoomAlias string

// ParseRoomAlias validates s as a room alias.
func ParseRoomAlias(s string) (RoomAlias, error) {
	if err := checkSigilID(s, '#', true); err != nil {
		return "", err
	}
	return RoomAlias(s), nil
}

func (id RoomAlias) String() string     { return string(id) }
func (id RoomAlias) Localpart() string  { return localpart(string(id)) }
func (id RoomAlias) Homeserver() string { return homeserver(string(id)) }

func (id RoomAlias) MarshalDoc() serial.Value { return serial.String(string(id)) }

func (id *RoomAlias) UnmarshalDoc(v serial.Value) error {
	s, err := stringPayload(v)
	if err != nil {
		return err
	}
	parsed, err := ParseRoomAlias(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// EventID is a Matrix event identifier. Modern room versions use an opaque
// $base64 form; older versions carried a server part, so none is required.
type EventID string

// ParseEventID validates s as an event identifier.
func ParseEventID(s string) (EventID, error) {
	if err := checkSigilID(s, '$', false); err != nil {
		return "", err
	}
	return EventID(s), nil
}

func (id EventID) String() string { return string(id) }

func (id EventID) MarshalDoc() serial.Value { return serial.String(string(id)) }

func (id *EventID) UnmarshalDoc(v serial.Value) error {
	s, err := stringPayload(v)
	if err != nil {
		return err
	}
	parsed, err := ParseEventID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ContentURI is a Matrix content address of the form mxc://server/mediaID.
type ContentURI struct {
	Homeserver string
	FileID     string
}

const mxcScheme = "mxc://"

// ParseContentURI validates and splits an mxc:// URI.
func ParseContentURI(s string) (ContentURI, error) {
	if !strings.HasPrefix(s, mxcScheme) {
		return ContentURI{}, serial.NewError(serial.CodeUnknown, fmt.Sprintf("content URI %q does not start with mxc://", s))
	}
	rest := s[len(mxcScheme):]
	slash := strings.IndexByte(rest, '/')
	if slash <= 0 || slash == len(rest)-1 {
		return ContentURI{}, serial.NewError(serial.CodeUnknown, fmt.Sprintf("content URI %q is missing a server or media part", s))
	}
	return ContentURI{Homeserver: rest[:slash], FileID: rest[slash+1:]}, nil
}

// IsEmpty reports whether the URI is the zero value.
func (c ContentURI) IsEmpty() bool { return c.Homeserver == "" && c.FileID == "" }

func (c ContentURI) String() string {
	if c.IsEmpty() {
		return ""
	}
	return mxcScheme + c.Homeserver + "/" + c.FileID
}

func (c ContentURI) MarshalDoc() serial.Value { return serial.String(c.String()) }

func (c *ContentURI) UnmarshalDoc(v serial.Value) error {
	s, err := stringPayload(v)
	if err != nil {
		return err
	}
	parsed, err := ParseContentURI(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ---- helpers ----

func stringPayload(v serial.Value) (string, error) {
	s, ok := v.Str()
	if !ok {
		return "", serial.TypeMismatch("string", v.Kind())
	}
	return s, nil
}

func checkSigilID(s string, sigil byte, wantServer bool) error {
	if len(s) < 2 || s[0] != sigil {
		return serial.NewError(serial.CodeUnknown, fmt.Sprintf("identifier %q does not start with %q", s, string(sigil)))
	}
	if !wantServer {
		return nil
	}
	colon := strings.IndexByte(s, ':')
	if colon < 2 || colon == len(s)-1 {
		return serial.NewError(serial.CodeUnknown, fmt.Sprintf("identifier %q is missing a server part", s))
	}
	return nil
}

func localpart(s string) string {
	if colon := strings.IndexByte(s, ':'); colon >= 0 {
		return s[1:colon]
	}
	return s[1:]
}

func homeserver(s string) string {
	if colon := strings.IndexByte(s, ':'); colon >= 0 {
		return s[colon+1:]
	}
	return ""
}
