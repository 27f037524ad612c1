package serial_test

import (
	"reflect"
	"strings"
	"testing"

	serial "github.com/bridgekit/serial"
)

func TestJSON_RoundTripPreservesKeyOrder(t *testing.T) {
	in := []byte(`{"type":"m.room.member","content":{"membership":"join","displayname":"Alice"},"origin_server_ts":1700000000000}`)
	v, err := serial.ValueFromJSON(in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, ok := v.Obj()
	if !ok {
		t.Fatalf("expected map, got %s", v.Kind())
	}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"type", "content", "origin_server_ts"}) {
		t.Fatalf("unexpected key order: %v", got)
	}

	out, err := serial.ValueToJSON(v)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(out) != string(in) {
		t.Fatalf("round trip changed the document:\n in: %s\nout: %s", in, out)
	}
}

func TestJSON_NumberTextFidelity(t *testing.T) {
	// Larger than 2^53: a float64-based model would corrupt this.
	in := []byte(`{"ts":9007199254740993}`)
	v, err := serial.ValueFromJSON(in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out, err := serial.ValueToJSON(v)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(out) != string(in) {
		t.Fatalf("number text not preserved: %s", out)
	}
}

func TestJSON_DecodeErrors(t *testing.T) {
	if _, err := serial.ValueFromJSON([]byte(`{"a":`)); err == nil {
		t.Fatalf("expected error for truncated document")
	}
	if _, err := serial.ValueFromJSON([]byte(`{} trailing`)); err == nil {
		t.Fatalf("expected error for trailing data")
	}
}

func TestJSONC_StripsComments(t *testing.T) {
	in := []byte("{\n  // homeserver domain\n  \"domain\": \"example.org\",\n}\n")
	v, err := serial.ValueFromJSONC(in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, _ := v.Obj()
	got, _ := m.Get("domain")
	if !serial.Equal(got, serial.String("example.org")) {
		t.Fatalf("unexpected value: %#v", got)
	}
}

func TestJSON_StringEscaping(t *testing.T) {
	v := serial.Object(serial.NewMap().Set("body", serial.String("line1\nline2 \"quoted\"")))
	out, err := serial.ValueToJSON(v)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	back, err := serial.ValueFromJSON(out)
	if err != nil {
		t.Fatalf("re-decode failed: %v (doc: %s)", err, out)
	}
	if !serial.Equal(v, back) {
		t.Fatalf("escaped round trip mismatch: %s", out)
	}
}

func TestJSON_Indent(t *testing.T) {
	v := serial.Object(serial.NewMap().Set("a", serial.Int(1)))
	out, err := serial.ValueToJSONIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(string(out), "\n  ") {
		t.Fatalf("output is not indented: %q", out)
	}
	back, err := serial.ValueFromJSON(out)
	if err != nil {
		t.Fatalf("re-decode failed: %v", err)
	}
	if !serial.Equal(v, back) {
		t.Fatalf("indenting changed the document: %q", out)
	}
}
