package yaml_test

import (
	"strings"
	"testing"

	serial "github.com/bridgekit/serial"
	"github.com/bridgekit/serial/wire/yaml"
)

const registration = `id: telegram
url: http://localhost:29317
as_token: abc123
sender_localpart: telegrambot
rate_limited: false
namespaces:
  users:
    - exclusive: true
      regex: "@telegram_.+:example\\.org"
`

func TestDecode_Registration(t *testing.T) {
	v, err := yaml.Decode([]byte(registration))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, ok := v.Obj()
	if !ok {
		t.Fatalf("expected a mapping, got %s", v.Kind())
	}

	want := []string{"id", "url", "as_token", "sender_localpart", "rate_limited", "namespaces"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("unexpected keys: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key order not preserved: %v", got)
		}
	}

	rl, _ := m.Get("rate_limited")
	if b, ok := rl.Bool(); !ok || b {
		t.Fatalf("unexpected rate_limited: %#v", rl)
	}

	ns, _ := m.Get("namespaces")
	nsm, _ := ns.Obj()
	users, _ := nsm.Get("users")
	items, ok := users.Items()
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected users namespace: %#v", users)
	}
	first, _ := items[0].Obj()
	if ex, _ := first.Get("exclusive"); !serial.Equal(ex, serial.Bool(true)) {
		t.Fatalf("unexpected exclusive flag: %#v", ex)
	}
}

func TestRoundTrip_PreservesOrderAndTypes(t *testing.T) {
	in := serial.Object(serial.NewMap().
		Set("z_first", serial.String("because insertion order wins")).
		Set("a_second", serial.Int(42)).
		Set("pi", serial.Float(3.5)).
		Set("none", serial.Null()).
		Set("list", serial.List(serial.Bool(true), serial.String("x"))))

	data, err := yaml.Encode(in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(string(data), "z_first:") {
		t.Fatalf("expected insertion-ordered output, got:\n%s", data)
	}

	out, err := yaml.Decode(data)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !serial.Equal(in, out) {
		t.Fatalf("round trip changed the document:\n in: %#v\nout: %#v", in, out)
	}
	m, _ := out.Obj()
	if keys := m.Keys(); keys[0] != "z_first" || keys[1] != "a_second" {
		t.Fatalf("key order lost in round trip: %v", keys)
	}
}

func TestDecode_IntegerStaysIntegral(t *testing.T) {
	v, err := yaml.Decode([]byte("port: 29317\n"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, _ := v.Obj()
	port, _ := m.Get("port")
	if text, _ := port.NumberText(); text != "29317" {
		t.Fatalf("unexpected number text: %q", text)
	}
}

func TestDecode_Anchors(t *testing.T) {
	doc := "base: &b\n  x: 1\nref: *b\n"
	v, err := yaml.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, _ := v.Obj()
	base, _ := m.Get("base")
	ref, _ := m.Get("ref")
	if !serial.Equal(base, ref) {
		t.Fatalf("alias should resolve to the anchored value: %#v vs %#v", base, ref)
	}
}

func TestDecode_Empty(t *testing.T) {
	v, err := yaml.Decode(nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.IsNull() {
		t.Fatalf("empty input should decode to null, got %s", v.Kind())
	}
}

func TestEncode_IntegralFloatIsNotAnInt(t *testing.T) {
	data, err := yaml.Encode(serial.Number("30.0"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out, err := yaml.Decode(data)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f, ok := out.Float64(); !ok || f != 30 {
		t.Fatalf("unexpected round trip: %#v", out)
	}
}
