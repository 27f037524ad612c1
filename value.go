package serial

import "strconv"

// Kind enumerates the document value shapes.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is the dynamic document value exchanged at the wire boundary: the
// JSON-shaped tagged union every codec in this module decodes from and
// encodes to. The zero Value is null.
//
// Numbers keep their wire text instead of an eagerly parsed float so that
// large integers (origin_server_ts and friends) survive a round trip intact.
type Value struct {
	kind Kind
	b    bool
	num  string
	str  string
	list []Value
	obj  *Map
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a bool.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int wraps an integer as a number value.
func Int(v int64) Value { return Value{kind: KindNumber, num: strconv.FormatInt(v, 10)} }

// Float wraps a float as a number value.
func Float(v float64) Value {
	return Value{kind: KindNumber, num: strconv.FormatFloat(v, 'g', -1, 64)}
}

// Number wraps raw number text (already validated by the wire parser).
func Number(text string) Value { return Value{kind: KindNumber, num: text} }

// String wraps a string.
func String(v string) Value { return Value{kind: KindString, str: v} }

// List wraps the given items as a list value.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// Object wraps an ordered map as a map value. A nil map is the empty object.
func Object(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, obj: m}
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the bool payload; ok is false for other kinds.
func (v Value) Bool() (b bool, ok bool) { return v.b, v.kind == KindBool }

// NumberText returns the raw number text; ok is false for other kinds.
func (v Value) NumberText() (string, bool) { return v.num, v.kind == KindNumber }

// Int64 parses the number payload as an integer.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := strconv.ParseInt(v.num, 10, 64)
	if err != nil {
		// Integral floats ("30.0") still count.
		if f, ferr := strconv.ParseFloat(v.num, 64); ferr == nil && f == float64(int64(f)) {
			return int64(f), true
		}
		return 0, false
	}
	return n, true
}

// Float64 parses the number payload as a float.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Str returns the string payload; ok is false for other kinds.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Items returns the list payload; ok is false for other kinds. The slice is
// shared with the value, not copied.
func (v Value) Items() ([]Value, bool) { return v.list, v.kind == KindList }

// Obj returns the map payload; ok is false for other kinds. The map is shared
// with the value, not copied.
func (v Value) Obj() (*Map, bool) { return v.obj, v.kind == KindMap }

// Equal reports structural equality. Map key order is irrelevant; numbers
// compare by wire text first and numerically as a fallback, so 30 == 30.0.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		if a.num == b.num {
			return true
		}
		af, aok := a.Float64()
		bf, bok := b.Float64()
		return aok && bok && af == bf
	case KindString:
		return a.str == b.str
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		eq := true
		a.obj.Range(func(k string, av Value) bool {
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(av, bv) {
				eq = false
				return false
			}
			return true
		})
		return eq
	default:
		return false
	}
}

// Clone returns a deep copy. Mutating the copy (or maps/lists reachable from
// it) never affects the original; this is the safe-default copy used whenever
// a shared default value is handed to a decoded record.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i := range v.list {
			items[i] = v.list[i].Clone()
		}
		return Value{kind: KindList, list: items}
	case KindMap:
		return Value{kind: KindMap, obj: v.obj.Clone()}
	default:
		return v
	}
}

// Map is an ordered string-keyed mapping of document values. Key order is
// preserved on the encode path; lookups are by key. Not safe for concurrent
// mutation.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap returns an empty ordered map.
func NewMap() *Map { return &Map{vals: map[string]Value{}} }

// Set stores v under k, appending k to the key order when new. It returns the
// map for chained construction.
func (m *Map) Set(k string, v Value) *Map {
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
	return m
}

// Get looks up k.
func (m *Map) Get(k string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.vals[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map) Has(k string) bool {
	if m == nil {
		return false
	}
	_, ok := m.vals[k]
	return ok
}

// Delete removes k, preserving the order of the remaining keys.
func (m *Map) Delete(k string) {
	if m == nil {
		return
	}
	if _, ok := m.vals[k]; !ok {
		return
	}
	delete(m.vals, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(k string, v Value) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := &Map{keys: make([]string, len(m.keys)), vals: make(map[string]Value, len(m.vals))}
	copy(out.keys, m.keys)
	for k, v := range m.vals {
		out.vals[k] = v.Clone()
	}
	return out
}

// Unrecognized carries wire keys present in a decoded document that matched
// no declared field. Record types opt in by declaring a field of this type
// tagged `serial:"unrecognized"`; decode fills it and encode re-emits the
// entries verbatim after the declared fields.
type Unrecognized = *Map
