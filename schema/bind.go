package schema

import (
	"fmt"
	"reflect"
	"strings"

	serial "github.com/bridgekit/serial"
)

// Bound is a record schema bound to struct type T. It is built once by Bind,
// is immutable afterwards, and is safe for unsynchronized concurrent reads.
type Bound[T any] struct {
	rt        reflect.Type
	name      string
	fields    []*boundField
	byKey     map[string]*boundField // non-flatten fields, by wire key
	consumed  map[string]struct{}    // keys claimed by flattened fields, transitively
	bucketIdx int                    // struct index of the unrecognized bucket, -1 if none
}

type boundField struct {
	key          string
	typ          Type
	idx          int
	def          reflect.Value // invalid when no default is declared
	hasDefault   bool
	flatten      bool
	ignoreErrors bool
	keepEmpty    bool
	omitDefault  bool
	required     bool
}

var _ serial.Schema[struct{}] = (*Bound[struct{}])(nil)

// Bind resolves the builder's wire keys against struct type T and compiles
// the schema. Resolution happens exactly once; the returned schema performs
// no reflection-based lookup per call beyond direct field access.
func Bind[T any](b Buildable) (*Bound[T], error) {
	var probe T
	rt := reflect.TypeOf(probe)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: Bind[T] requires a struct type, got %v", rt)
	}

	idxByKey := make(map[string]int)
	bucketIdx := -1
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := resolveStructKey(sf)
		if key == "-" || key == "" {
			continue
		}
		if key == tagUnrecognized {
			if sf.Type != reflect.TypeOf(serial.Unrecognized(nil)) {
				return nil, fmt.Errorf("schema: %s.%s: unrecognized bucket must have type serial.Unrecognized", rt.Name(), sf.Name)
			}
			bucketIdx = i
			continue
		}
		idxByKey[key] = i
	}

	def := b.builder()
	bound := &Bound[T]{
		rt:        rt,
		name:      rt.Name(),
		byKey:     make(map[string]*boundField, len(def.fields)),
		consumed:  map[string]struct{}{},
		bucketIdx: bucketIdx,
	}
	for _, f := range def.fields {
		if _, dup := bound.byKey[f.key]; dup {
			return nil, fmt.Errorf("schema: %s: duplicate wire key %q", rt.Name(), f.key)
		}
		idx, ok := idxByKey[f.key]
		if !ok {
			return nil, fmt.Errorf("schema: %s has no field for wire key %q", rt.Name(), f.key)
		}
		sf := rt.Field(idx)
		if sf.Type != f.typ.goType {
			return nil, fmt.Errorf("schema: %s.%s is %s, declared type wants %s", rt.Name(), sf.Name, sf.Type, f.typ.goType)
		}
		if f.flatten && f.typ.shape != shapeRecord {
			return nil, fmt.Errorf("schema: %s: flatten field %q must be record-shaped", rt.Name(), f.key)
		}
		if f.required && f.hasDefault {
			return nil, fmt.Errorf("schema: %s: field %q cannot be both required and defaulted", rt.Name(), f.key)
		}
		bf := &boundField{
			key:          f.key,
			typ:          f.typ,
			idx:          idx,
			flatten:      f.flatten,
			ignoreErrors: f.ignoreErrors,
			keepEmpty:    f.keepEmpty,
			omitDefault:  f.omitDefault,
			required:     f.required,
		}
		if f.hasDefault {
			dv := reflect.ValueOf(f.def)
			if !dv.IsValid() {
				dv = reflect.Zero(f.typ.goType)
			}
			if dv.Type() != f.typ.goType {
				return nil, fmt.Errorf("schema: %s: default for %q is %s, want %s", rt.Name(), f.key, dv.Type(), f.typ.goType)
			}
			bf.def = dv
			bf.hasDefault = true
		}
		bound.fields = append(bound.fields, bf)
		if f.flatten {
			for k := range f.typ.rec.consumedWireKeys() {
				bound.consumed[k] = struct{}{}
			}
		} else {
			bound.byKey[f.key] = bf
		}
	}
	return bound, nil
}

// MustBind is like Bind but panics on error; intended for package-level
// schema registration.
func MustBind[T any](b Buildable) *Bound[T] {
	s, err := Bind[T](b)
	if err != nil {
		panic(err)
	}
	return s
}

const tagUnrecognized = "unrecognized"

// resolveStructKey resolves a struct field's wire key.
// Priority: serial tag > json tag name > field name; "-" disables the field,
// "unrecognized" marks the bucket.
func resolveStructKey(sf reflect.StructField) string {
	if st := sf.Tag.Get("serial"); st != "" {
		if i := strings.IndexByte(st, ','); i >= 0 {
			st = st[:i]
		}
		return st
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// recordCodec is the shape-erased view of a bound record schema used by the
// value codec for nested and flattened records.
type recordCodec interface {
	decodeRecord(m *serial.Map, def reflect.Value, opts decodeOpts) (reflect.Value, error)
	encodeRecord(rv reflect.Value) serial.Value
	consumedWireKeys() map[string]struct{}
	goType() reflect.Type
}

func (b *Bound[T]) goType() reflect.Type { return b.rt }

// consumedWireKeys returns the wire keys this record claims when decoded from
// an enclosing key space: its own keyed fields plus, transitively, the keys
// of its flattened fields.
func (b *Bound[T]) consumedWireKeys() map[string]struct{} {
	out := make(map[string]struct{}, len(b.byKey)+len(b.consumed))
	for k := range b.byKey {
		out[k] = struct{}{}
	}
	for k := range b.consumed {
		out[k] = struct{}{}
	}
	return out
}

// FieldInfo is the read-only per-field view exposed by Fields.
type FieldInfo struct {
	Key          string
	Flatten      bool
	Required     bool
	IgnoreErrors bool
	KeepEmpty    bool
	OmitDefault  bool
	HasDefault   bool
}

// Fields returns the schema's fields in declared order. When onlyFlatten is
// non-nil the view is filtered by the flatten flag.
func (b *Bound[T]) Fields(onlyFlatten *bool) []FieldInfo {
	out := make([]FieldInfo, 0, len(b.fields))
	for _, f := range b.fields {
		if onlyFlatten != nil && f.flatten != *onlyFlatten {
			continue
		}
		out = append(out, FieldInfo{
			Key:          f.key,
			Flatten:      f.flatten,
			Required:     f.required,
			IgnoreErrors: f.ignoreErrors,
			KeepEmpty:    f.keepEmpty,
			OmitDefault:  f.omitDefault,
			HasDefault:   f.hasDefault,
		})
	}
	return out
}
