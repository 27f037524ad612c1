package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	serial "github.com/bridgekit/serial"
)

// shape tags the closed set of declared type shapes. Dispatch is resolved at
// schema-construction time: each Type carries decode/encode closures compiled
// for its shape, so the per-value path is a direct call, not type inspection.
type shape uint8

const (
	shapePrimitive shape = iota
	shapeOptional
	shapeRecord
	shapeEnum
	shapeCustom
	shapeSequence
	shapeSet
	shapeMapping
	shapeRaw
)

// Type describes the declared wire shape of a field or container element.
// Types are built once by the constructors below and are read-only.
type Type struct {
	shape  shape
	goType reflect.Type
	rec    recordCodec
	dec    func(v serial.Value) (reflect.Value, error)
	enc    func(rv reflect.Value) serial.Value
}

// GoType returns the Go type values of this shape decode into.
func (t Type) GoType() reflect.Type { return t.goType }

func (t Type) decode(v serial.Value) (reflect.Value, error) {
	// A null document value bottoms out at the zero value; field-level
	// defaults are applied by the record marshaller before this point.
	if v.IsNull() {
		return reflect.Zero(t.goType), nil
	}
	return t.dec(v)
}

func (t Type) encode(rv reflect.Value) serial.Value { return t.enc(rv) }

// Bool declares a bool field.
func Bool() Type {
	rt := reflect.TypeOf(false)
	return Type{
		shape:  shapePrimitive,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			b, ok := v.Bool()
			if !ok {
				return reflect.Value{}, serial.TypeMismatch("bool", v.Kind())
			}
			return reflect.ValueOf(b), nil
		},
		enc: func(rv reflect.Value) serial.Value { return serial.Bool(rv.Bool()) },
	}
}

// Int declares an int field.
func Int() Type { return intType(reflect.TypeOf(int(0))) }

// Int64 declares an int64 field.
func Int64() Type { return intType(reflect.TypeOf(int64(0))) }

func intType(rt reflect.Type) Type {
	return Type{
		shape:  shapePrimitive,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			n, ok := v.Int64()
			if !ok {
				return reflect.Value{}, serial.TypeMismatch("integer", v.Kind())
			}
			rv := reflect.New(rt).Elem()
			rv.SetInt(n)
			return rv, nil
		},
		enc: func(rv reflect.Value) serial.Value { return serial.Int(rv.Int()) },
	}
}

// Float64 declares a float64 field.
func Float64() Type {
	rt := reflect.TypeOf(float64(0))
	return Type{
		shape:  shapePrimitive,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			f, ok := v.Float64()
			if !ok {
				return reflect.Value{}, serial.TypeMismatch("number", v.Kind())
			}
			return reflect.ValueOf(f), nil
		},
		enc: func(rv reflect.Value) serial.Value { return serial.Float(rv.Float()) },
	}
}

// String declares a string field.
func String() Type { return StringAs[string]() }

// StringAs declares a field of a domain string type (wire shape string).
func StringAs[T ~string]() Type {
	rt := reflect.TypeOf(*new(T))
	return Type{
		shape:  shapePrimitive,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			s, ok := v.Str()
			if !ok {
				return reflect.Value{}, serial.TypeMismatch("string", v.Kind())
			}
			return reflect.ValueOf(T(s)), nil
		},
		enc: func(rv reflect.Value) serial.Value { return serial.String(rv.String()) },
	}
}

// Raw declares a passthrough field of type serial.Value: the document value
// is carried verbatim with no further interpretation.
func Raw() Type {
	rt := reflect.TypeOf(serial.Value{})
	return Type{
		shape:  shapeRaw,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			return reflect.ValueOf(v), nil
		},
		enc: func(rv reflect.Value) serial.Value { return rv.Interface().(serial.Value) },
	}
}

// Optional declares a nullable field as a pointer to the element type. A null
// or absent wire value decodes to nil; presence unwraps to the element.
func Optional(elem Type) Type {
	rt := reflect.PointerTo(elem.goType)
	return Type{
		shape:  shapeOptional,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			ev, err := elem.decode(v)
			if err != nil {
				return reflect.Value{}, err
			}
			pv := reflect.New(elem.goType)
			pv.Elem().Set(ev)
			return pv, nil
		},
		enc: func(rv reflect.Value) serial.Value {
			if rv.IsNil() {
				return serial.Null()
			}
			return elem.encode(rv.Elem())
		},
	}
}

// List declares an ordered sequence field as a slice of the element type.
func List(elem Type) Type {
	rt := reflect.SliceOf(elem.goType)
	return Type{
		shape:  shapeSequence,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			items, ok := v.Items()
			if !ok {
				return reflect.Value{}, serial.TypeMismatch("list", v.Kind())
			}
			out := reflect.MakeSlice(rt, len(items), len(items))
			for i, item := range items {
				ev, err := elem.decode(item)
				if err != nil {
					return reflect.Value{}, serial.RebaseError(err, strconv.Itoa(i))
				}
				out.Index(i).Set(ev)
			}
			return out, nil
		},
		enc: func(rv reflect.Value) serial.Value {
			items := make([]serial.Value, rv.Len())
			for i := range items {
				items[i] = elem.encode(rv.Index(i))
			}
			return serial.List(items...)
		},
	}
}

// Set declares an unordered unique collection as map[E]struct{}. Duplicate
// decoded elements collapse; encode orders elements by their canonical
// encoded text for deterministic output.
func Set(elem Type) Type {
	if !elem.goType.Comparable() {
		panic(fmt.Sprintf("schema: set element type %s is not comparable", elem.goType))
	}
	rt := reflect.MapOf(elem.goType, reflect.TypeOf(struct{}{}))
	empty := reflect.ValueOf(struct{}{})
	return Type{
		shape:  shapeSet,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			items, ok := v.Items()
			if !ok {
				return reflect.Value{}, serial.TypeMismatch("list", v.Kind())
			}
			out := reflect.MakeMapWithSize(rt, len(items))
			for i, item := range items {
				ev, err := elem.decode(item)
				if err != nil {
					return reflect.Value{}, serial.RebaseError(err, strconv.Itoa(i))
				}
				out.SetMapIndex(ev, empty)
			}
			return out, nil
		},
		enc: func(rv reflect.Value) serial.Value {
			type keyed struct {
				text string
				val  serial.Value
			}
			items := make([]keyed, 0, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				ev := elem.encode(iter.Key())
				text, _ := serial.ValueToJSON(ev)
				items = append(items, keyed{text: string(text), val: ev})
			}
			sort.Slice(items, func(i, j int) bool { return items[i].text < items[j].text })
			out := make([]serial.Value, len(items))
			for i, it := range items {
				out[i] = it.val
			}
			return serial.List(out...)
		},
	}
}

// MapOf declares a string-keyed mapping field as map[string]E. Keys pass
// through unchanged; encode emits keys in sorted order.
func MapOf(elem Type) Type {
	rt := reflect.MapOf(reflect.TypeOf(""), elem.goType)
	return Type{
		shape:  shapeMapping,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			m, ok := v.Obj()
			if !ok {
				return reflect.Value{}, serial.TypeMismatch("map", v.Kind())
			}
			out := reflect.MakeMapWithSize(rt, m.Len())
			var derr error
			m.Range(func(k string, item serial.Value) bool {
				ev, err := elem.decode(item)
				if err != nil {
					derr = serial.RebaseError(err, k)
					return false
				}
				out.SetMapIndex(reflect.ValueOf(k), ev)
				return true
			})
			if derr != nil {
				return reflect.Value{}, derr
			}
			return out, nil
		},
		enc: func(rv reflect.Value) serial.Value {
			keys := make([]string, 0, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				keys = append(keys, iter.Key().String())
			}
			sort.Strings(keys)
			out := serial.NewMap()
			for _, k := range keys {
				out.Set(k, elem.encode(rv.MapIndex(reflect.ValueOf(k))))
			}
			return serial.Object(out)
		},
	}
}

// Enum declares a field bound to a closed variant set.
func Enum[T ~string](e *serial.Enum[T]) Type {
	rt := reflect.TypeOf(*new(T))
	return Type{
		shape:  shapeEnum,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			variant, err := e.Decode(v)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(variant), nil
		},
		enc: func(rv reflect.Value) serial.Value { return serial.String(rv.String()) },
	}
}

// Custom declares a field of a custom-serializable type: T must implement
// serial.Marshaler and *T serial.Unmarshaler. The value codec defers to the
// type's own entry points and never inspects its structure.
func Custom[T any]() Type {
	rt := reflect.TypeOf(*new(T))
	if rt == nil || rt.Kind() == reflect.Pointer {
		panic("schema: Custom[T] requires a non-pointer type")
	}
	if !rt.Implements(reflect.TypeOf((*serial.Marshaler)(nil)).Elem()) {
		panic(fmt.Sprintf("schema: %s does not implement serial.Marshaler", rt))
	}
	if !reflect.PointerTo(rt).Implements(reflect.TypeOf((*serial.Unmarshaler)(nil)).Elem()) {
		panic(fmt.Sprintf("schema: *%s does not implement serial.Unmarshaler", rt))
	}
	return Type{
		shape:  shapeCustom,
		goType: rt,
		dec: func(v serial.Value) (reflect.Value, error) {
			pv := reflect.New(rt)
			if err := pv.Interface().(serial.Unmarshaler).UnmarshalDoc(v); err != nil {
				return reflect.Value{}, serial.WrapError(err)
			}
			return pv.Elem(), nil
		},
		enc: func(rv reflect.Value) serial.Value {
			return rv.Interface().(serial.Marshaler).MarshalDoc()
		},
	}
}

// Of declares a nested record field backed by a bound schema. An absent or
// empty sub-object decodes to the field default rather than a spuriously
// populated record.
func Of[T any](b *Bound[T]) Type {
	rt := b.goType()
	return Type{
		shape:  shapeRecord,
		goType: rt,
		rec:    b,
		dec: func(v serial.Value) (reflect.Value, error) {
			m, ok := v.Obj()
			if !ok {
				return reflect.Value{}, serial.TypeMismatch("map", v.Kind())
			}
			return b.decodeRecord(m, reflect.Value{}, decodeOpts{defaultIfEmpty: true, capture: true})
		},
		enc: func(rv reflect.Value) serial.Value { return b.encodeRecord(rv) },
	}
}
