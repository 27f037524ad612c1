package schema

import (
	"fmt"
	"reflect"

	serial "github.com/bridgekit/serial"
)

type decodeOpts struct {
	// defaultIfEmpty returns a copy of the default instead of a constructed
	// record when zero fields were populated. Set for nested records so an
	// absent sub-object never turns into a spuriously populated record.
	defaultIfEmpty bool
	// capture collects unmatched wire keys into the record's bucket. Disabled
	// when the record decodes in a flatten context: there the enclosing
	// record owns the leftover keys.
	capture bool
}

// Decode converts a document value into T. A null value is treated as an
// empty document: defaults apply and required fields are reported missing.
// On failure no partially-populated record is returned.
func (b *Bound[T]) Decode(v serial.Value) (T, error) {
	var zero T
	var m *serial.Map
	if !v.IsNull() {
		mm, ok := v.Obj()
		if !ok {
			return zero, serial.TypeMismatch("map", v.Kind())
		}
		m = mm
	}
	rv, err := b.decodeRecord(m, reflect.Value{}, decodeOpts{capture: true})
	if err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

// decodeRecord runs the two-pass record decode: flattened fields read the
// outer key space first, then keyed fields consume their own sub-values and
// every leftover key lands in the unrecognized bucket.
func (b *Bound[T]) decodeRecord(m *serial.Map, def reflect.Value, opts decodeOpts) (reflect.Value, error) {
	vals := make(map[string]reflect.Value, len(b.fields))

	for _, f := range b.fields {
		if !f.flatten {
			continue
		}
		fv, err := b.decodeFlattenField(f, m)
		if err != nil {
			return reflect.Value{}, err
		}
		vals[f.key] = fv
	}

	var bucket *serial.Map
	if m != nil {
		var derr error
		m.Range(func(k string, v serial.Value) bool {
			if f, ok := b.byKey[k]; ok {
				fv, err := b.decodeField(f, v)
				if err != nil {
					derr = err
					return false
				}
				vals[f.key] = fv
				return true
			}
			if _, ok := b.consumed[k]; ok {
				return true
			}
			if bucket == nil {
				bucket = serial.NewMap()
			}
			bucket.Set(k, v)
			return true
		})
		if derr != nil {
			return reflect.Value{}, derr
		}
	}

	if len(vals) == 0 && opts.defaultIfEmpty {
		if def.IsValid() {
			return deepCopy(def), nil
		}
		return reflect.Zero(b.rt), nil
	}

	rv := reflect.New(b.rt).Elem()
	for _, f := range b.fields {
		fv, ok := vals[f.key]
		if !ok {
			if f.required {
				return reflect.Value{}, &serial.Error{
					Path:    "/" + f.key,
					Code:    serial.CodeMissingField,
					Message: fmt.Sprintf("missing value for required key %q in %s", f.key, b.name),
				}
			}
			if f.hasDefault {
				rv.Field(f.idx).Set(deepCopy(f.def))
			}
			continue
		}
		rv.Field(f.idx).Set(fv)
	}
	if opts.capture && b.bucketIdx >= 0 && bucket.Len() > 0 {
		rv.Field(b.bucketIdx).Set(reflect.ValueOf(bucket))
	}
	return rv, nil
}

// decodeFlattenField decodes a flattened field from the outer key space. The
// nested record never captures its own bucket here; leftover keys stay with
// the enclosing record.
func (b *Bound[T]) decodeFlattenField(f *boundField, m *serial.Map) (reflect.Value, error) {
	fv, err := f.typ.rec.decodeRecord(m, f.def, decodeOpts{defaultIfEmpty: true})
	if err != nil {
		if f.ignoreErrors {
			return b.safeDefault(f), nil
		}
		return reflect.Value{}, serial.WrapError(err)
	}
	return fv, nil
}

// decodeField decodes one keyed field value, honoring the field's
// ignore-errors flag and rebasing failures under its wire key.
func (b *Bound[T]) decodeField(f *boundField, v serial.Value) (reflect.Value, error) {
	if v.IsNull() {
		return b.safeDefault(f), nil
	}
	var fv reflect.Value
	var err error
	if f.typ.shape == shapeRecord {
		// Nested records receive the field default so an empty sub-object
		// falls back to it instead of materializing an empty record.
		if m, ok := v.Obj(); ok {
			fv, err = f.typ.rec.decodeRecord(m, f.def, decodeOpts{defaultIfEmpty: true, capture: true})
		} else {
			err = serial.TypeMismatch("map", v.Kind())
		}
	} else {
		fv, err = f.typ.decode(v)
	}
	if err != nil {
		if f.ignoreErrors {
			return b.safeDefault(f), nil
		}
		return reflect.Value{}, serial.RebaseError(err, f.key)
	}
	return fv, nil
}

// safeDefault returns a copy of the field default, or the zero value when no
// default is declared. Composite defaults are deep-copied so records decoded
// from separate calls never share a mutable default instance.
func (b *Bound[T]) safeDefault(f *boundField) reflect.Value {
	if f.hasDefault {
		return deepCopy(f.def)
	}
	return reflect.Zero(f.typ.goType)
}

var (
	docValueType = reflect.TypeOf(serial.Value{})
	docMapType   = reflect.TypeOf((*serial.Map)(nil))
)

// deepCopy copies rv so the result shares no mutable state with the input.
// Scalars pass through; pointers, slices, maps, and document values are
// copied recursively.
func deepCopy(rv reflect.Value) reflect.Value {
	if !rv.IsValid() {
		return rv
	}
	switch rv.Type() {
	case docValueType:
		return reflect.ValueOf(rv.Interface().(serial.Value).Clone())
	case docMapType:
		if rv.IsNil() {
			return rv
		}
		return reflect.ValueOf(rv.Interface().(*serial.Map).Clone())
	}
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type().Elem())
		out.Elem().Set(deepCopy(rv.Elem()))
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(deepCopy(rv.Index(i)))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Struct:
		out := reflect.New(rv.Type()).Elem()
		out.Set(rv)
		for i := 0; i < rv.NumField(); i++ {
			fv := out.Field(i)
			if !fv.CanSet() {
				continue
			}
			switch fv.Kind() {
			case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Struct:
				fv.Set(deepCopy(fv))
			}
		}
		return out
	default:
		return rv
	}
}
