package schema

import (
	"reflect"

	serial "github.com/bridgekit/serial"
)

// Encode converts a record into its document value form. Encode is total:
// bind-time checks guarantee every reachable value is representable.
func (b *Bound[T]) Encode(v T) serial.Value {
	return b.encodeRecord(reflect.ValueOf(v))
}

// encodeRecord walks the schema fields in declared order, applies the
// omission policies, inlines flattened sub-records, and re-emits the
// unrecognized bucket verbatim after the declared fields.
func (b *Bound[T]) encodeRecord(rv reflect.Value) serial.Value {
	out := serial.NewMap()
	for _, f := range b.fields {
		fv := rv.Field(f.idx)
		if isEmptyValue(fv) {
			if !f.keepEmpty {
				continue
			}
			if f.hasDefault {
				fv = f.def
			}
		}
		if f.omitDefault && equalsDefault(fv, f) {
			continue
		}
		ev := f.typ.encode(fv)
		if f.flatten {
			if em, ok := ev.Obj(); ok {
				em.Range(func(k string, item serial.Value) bool {
					out.Set(k, item)
					return true
				})
				continue
			}
		}
		out.Set(f.key, ev)
	}
	if b.bucketIdx >= 0 {
		bucket := rv.Field(b.bucketIdx).Interface().(serial.Unrecognized)
		bucket.Range(func(k string, item serial.Value) bool {
			out.Set(k, item)
			return true
		})
	}
	return serial.Object(out)
}

// isEmptyValue reports whether a field value counts as empty/absent for the
// omit-if-empty policy: nil-able kinds that are nil, or a null document
// value. Scalar zero values (0, "", false) are real values and never empty.
func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Struct:
		if rv.Type() == docValueType {
			return rv.Interface().(serial.Value).IsNull()
		}
	}
	return false
}

func equalsDefault(fv reflect.Value, f *boundField) bool {
	def := f.def
	if !def.IsValid() {
		def = reflect.Zero(f.typ.goType)
	}
	return reflect.DeepEqual(fv.Interface(), def.Interface())
}
