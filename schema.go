package serial

// Schema converts between a typed record T and its document value form. A
// schema is built once (see the schema subpackage), is immutable afterwards,
// and is safe to share across goroutines.
type Schema[T any] interface {
	// Decode converts a document value into T. It fails with a *Error; on
	// failure no partially-populated value is returned.
	Decode(v Value) (T, error)
	// Encode converts T into a document value. Encode is total over
	// well-formed values: a value that cannot be represented is a programming
	// error, not a runtime condition.
	Encode(v T) Value
}

// Marshaler is the custom-serializable capability on the encode side. Types
// implementing it bypass the generic structural handling entirely; the value
// codec defers to MarshalDoc before any container or record inference.
type Marshaler interface {
	MarshalDoc() Value
}

// Unmarshaler is the custom-serializable capability on the decode side.
// UnmarshalDoc receives the document value verbatim and reports a *Error (or
// any error, which the codec wraps) when the value cannot be interpreted.
type Unmarshaler interface {
	UnmarshalDoc(v Value) error
}

// DecodeJSON composes the JSON text boundary with a schema: parse the text
// into a document value, then decode it against s.
func DecodeJSON[T any](s Schema[T], data []byte) (T, error) {
	var zero T
	v, err := ValueFromJSON(data)
	if err != nil {
		return zero, WrapError(err)
	}
	return s.Decode(v)
}

// EncodeJSON is the mirror of DecodeJSON: encode the record and render it as
// compact JSON text.
func EncodeJSON[T any](s Schema[T], record T) ([]byte, error) {
	return ValueToJSON(s.Encode(record))
}
