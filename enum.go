package serial

import "fmt"

// Enum is a closed set of string-bound variants with value-based round-trip.
// Build one per enumeration type at package init; it is read-only afterwards
// and safe for concurrent use.
type Enum[T ~string] struct {
	variants []T
	set      map[T]struct{}
}

// NewEnum binds the given variants. Duplicates collapse.
func NewEnum[T ~string](variants ...T) *Enum[T] {
	e := &Enum[T]{set: make(map[T]struct{}, len(variants))}
	for _, v := range variants {
		if _, ok := e.set[v]; ok {
			continue
		}
		e.set[v] = struct{}{}
		e.variants = append(e.variants, v)
	}
	return e
}

// Contains reports whether v is a bound variant.
func (e *Enum[T]) Contains(v T) bool {
	_, ok := e.set[v]
	return ok
}

// Variants returns the bound variants in declaration order. The slice is a
// copy.
func (e *Enum[T]) Variants() []T {
	out := make([]T, len(e.variants))
	copy(out, e.variants)
	return out
}

// Decode converts a document string into a variant. Any string outside the
// bound set fails with CodeInvalidVariant; non-string values fail with
// CodeInvalidType.
func (e *Enum[T]) Decode(v Value) (T, error) {
	var zero T
	s, ok := v.Str()
	if !ok {
		return zero, TypeMismatch("string", v.Kind())
	}
	variant := T(s)
	if !e.Contains(variant) {
		return zero, NewError(CodeInvalidVariant, fmt.Sprintf("invalid variant %q", s))
	}
	return variant, nil
}

// Encode returns the variant's bound string as a document value. String
// conversion for display is the same string.
func (e *Enum[T]) Encode(v T) Value { return String(string(v)) }
