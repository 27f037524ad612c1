package schema

// Builder accumulates field declarations for a record schema. Declaration
// order is the schema's field order: decode reports the first missing
// required field in this order and encode emits keys in this order.
type Builder struct {
	fields []*fieldDef
}

type fieldDef struct {
	key          string
	typ          Type
	def          any
	hasDefault   bool
	flatten      bool
	ignoreErrors bool
	keepEmpty    bool
	omitDefault  bool
	required     bool
}

// Record creates a new record builder.
func Record() *Builder { return &Builder{} }

// Field declares a field under the given wire key.
func (b *Builder) Field(key string, t Type) *FieldStep {
	f := &fieldDef{key: key, typ: t}
	b.fields = append(b.fields, f)
	return &FieldStep{b: b, f: f}
}

// FieldStep scopes flag methods to the most recently declared field.
type FieldStep struct {
	b *Builder
	f *fieldDef
}

// Default sets the field's default value. The value must be assignable to
// the field's Go type; it is deep-copied on every use so decoded records
// never alias a shared mutable default.
func (s *FieldStep) Default(v any) *FieldStep {
	s.f.def = v
	s.f.hasDefault = true
	return s
}

// Flatten embeds the field's sub-fields directly into the parent's key space
// instead of nesting them under the wire key. Only record-shaped fields can
// be flattened; Bind rejects anything else.
func (s *FieldStep) Flatten() *FieldStep {
	s.f.flatten = true
	return s
}

// IgnoreErrors swallows decode failures for this field, falling back to the
// field default.
func (s *FieldStep) IgnoreErrors() *FieldStep {
	s.f.ignoreErrors = true
	return s
}

// KeepEmpty emits the declared default instead of omitting the field when its
// value is empty on encode (omit-if-empty is the default behavior).
func (s *FieldStep) KeepEmpty() *FieldStep {
	s.f.keepEmpty = true
	return s
}

// OmitDefault omits the field on encode when its value equals the default,
// even if it was explicitly set.
func (s *FieldStep) OmitDefault() *FieldStep {
	s.f.omitDefault = true
	return s
}

// Required makes decode fail with a missing_field error when the wire key is
// absent from the document.
func (s *FieldStep) Required() *FieldStep {
	s.f.required = true
	return s
}

// Field declares the next field, ending this one.
func (s *FieldStep) Field(key string, t Type) *FieldStep { return s.b.Field(key, t) }

// Buildable is satisfied by Builder and FieldStep so Bind accepts a builder
// chain ending at either.
type Buildable interface {
	builder() *Builder
}

func (b *Builder) builder() *Builder   { return b }
func (s *FieldStep) builder() *Builder { return s.b }
