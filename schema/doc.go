// Package schema declares record schemas with a fluent builder and binds
// them to Go struct types.
//
// A schema is assembled in two steps: Record().Field(...) declares the wire
// keys, shapes, and per-field policies (defaults, flatten, omission,
// required), then Bind[T] resolves those keys against the struct's tags and
// compiles decode/encode closures. All reflection happens at bind time; the
// resulting Bound[T] is immutable and safe to share.
package schema
