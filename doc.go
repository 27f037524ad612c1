// Package serial is the record codec underlying a Matrix client/bridge
// library: it converts between a dynamic JSON-shaped document model and
// strongly-typed records, enumerations, and custom wire types.
//
// The package provides:
//
// - An ordered, structurally-comparable document value model (Value/Map)
// - A single locatable error kind with causal chaining (*Error, string codes)
// - Declarative per-record schemas with wire keys, defaults, and behavior
//   flags (flatten, ignore-errors, omission policies), built once via the
//   schema subpackage and read concurrently without synchronization
// - Lossless capture and re-emission of wire keys unknown to the current
//   schema version (Unrecognized)
// - A closed-set enumeration codec and a custom-serializable capability
//   (Marshaler/Unmarshaler) for protocol wire types
// - A pluggable JSON text boundary plus YAML and CBOR drivers under wire/
//
// Design policy:
// - Keep only public APIs in the root package; record machinery lives under
//   schema/, protocol leaf types under codec/, and the CLI under cmd/docconv.
// - The codec itself performs no I/O and no logging; observability belongs to
//   callers.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	var profileSchema = schema.MustBind[Profile](schema.Record().
//		Field("displayname", schema.String()).
//		Field("avatar_url", schema.Custom[codec.ContentURI]()))
//
//	p, err := serial.DecodeJSON(profileSchema, data)
//	out, err := serial.EncodeJSON(profileSchema, p)
package serial
