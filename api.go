// Package schemapb is a schema-driven Protobuf wire-format codec: no
// .proto compiler and no generated code. A caller builds a
// schema.Schema describing a Go value's shape once, then uses it to
// produce or consume the same bytes a real Protobuf implementation
// would, for the subset of Protobuf this module implements.
package schemapb

import (
	"github.com/anirudhraja/schemapb/registry"
	"github.com/anirudhraja/schemapb/schema"
	"github.com/anirudhraja/schemapb/wire"
)

// Codec is the main entry point: Encode never fails — a malformed
// (schema, value) pair is silently dropped to an empty or partial
// chunk — while EncodeStrict and Decode return errors.
type Codec interface {
	// Encode serializes value per s, the module's default,
	// never-erroring encoder.
	Encode(value any) []byte

	// EncodeStrict serializes value per s, returning the first
	// encoding failure as an error instead of dropping it (a
	// *wire.FieldError when the failure is inside a nested field).
	EncodeStrict(value any) ([]byte, error)

	// Decode parses data per s.
	Decode(data []byte) (any, error)
}

type codec struct {
	schema       schema.Schema
	encodeFn     func(value any) []byte
	encodeStrict func(value any) ([]byte, error)
	decodeFn     func(data []byte) (any, error)
}

func (c *codec) Encode(value any) []byte                { return c.encodeFn(value) }
func (c *codec) EncodeStrict(value any) ([]byte, error) { return c.encodeStrict(value) }
func (c *codec) Decode(data []byte) (any, error)        { return c.decodeFn(data) }

// New compiles s into a Codec using wire.DefaultConfig.
func New(s schema.Schema) Codec {
	return NewWithConfig(s, wire.DefaultConfig)
}

// NewWithConfig compiles s into a Codec using cfg (e.g. to turn on
// wire.Config.UnwrapSingleFieldRecords).
func NewWithConfig(s schema.Schema, cfg *wire.Config) Codec {
	return &codec{
		schema:       s,
		encodeFn:     wire.Encode(s, cfg),
		encodeStrict: wire.EncodeStrict(s, cfg),
		decodeFn:     wire.Decode(s, cfg),
	}
}

// Encode is a one-shot convenience wrapper around New(s).Encode(value),
// for callers that don't need to reuse the compiled closures.
func Encode(s schema.Schema, value any) []byte {
	return New(s).Encode(value)
}

// Decode is a one-shot convenience wrapper around New(s).Decode(data).
func Decode(s schema.Schema, data []byte) (any, error) {
	return New(s).Decode(data)
}

// NewRegistry returns an empty schema registry for callers managing
// many named schemas at once (see package registry).
func NewRegistry() *registry.Registry {
	return registry.NewRegistry()
}
