// Package registry keeps named schemas and their compiled
// encode/decode closures around for reuse — registration takes a
// schema.Schema value built directly with the schema package's
// constructors, rather than a parsed .proto message descriptor.
package registry

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/anirudhraja/schemapb/schema"
	"github.com/anirudhraja/schemapb/wire"
)

// compiled holds one schema's ready-to-use encode/decode closures plus
// the schema itself.
type compiled struct {
	schema  schema.Schema
	encode  func(value any) []byte
	decode  func(data []byte) (any, error)
	strict  func(value any) ([]byte, error)
}

// Registry maps names to schemas, compiling each schema's encoder and
// decoder once at registration time rather than on every call.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*compiled
	config   *wire.Config
}

// NewRegistry returns an empty Registry using wire.DefaultConfig.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*compiled),
		config:  wire.DefaultConfig,
	}
}

// NewRegistryWithConfig returns an empty Registry whose compiled
// encoders/decoders use cfg instead of wire.DefaultConfig.
func NewRegistryWithConfig(cfg *wire.Config) *Registry {
	return &Registry{
		entries: make(map[string]*compiled),
		config:  cfg,
	}
}

// Register compiles s's encoder and decoder and stores them under
// name, overwriting any previous registration for that name.
func (r *Registry) Register(name string, s schema.Schema) {
	c := &compiled{
		schema: s,
		encode: wire.Encode(s, r.config),
		decode: wire.Decode(s, r.config),
		strict: wire.EncodeStrict(s, r.config),
	}
	r.mu.Lock()
	r.entries[name] = c
	r.mu.Unlock()
}

// RegisterAll compiles every (name, schema) pair concurrently via
// errgroup, as a first-class registry operation for callers that have
// dozens of schemas to warm up before serving traffic. Compilation
// itself is pure/synchronous per schema, so the only thing
// concurrency buys is overlapping however much setup work a caller's
// own schema-building closures do (e.g. resolving a LazyRef graph);
// RegisterAll still returns the first error encountered, canceling the
// rest via ctx.
func (r *Registry) RegisterAll(ctx context.Context, schemas map[string]schema.Schema) error {
	g, _ := errgroup.WithContext(ctx)
	for name, s := range schemas {
		name, s := name, s
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			c := &compiled{
				schema: s,
				encode: wire.Encode(s, r.config),
				decode: wire.Decode(s, r.config),
				strict: wire.EncodeStrict(s, r.config),
			}
			r.mu.Lock()
			r.entries[name] = c
			r.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (schema.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return c.schema, true
}

// Encode runs the compiled, never-failing encoder registered under
// name. It returns an error only if name isn't registered.
func (r *Registry) Encode(name string, value any) ([]byte, error) {
	c, err := r.get(name)
	if err != nil {
		return nil, err
	}
	return c.encode(value), nil
}

// EncodeStrict runs the compiled strict encoder registered under name.
func (r *Registry) EncodeStrict(name string, value any) ([]byte, error) {
	c, err := r.get(name)
	if err != nil {
		return nil, err
	}
	return c.strict(value)
}

// Decode runs the compiled decoder registered under name.
func (r *Registry) Decode(name string, data []byte) (any, error) {
	c, err := r.get(name)
	if err != nil {
		return nil, err
	}
	return c.decode(data)
}

func (r *Registry) get(name string) (*compiled, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("registry: no schema registered under name %q", name)
	}
	return c, nil
}

// Names returns every registered name, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}
