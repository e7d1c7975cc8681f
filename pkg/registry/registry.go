// pkg/registry/registry.go
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Handler is a bound task callable. The payload is the raw task body as it
// arrived on the queue; decoding is the handler's business (pkg/codec has
// the default strict JSON codec).
type Handler func(ctx context.Context, payload []byte) error

// Declaration names one handler of a provider.
//
// Name resolution order: a non-empty Name wins; otherwise NameFunc is
// invoked with the scan context. NameFunc may block until its value is
// available, which covers names computed asynchronously.
type Declaration struct {
	Name     string
	NameFunc func(ctx context.Context) (string, error)
	Handler  Handler
}

// Provider is the capability a handler-bearing component declares to get
// its task handlers registered. The provider's concrete type name
// (TypeName) is its identity for allow-list filtering.
type Provider interface {
	TaskHandlers() []Declaration
}

// RequestScoped marks a provider whose lifetime is tied to a single unit of
// work. Such providers cannot hold long-lived queue bindings; Build rejects
// them outright rather than dropping their handlers silently.
type RequestScoped interface {
	RequestScoped() bool
}

// Registry maps resolved public names to bound callables. It is built fresh
// per bootstrap cycle and treated as immutable once handed to the worker.
type Registry map[string]Handler

var (
	ErrNilHandler     = errors.New("registry: declaration has no handler")
	ErrUnnamedHandler = errors.New("registry: declaration has neither a name nor a name function")
	ErrRequestScoped  = errors.New("registry: request-scoped providers are not supported")
)

// TypeName reports the identity a provider is filtered by, e.g. "*mailer.Mailer".
func TypeName(p Provider) string { return fmt.Sprintf("%T", p) }

type binding struct {
	name    string
	handler Handler
}

// Build assembles the registry from every admitted provider.
//
// Providers are scanned concurrently; results merge in provider order, so a
// name claimed by two providers deterministically belongs to the later one.
// Any resolution failure aborts the whole build — no partial registry.
func Build(ctx context.Context, providers []Provider, allow []string) (Registry, error) {
	var allowed map[string]struct{}
	if len(allow) > 0 {
		allowed = make(map[string]struct{}, len(allow))
		for _, a := range allow {
			allowed[a] = struct{}{}
		}
	}

	results := make([][]binding, len(providers))
	g, gctx := errgroup.WithContext(ctx)

	for i, p := range providers {
		if allowed != nil {
			if _, ok := allowed[TypeName(p)]; !ok {
				continue
			}
		}
		if rs, ok := p.(RequestScoped); ok && rs.RequestScoped() {
			return nil, fmt.Errorf("%w: %s", ErrRequestScoped, TypeName(p))
		}

		g.Go(func() error {
			bs, err := scanProvider(gctx, p)
			if err != nil {
				return fmt.Errorf("scan %s: %w", TypeName(p), err)
			}
			results[i] = bs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	reg := make(Registry)
	for _, bs := range results {
		for _, b := range bs {
			reg[b.name] = b.handler
		}
	}
	return reg, nil
}

func scanProvider(ctx context.Context, p Provider) ([]binding, error) {
	decls := p.TaskHandlers()
	bs := make([]binding, 0, len(decls))
	for _, d := range decls {
		if d.Handler == nil {
			return nil, ErrNilHandler
		}
		name, err := resolveName(ctx, d)
		if err != nil {
			return nil, err
		}
		bs = append(bs, binding{name: name, handler: d.Handler})
	}
	return bs, nil
}

func resolveName(ctx context.Context, d Declaration) (string, error) {
	if d.Name != "" {
		return d.Name, nil
	}
	if d.NameFunc == nil {
		return "", ErrUnnamedHandler
	}
	name, err := d.NameFunc(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve handler name: %w", err)
	}
	if name == "" {
		return "", ErrUnnamedHandler
	}
	return name, nil
}

// Names lists registered handler names, sorted for stable output.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
