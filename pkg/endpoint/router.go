package endpoint

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// Router dispatches each spec to the first member endpoint that accepts it.
// The default order is PE, RES, Files, Dummy: container specs win over plain
// paths, and Dummy catches everything left so it fails loudly.
type Router struct {
	endpoints []Endpoint
	log       zerolog.Logger
}

// NewRouter returns a router over fresh PE, RES, Files and Dummy endpoints
// sharing opts.
func NewRouter(opts Options) *Router {
	return newRouter(opts.logger(), NewPE(opts), NewRES(opts), NewFiles(opts), Dummy{})
}

func newRouter(log zerolog.Logger, eps ...Endpoint) *Router {
	return &Router{endpoints: eps, log: log.With().Str("endpoint", "router").Logger()}
}

// Endpoints returns the members in routing order.
func (r *Router) Endpoints() []Endpoint {
	return r.endpoints
}

// GetEndpoint returns the first member whose IsSpec accepts raw, or nil.
func (r *Router) GetEndpoint(raw string) Endpoint {
	for _, ep := range r.endpoints {
		if ep.IsSpec(raw) {
			r.log.Debug().Str("spec", raw).Str("target", endpointName(ep)).Msg("routed")
			return ep
		}
	}
	return nil
}

// IsSpec reports whether any member accepts raw.
func (r *Router) IsSpec(raw string) bool {
	return r.GetEndpoint(raw) != nil
}

func (r *Router) route(raw string) (Endpoint, error) {
	if ep := r.GetEndpoint(raw); ep != nil {
		return ep, nil
	}
	return nil, unsupported(raw)
}

func (r *Router) Add(raw string, data []byte, opts types.AddOptions) error {
	ep, err := r.route(raw)
	if err != nil {
		return err
	}
	return ep.Add(raw, data, opts)
}

func (r *Router) Get(raw string) ([]byte, error) {
	ep, err := r.route(raw)
	if err != nil {
		return nil, err
	}
	return ep.Get(raw)
}

func (r *Router) Remove(raw string) error {
	ep, err := r.route(raw)
	if err != nil {
		return err
	}
	return ep.Remove(raw)
}

// Copy reads src and adds the bytes at dst. Either side may be a file or a
// container resource.
func (r *Router) Copy(src, dst string, opts types.AddOptions) error {
	data, err := r.Get(src)
	if err != nil {
		return err
	}
	return r.Add(dst, data, opts)
}

// Commit commits every member, even after a failure, and merges their
// failures into one *types.CommitError.
func (r *Router) Commit() error {
	var merged types.CommitError
	for _, ep := range r.endpoints {
		err := ep.Commit()
		if err == nil {
			continue
		}
		var ce *types.CommitError
		if errors.As(err, &ce) {
			merged.Failures = append(merged.Failures, ce.Failures...)
		} else {
			merged.Failures = append(merged.Failures, types.FileError{Err: err})
		}
	}
	if len(merged.Failures) > 0 {
		return &merged
	}
	return nil
}

// Entries lists the resources of the container at path using the store
// that owns its extension.
func (r *Router) Entries(path string) ([]EntryInfo, error) {
	for _, ep := range r.endpoints {
		if s, ok := ep.(*Store); ok && s.Owns(path) {
			return s.Entries(path)
		}
	}
	return nil, types.Errorf(types.ErrKindUnsupportedSpec, "%q is not a resource container", path)
}

// Dirty returns the containers with uncommitted changes across all stores.
func (r *Router) Dirty() []string {
	var paths []string
	for _, ep := range r.endpoints {
		if s, ok := ep.(*Store); ok {
			paths = append(paths, s.Dirty()...)
		}
	}
	return paths
}

// Evict drops path from whichever store caches it.
func (r *Router) Evict(path string) bool {
	evicted := false
	for _, ep := range r.endpoints {
		if s, ok := ep.(*Store); ok && s.Evict(path) {
			evicted = true
		}
	}
	return evicted
}
