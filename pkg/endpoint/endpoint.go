package endpoint

import (
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// Endpoint is a source or destination for data, addressed by spec strings.
type Endpoint interface {
	// IsSpec reports whether this endpoint can handle spec. It has no side
	// effects, so a router may probe several endpoints in turn.
	IsSpec(spec string) bool
	// Add stores data at spec, subject to opts.Overwrite.
	Add(spec string, data []byte, opts types.AddOptions) error
	// Get returns a copy of the data at spec.
	Get(spec string) ([]byte, error)
	// Remove deletes the data at spec.
	Remove(spec string) error
	// Commit flushes every pending change. With nothing pending it does
	// nothing.
	Commit() error
}

// Codec converts between a container's bytes and its resource set. Decode
// runs once per container load and Encode once per dirty commit.
type Codec interface {
	// Name identifies the container kind ("pe", "res") in logs and errors.
	Name() string
	// CanCreate reports whether Encode works without an original image,
	// allowing Add to create a container that does not exist yet.
	CanCreate() bool
	Decode(image []byte) (*types.Tree, error)
	// Encode produces the new image. original is nil for created containers.
	Encode(tree *types.Tree, original []byte) ([]byte, error)
}

// Sink persists committed container images.
type Sink interface {
	WriteContainer(path string, data []byte) error
}

// CommitRecord describes one container written by Commit.
type CommitRecord struct {
	Kind      string
	Path      string
	Size      int
	Resources int
	Digest    [32]byte // BLAKE3-256 of the written image
}

// EntryInfo describes one resource of a container.
type EntryInfo struct {
	Key  types.Key
	Size int
}

func endpointName(ep Endpoint) string {
	switch e := ep.(type) {
	case *Store:
		return e.codec.Name()
	case *Files:
		return "files"
	case Dummy:
		return "dummy"
	case *Router:
		return "router"
	default:
		return "unknown"
	}
}
