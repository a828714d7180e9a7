package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yxpscom/batch-resource-updater/internal/format"
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// WriteFile writes data to name inside a fresh temp directory and returns the
// full path.
//
// Example:
//
//	path := testutil.WriteFile(t, "app.exe", testutil.MinimalPE())
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile reads path or fails the test.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}

// Resource is a fixture entry for BuildRES.
type Resource struct {
	Key  types.Key
	Data []byte
}

// BuildRES encodes a RES file holding the given resources.
func BuildRES(t *testing.T, resources ...Resource) []byte {
	t.Helper()
	tree := types.NewTree()
	for _, r := range resources {
		tree.Set(r.Key, &types.Entry{Data: r.Data, MemoryFlags: types.DefaultMemoryFlags})
	}
	raw, err := format.Encode(tree)
	if err != nil {
		t.Fatalf("Failed to encode RES fixture: %v", err)
	}
	return raw
}

// Payload returns n deterministic bytes derived from seed.
func Payload(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i%251) + 1
	}
	return b
}
