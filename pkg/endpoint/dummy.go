package endpoint

import "github.com/yxpscom/batch-resource-updater/pkg/types"

// Dummy accepts every spec and fails every operation with
// types.ErrUnsupportedSpec. It is the router's last resort, so an
// unroutable spec surfaces an error instead of disappearing.
type Dummy struct{}

// IsSpec always returns true.
func (Dummy) IsSpec(string) bool { return true }

func (Dummy) Add(spec string, _ []byte, _ types.AddOptions) error {
	return unsupported(spec)
}

func (Dummy) Get(spec string) ([]byte, error) {
	return nil, unsupported(spec)
}

func (Dummy) Remove(spec string) error {
	return unsupported(spec)
}

// Commit has nothing to flush.
func (Dummy) Commit() error { return nil }

func unsupported(spec string) error {
	return types.Errorf(types.ErrKindUnsupportedSpec, "no endpoint handles %q", spec)
}
