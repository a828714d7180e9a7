package format

import "github.com/yxpscom/batch-resource-updater/pkg/types"

// Codec adapts Decode and Encode to the container codec contract used by
// the endpoint layer.
type Codec struct{}

// Name identifies the container kind in logs.
func (Codec) Name() string { return "res" }

// CanCreate reports true: a RES file can be produced from resources alone,
// so Add may target a file that does not exist yet.
func (Codec) CanCreate() bool { return true }

// Decode parses a RES file.
func (Codec) Decode(image []byte) (*types.Tree, error) { return Decode(image) }

// Encode writes tree as a RES file. The original image is not needed.
func (Codec) Encode(tree *types.Tree, _ []byte) ([]byte, error) { return Encode(tree) }
