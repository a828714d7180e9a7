package endpoint

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/yxpscom/batch-resource-updater/internal/format"
	"github.com/yxpscom/batch-resource-updater/internal/testutil"
	"github.com/yxpscom/batch-resource-updater/internal/writer"
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

// countingCodec counts Decode and Encode calls and can be told to fail
// encoding.
type countingCodec struct {
	Codec
	decodes   int
	encodes   int
	encodeErr error
}

func (c *countingCodec) Decode(image []byte) (*types.Tree, error) {
	c.decodes++
	return c.Codec.Decode(image)
}

func (c *countingCodec) Encode(tree *types.Tree, original []byte) ([]byte, error) {
	c.encodes++
	if c.encodeErr != nil {
		return nil, c.encodeErr
	}
	return c.Codec.Encode(tree, original)
}

var (
	icon5            = types.Key{Type: types.IntID(types.RTIcon), Name: types.IntID(5)}
	bitmap1          = types.Key{Type: types.IntID(types.RTBitmap), Name: types.IntID(1), Lang: 1033}
	errBoom          = errors.New("boom")
	fixtureResources = []testutil.Resource{
		{Key: icon5, Data: []byte{1, 2, 3}},
		{Key: bitmap1, Data: []byte("bitmap")},
	}
)

// resFixture is an in-memory RES store over /w/app.res holding fixtureResources.
type resFixture struct {
	fs    afero.Fs
	sink  *writer.MemWriter
	codec *countingCodec
	store *Store
	path  string
	raw   []byte
}

func newRESFixture(t *testing.T, opts Options) *resFixture {
	t.Helper()
	f := &resFixture{
		fs:    afero.NewMemMapFs(),
		sink:  writer.NewMemWriter(),
		codec: &countingCodec{Codec: format.Codec{}},
		path:  "/w/app.res",
		raw:   testutil.BuildRES(t, fixtureResources...),
	}
	require.NoError(t, afero.WriteFile(f.fs, f.path, f.raw, 0o644))
	opts.Fs = f.fs
	opts.Sink = f.sink
	f.store = NewStore(f.codec, []string{".res"}, opts)
	return f
}

func (f *resFixture) spec(res string) string {
	return f.path + "|" + res
}
