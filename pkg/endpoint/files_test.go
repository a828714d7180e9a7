package endpoint

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

func newMemFiles(t *testing.T, opts Options) (*Files, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	opts.Fs = fsys
	return NewFiles(opts), fsys
}

func TestFiles_IsSpec(t *testing.T) {
	f, _ := newMemFiles(t, Options{})

	tests := []struct {
		path string
		want bool
	}{
		{"logo.bmp", true},
		{"/tmp/out/logo.bmp", true},
		{`C:\images\logo.bmp`, true},
		{"relative/dir/file", true},
		{"", false},
		{"   ", false},
		{"???", false},
		{"a*b", false},
		{`a"b`, false},
		{"a<b>", false},
		{"app.exe|ICON|1", false},
		{"name:stream", false},
		{"bad\x01name", false},
		{"nul\x00byte", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsSpec(tt.path))
		})
	}
}

func TestFiles_AddGetRemove(t *testing.T) {
	f, fsys := newMemFiles(t, Options{})

	require.NoError(t, f.Add("/out/deep/logo.bmp", []byte("pixels"), types.AddOptions{}))
	got, err := f.Get("/out/deep/logo.bmp")
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(got))

	require.NoError(t, f.Remove("/out/deep/logo.bmp"))
	exists, err := afero.Exists(fsys, "/out/deep/logo.bmp")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = f.Get("/out/deep/logo.bmp")
	require.ErrorIs(t, err, types.ErrNotFound)
	require.ErrorIs(t, f.Remove("/out/deep/logo.bmp"), types.ErrNotFound)
	require.NoError(t, f.Commit())
}

func TestFiles_RemoveMissingOK(t *testing.T) {
	f, _ := newMemFiles(t, Options{RemoveMissingOK: true})
	require.NoError(t, f.Remove("/nowhere.bin"))
}

func TestFiles_InvalidPath(t *testing.T) {
	f, _ := newMemFiles(t, Options{})
	require.ErrorIs(t, f.Add("???", nil, types.AddOptions{}), types.ErrInvalidSpec)
	_, err := f.Get("app.exe|ICON|1")
	require.ErrorIs(t, err, types.ErrInvalidSpec)
	require.ErrorIs(t, f.Remove(""), types.ErrInvalidSpec)
}

func TestFiles_Directory(t *testing.T) {
	f, fsys := newMemFiles(t, Options{})
	require.NoError(t, fsys.MkdirAll("/out/dir", 0o755))

	require.ErrorIs(t, f.Add("/out/dir", []byte{1}, types.AddOptions{}), types.ErrIO)
	require.ErrorIs(t, f.Remove("/out/dir"), types.ErrIO)
}

func TestFiles_OverwritePolicies(t *testing.T) {
	const path = "/data.bin"
	mtime := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name    string
		data    string
		opts    types.AddOptions
		wantErr error
		want    string
	}{
		{name: "always", data: "new", want: "new"},
		{name: "never", data: "new", opts: types.AddOptions{Overwrite: types.OverwriteNever},
			wantErr: types.ErrResourceExists, want: "old!"},
		{name: "only", data: "new", opts: types.AddOptions{Overwrite: types.OverwriteOnly}, want: "new"},
		{name: "if larger declines", data: "new", opts: types.AddOptions{Overwrite: types.OverwriteIfLarger}, want: "old!"},
		{name: "if larger accepts", data: "newer!", opts: types.AddOptions{Overwrite: types.OverwriteIfLarger}, want: "newer!"},
		{name: "if newer declines", data: "new",
			opts: types.AddOptions{Overwrite: types.OverwriteIfNewer, Version: uint32(mtime.Unix())}, want: "old!"},
		{name: "if newer accepts", data: "new",
			opts: types.AddOptions{Overwrite: types.OverwriteIfNewer, Version: uint32(mtime.Unix()) + 1}, want: "new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, fsys := newMemFiles(t, Options{})
			require.NoError(t, afero.WriteFile(fsys, path, []byte("old!"), 0o644))
			require.NoError(t, fsys.Chtimes(path, mtime, mtime))

			err := f.Add(path, []byte(tt.data), tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			got, err := afero.ReadFile(fsys, path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFiles_OnlyRequiresExisting(t *testing.T) {
	f, fsys := newMemFiles(t, Options{})
	err := f.Add("/absent.bin", []byte{1}, types.AddOptions{Overwrite: types.OverwriteOnly})
	require.ErrorIs(t, err, types.ErrNotFound)

	exists, err := afero.Exists(fsys, "/absent.bin")
	require.NoError(t, err)
	assert.False(t, exists)
}
