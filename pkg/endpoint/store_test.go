package endpoint

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/yxpscom/batch-resource-updater/internal/format"
	"github.com/yxpscom/batch-resource-updater/internal/testutil"
	"github.com/yxpscom/batch-resource-updater/pkg/logging"
	"github.com/yxpscom/batch-resource-updater/pkg/types"
)

func TestStore_IsSpec(t *testing.T) {
	s := NewRES(Options{Fs: afero.NewMemMapFs()})

	tests := []struct {
		spec string
		want bool
	}{
		{"app.res|ICON|5", true},
		{"APP.RES|icon|5|1033", true},
		{`C:\build\app.res|RCDATA|CONFIG|0x409`, true},
		{"app.exe|ICON|5", false},
		{"app.res", false},
		{"app.res|ICON", false},
		{"app.res|ICON|0", false},
		{"app.res|ICON|5|1033|extra", false},
		{"???", false},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsSpec(tt.spec))
		})
	}
}

func TestStore_AddThenGetWithoutCommit(t *testing.T) {
	f := newRESFixture(t, Options{})

	payload := testutil.Payload(64, 3)
	require.NoError(t, f.store.Add(f.spec("RCDATA|CONFIG"), payload, types.AddOptions{}))

	got, err := f.store.Get(f.spec("RCDATA|CONFIG"))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	assert.Zero(t, f.sink.Writes)
	onDisk, err := afero.ReadFile(f.fs, f.path)
	require.NoError(t, err)
	assert.Equal(t, f.raw, onDisk)
	assert.Equal(t, []string{f.path}, f.store.Dirty())
}

func TestStore_GetReturnsCopy(t *testing.T) {
	f := newRESFixture(t, Options{})

	got, err := f.store.Get(f.spec("ICON|5"))
	require.NoError(t, err)
	got[0] = 0xFF

	again, err := f.store.Get(f.spec("ICON|5"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)

	data := []byte("caller owned")
	require.NoError(t, f.store.Add(f.spec("RCDATA|1"), data, types.AddOptions{}))
	data[0] = 'X'
	stored, err := f.store.Get(f.spec("RCDATA|1"))
	require.NoError(t, err)
	assert.Equal(t, "caller owned", string(stored))
}

func TestStore_LoadsContainerOnce(t *testing.T) {
	f := newRESFixture(t, Options{})

	_, err := f.store.Get(f.spec("ICON|5"))
	require.NoError(t, err)
	_, err = f.store.Get(f.spec("BITMAP|1|1033"))
	require.NoError(t, err)
	require.NoError(t, f.store.Add(f.spec("ICON|6"), []byte{9}, types.AddOptions{}))
	require.NoError(t, f.store.Remove(f.spec("ICON|5")))

	// A different spelling of the same path hits the same cache entry.
	_, err = f.store.Get("/w/../w/app.res|BITMAP|1|1033")
	require.NoError(t, err)

	assert.Equal(t, 1, f.codec.decodes)
}

func TestStore_RemoveThenGet(t *testing.T) {
	f := newRESFixture(t, Options{})

	require.NoError(t, f.store.Remove(f.spec("ICON|5")))
	_, err := f.store.Get(f.spec("ICON|5"))
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, []string{f.path}, f.store.Dirty())
}

func TestStore_RemoveMissing(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		f := newRESFixture(t, Options{})
		require.ErrorIs(t, f.store.Remove(f.spec("ICON|99")), types.ErrNotFound)
		require.ErrorIs(t, f.store.Remove("/w/missing.res|ICON|1"), types.ErrNotFound)
		assert.Empty(t, f.store.Dirty())
	})
	t.Run("missing ok", func(t *testing.T) {
		f := newRESFixture(t, Options{RemoveMissingOK: true})
		require.NoError(t, f.store.Remove(f.spec("ICON|99")))
		require.NoError(t, f.store.Remove("/w/missing.res|ICON|1"))
		assert.Empty(t, f.store.Dirty())
	})
}

func TestStore_OverwritePolicies(t *testing.T) {
	tests := []struct {
		name    string
		res     string
		data    []byte
		opts    types.AddOptions
		wantErr error
		want    []byte
		dirty   bool
	}{
		{name: "always replaces", res: "ICON|5", data: []byte{7}, want: []byte{7}, dirty: true},
		{name: "never keeps existing", res: "ICON|5", data: []byte{7},
			opts: types.AddOptions{Overwrite: types.OverwriteNever}, wantErr: types.ErrResourceExists, want: []byte{1, 2, 3}},
		{name: "never inserts", res: "ICON|6", data: []byte{7},
			opts: types.AddOptions{Overwrite: types.OverwriteNever}, want: []byte{7}, dirty: true},
		{name: "only replaces", res: "ICON|5", data: []byte{7},
			opts: types.AddOptions{Overwrite: types.OverwriteOnly}, want: []byte{7}, dirty: true},
		{name: "only refuses insert", res: "ICON|6", data: []byte{7},
			opts: types.AddOptions{Overwrite: types.OverwriteOnly}, wantErr: types.ErrNotFound},
		{name: "if larger skips smaller", res: "ICON|5", data: []byte{7},
			opts: types.AddOptions{Overwrite: types.OverwriteIfLarger}, want: []byte{1, 2, 3}},
		{name: "if larger skips equal size", res: "ICON|5", data: []byte{7, 8, 9},
			opts: types.AddOptions{Overwrite: types.OverwriteIfLarger}, want: []byte{1, 2, 3}},
		{name: "if larger replaces larger", res: "ICON|5", data: []byte{7, 8, 9, 10},
			opts: types.AddOptions{Overwrite: types.OverwriteIfLarger}, want: []byte{7, 8, 9, 10}, dirty: true},
		{name: "if newer replaces newer", res: "ICON|5", data: []byte{7},
			opts: types.AddOptions{Overwrite: types.OverwriteIfNewer, Version: 1}, want: []byte{7}, dirty: true},
		{name: "if newer skips same version", res: "ICON|5", data: []byte{7},
			opts: types.AddOptions{Overwrite: types.OverwriteIfNewer}, want: []byte{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRESFixture(t, Options{})
			err := f.store.Add(f.spec(tt.res), tt.data, tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			got, err := f.store.Get(f.spec(tt.res))
			if tt.want == nil {
				require.ErrorIs(t, err, types.ErrNotFound)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.dirty, len(f.store.Dirty()) == 1)
		})
	}
}

func TestStore_IfNewerComparesStoredVersion(t *testing.T) {
	f := newRESFixture(t, Options{})
	sp := f.spec("RCDATA|1")

	require.NoError(t, f.store.Add(sp, []byte("v5"), types.AddOptions{Version: 5}))
	require.NoError(t, f.store.Add(sp, []byte("v4"), types.AddOptions{Overwrite: types.OverwriteIfNewer, Version: 4}))
	got, _ := f.store.Get(sp)
	assert.Equal(t, "v5", string(got))

	require.NoError(t, f.store.Add(sp, []byte("v6"), types.AddOptions{Overwrite: types.OverwriteIfNewer, Version: 6}))
	got, _ = f.store.Get(sp)
	assert.Equal(t, "v6", string(got))

	// A replacement without a version keeps the stored one.
	require.NoError(t, f.store.Add(sp, []byte("again"), types.AddOptions{}))
	require.NoError(t, f.store.Add(sp, []byte("v6b"), types.AddOptions{Overwrite: types.OverwriteIfNewer, Version: 6}))
	got, _ = f.store.Get(sp)
	assert.Equal(t, "again", string(got))
}

func TestStore_IdenticalAddLeavesClean(t *testing.T) {
	f := newRESFixture(t, Options{})
	require.NoError(t, f.store.Add(f.spec("ICON|5"), []byte{1, 2, 3}, types.AddOptions{}))
	assert.Empty(t, f.store.Dirty())
}

func TestStore_InvalidSpec(t *testing.T) {
	f := newRESFixture(t, Options{})
	require.ErrorIs(t, f.store.Add("/w/app.exe|ICON|5", []byte{1}, types.AddOptions{}), types.ErrInvalidSpec)
	require.ErrorIs(t, f.store.Add("/w/app.res", []byte{1}, types.AddOptions{}), types.ErrInvalidSpec)
	_, err := f.store.Get("/w/app.res|ICON|#0")
	require.ErrorIs(t, err, types.ErrInvalidSpec)
	require.ErrorIs(t, f.store.Remove("/w/app.res|ICON|5|lang"), types.ErrInvalidSpec)
	assert.Zero(t, f.codec.decodes)
}

func TestStore_CommitWritesOnce(t *testing.T) {
	f := newRESFixture(t, Options{})
	require.NoError(t, f.store.Add(f.spec("ICON|6"), []byte{4, 5}, types.AddOptions{}))
	require.NoError(t, f.store.Add(f.spec("ICON|7"), []byte{6}, types.AddOptions{}))

	require.NoError(t, f.store.Commit())
	assert.Equal(t, 1, f.sink.Writes)
	assert.Equal(t, 1, f.codec.encodes)
	assert.Empty(t, f.store.Dirty())

	require.NoError(t, f.store.Commit())
	assert.Equal(t, 1, f.sink.Writes, "second commit must not write")
	assert.Equal(t, 1, f.codec.encodes)

	tree, err := format.Decode(f.sink.Files[f.path])
	require.NoError(t, err)
	assert.Equal(t, 4, tree.Len())
}

func TestStore_CommitSkipsUnchangedImage(t *testing.T) {
	f := newRESFixture(t, Options{})
	require.NoError(t, f.store.Add(f.spec("ICON|6"), []byte{4}, types.AddOptions{}))
	require.NoError(t, f.store.Remove(f.spec("ICON|6")))
	require.Len(t, f.store.Dirty(), 1)

	require.NoError(t, f.store.Commit())
	assert.Zero(t, f.sink.Writes)
	assert.Empty(t, f.store.Dirty())
}

func TestStore_CommitRecordAndLog(t *testing.T) {
	tl := logging.NewTestLogger(t)
	var records []CommitRecord
	f := newRESFixture(t, Options{
		Logger:   &tl.Logger,
		OnCommit: func(r CommitRecord) { records = append(records, r) },
	})
	require.NoError(t, f.store.Remove(f.spec("ICON|5")))
	require.NoError(t, f.store.Commit())

	require.Len(t, records, 1)
	written := f.sink.Files[f.path]
	assert.Equal(t, "res", records[0].Kind)
	assert.Equal(t, f.path, records[0].Path)
	assert.Equal(t, len(written), records[0].Size)
	assert.Equal(t, 1, records[0].Resources)
	assert.Equal(t, blake3.Sum256(written), records[0].Digest)

	tl.AssertContains(t, "container written")
	tl.AssertContains(t, `"resources":1`)
}

func TestStore_CommitAggregatesFailures(t *testing.T) {
	f := newRESFixture(t, Options{})
	other := "/w/other.res"
	require.NoError(t, afero.WriteFile(f.fs, other, f.raw, 0o644))

	require.NoError(t, f.store.Remove(f.spec("ICON|5")))
	require.NoError(t, f.store.Remove(other+"|ICON|5"))
	f.sink.Fail[f.path] = errBoom

	err := f.store.Commit()
	require.Error(t, err)
	var ce *types.CommitError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{f.path}, ce.Paths())
	require.ErrorIs(t, err, types.ErrIO)
	require.ErrorIs(t, err, errBoom)

	// The healthy container was still written; the failed one stays dirty.
	assert.Contains(t, f.sink.Files, other)
	assert.Equal(t, []string{f.path}, f.store.Dirty())

	delete(f.sink.Fail, f.path)
	require.NoError(t, f.store.Commit())
	assert.Empty(t, f.store.Dirty())
}

func TestStore_CommitEncodeFailure(t *testing.T) {
	f := newRESFixture(t, Options{})
	f.codec.encodeErr = errBoom
	require.NoError(t, f.store.Remove(f.spec("ICON|5")))

	err := f.store.Commit()
	require.ErrorIs(t, err, types.ErrEncode)
	require.ErrorIs(t, err, errBoom)
	assert.Zero(t, f.sink.Writes)
}

func TestStore_CorruptContainerIsNotCached(t *testing.T) {
	f := newRESFixture(t, Options{})
	bad := "/w/bad.res"
	require.NoError(t, afero.WriteFile(f.fs, bad, []byte("not a resource file"), 0o644))

	_, err := f.store.Get(bad + "|ICON|5")
	require.ErrorIs(t, err, types.ErrParse)
	err = f.store.Add(bad+"|ICON|5", []byte{1}, types.AddOptions{})
	require.ErrorIs(t, err, types.ErrParse)
	require.ErrorIs(t, f.store.Remove(bad+"|ICON|5"), types.ErrParse)
	assert.Equal(t, 3, f.codec.decodes)

	// RemoveMissingOK tolerates absent containers, not unreadable ones.
	lenient := newRESFixture(t, Options{RemoveMissingOK: true})
	require.NoError(t, afero.WriteFile(lenient.fs, bad, []byte("not a resource file"), 0o644))
	require.ErrorIs(t, lenient.store.Remove(bad+"|ICON|5"), types.ErrParse)
	require.NoError(t, lenient.store.Remove("/w/absent.res|ICON|5"))

	require.NoError(t, afero.WriteFile(f.fs, bad, f.raw, 0o644))
	got, err := f.store.Get(bad + "|ICON|5")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestStore_MissingContainer(t *testing.T) {
	f := newRESFixture(t, Options{})
	_, err := f.store.Get("/w/missing.res|ICON|5")
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = f.store.Entries("/w/missing.res")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestStore_CreatesRESContainer(t *testing.T) {
	f := newRESFixture(t, Options{})
	created := "/w/new.res"

	// A refused Add does not leave a phantom container behind.
	err := f.store.Add(created+"|ICON|5", []byte{1}, types.AddOptions{Overwrite: types.OverwriteOnly})
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Empty(t, f.store.Dirty())

	require.NoError(t, f.store.Add(created+"|ICON|5", []byte{1, 2, 3}, types.AddOptions{}))
	assert.Equal(t, []string{created}, f.store.Dirty())

	require.NoError(t, f.store.Commit())
	assert.Equal(t, testutil.BuildRES(t, testutil.Resource{Key: icon5, Data: []byte{1, 2, 3}}), f.sink.Files[created])
}

func TestStore_PEDoesNotCreate(t *testing.T) {
	s := NewPE(Options{Fs: afero.NewMemMapFs()})
	err := s.Add("/w/app.exe|BITMAP|100", []byte{1}, types.AddOptions{})
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Empty(t, s.Dirty())
}

func TestStore_Entries(t *testing.T) {
	f := newRESFixture(t, Options{})
	require.NoError(t, f.store.Add(f.spec("PNG|LOGO"), []byte("png"), types.AddOptions{}))

	infos, err := f.store.Entries(f.path)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, types.StrID("PNG"), infos[0].Key.Type)
	assert.Equal(t, bitmap1, infos[1].Key)
	assert.Equal(t, 6, infos[1].Size)
	assert.Equal(t, icon5, infos[2].Key)

	_, err = f.store.Entries("/w/app.exe")
	require.ErrorIs(t, err, types.ErrInvalidSpec)
}

func TestStore_EvictDiscardsChanges(t *testing.T) {
	f := newRESFixture(t, Options{})
	require.NoError(t, f.store.Remove(f.spec("ICON|5")))

	assert.True(t, f.store.Evict(f.path))
	assert.False(t, f.store.Evict(f.path))
	assert.Empty(t, f.store.Dirty())

	got, err := f.store.Get(f.spec("ICON|5"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, 2, f.codec.decodes)
}
