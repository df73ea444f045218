package mapper_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"asset-core/core/identity"
	"asset-core/core/mapper"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMap_SetPath(t *testing.T) {
	m := mapper.New(zap.NewNop())
	a := identity.New()
	b := identity.New()

	assert.True(t, m.SetPath("textures/wall.png", a))

	t.Run("FirstWriterWins", func(t *testing.T) {
		assert.False(t, m.SetPath("textures/wall.png", b))
		id, ok := m.GetIdentity("textures/wall.png")
		require.True(t, ok)
		assert.Equal(t, a, id)
	})

	t.Run("RejectsEmpty", func(t *testing.T) {
		assert.False(t, m.SetPath("", b))
		assert.False(t, m.SetPath("textures/floor.png", identity.Nil))
		assert.False(t, m.ContainsPath("textures/floor.png"))
	})

	t.Run("ReverseLookup", func(t *testing.T) {
		path, ok := m.GetPath(a)
		require.True(t, ok)
		assert.Equal(t, "textures/wall.png", path)

		_, ok = m.GetPath(b)
		assert.False(t, ok)
	})

	assert.Equal(t, 1, m.Len())
}

func TestMap_RePath(t *testing.T) {
	m := mapper.New(nil)
	id := identity.New()

	require.True(t, m.SetPath("old/crate.png", id))
	require.True(t, m.SetPath("new/crate.png", id))

	path, ok := m.GetPath(id)
	require.True(t, ok)
	assert.Equal(t, "new/crate.png", path)

	// The old path keeps resolving to the identity.
	got, ok := m.GetIdentity("old/crate.png")
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestMap_Assign(t *testing.T) {
	m := mapper.New(nil)

	first := m.Assign("sounds/door.ogg")
	assert.False(t, first.IsNil())
	assert.Equal(t, first, m.Assign("sounds/door.ogg"))

	second := m.Assign("sounds/bell.ogg")
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, m.Len())
}

func TestMap_AssignConcurrent(t *testing.T) {
	m := mapper.New(nil)

	var wg sync.WaitGroup
	ids := make([]identity.GUID, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = m.Assign("meshes/tree.obj")
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, m.Len())
}

func TestMap_Resolve(t *testing.T) {
	m := mapper.New(nil)
	id := identity.New()
	m.SetPath("a.png", id)

	path, err := m.ResolvePath(id)
	require.NoError(t, err)
	assert.Equal(t, "a.png", path)

	_, err = m.ResolvePath(identity.New())
	assert.ErrorIs(t, err, mapper.ErrUnmappedIdentity)

	got, err := m.ResolveIdentity("a.png")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = m.ResolveIdentity("missing.png")
	assert.ErrorIs(t, err, mapper.ErrUnmappedIdentity)
}

func TestMap_Merge(t *testing.T) {
	m := mapper.New(nil)
	existing := identity.New()
	shared := identity.New()
	m.SetPath("a.png", existing)

	report := m.Merge([]mapper.Entry{
		{Path: "a.png", GUID: identity.New()},
		{Path: "b.png", GUID: shared},
		{Path: "c.png", GUID: shared},
		{Path: "", GUID: identity.New()},
		{Path: "d.png", GUID: identity.Nil},
	})

	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, report.Invalid)
	require.Len(t, report.Inconsistencies, 1)
	assert.Equal(t, shared, report.Inconsistencies[0].GUID)
	assert.Equal(t, []string{"b.png", "c.png"}, report.Inconsistencies[0].Paths)

	id, _ := m.GetIdentity("a.png")
	assert.Equal(t, existing, id)
}

func TestMap_ExportImport(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "assets.manifest.json")

	src := mapper.New(nil)
	for _, p := range []string{"z.png", "a.png", "m/n.ogg"} {
		src.Assign(p)
	}
	require.NoError(t, src.Export(file))

	dst := mapper.New(nil)
	report, err := dst.Import(file)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Added)

	if diff := cmp.Diff(src.Entries(), dst.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	t.Run("ReimportSkipsEverything", func(t *testing.T) {
		report, err := dst.Import(file)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Added)
		assert.Equal(t, 3, report.Skipped)
	})
}

func TestMap_ImportErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		_, err := mapper.New(nil).Import(filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, mapper.ErrManifestNotFound)
	})

	t.Run("Malformed", func(t *testing.T) {
		file := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(file, []byte(`{"path":`), 0o644))

		m := mapper.New(nil)
		_, err := m.Import(file)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, mapper.ErrManifestNotFound)
		assert.Equal(t, 0, m.Len())
	})
}
