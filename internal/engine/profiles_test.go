//go:build unit

package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"netprofiler/internal/adapter/infrastructure/file"
	"netprofiler/internal/mock"
	"netprofiler/internal/store"
	"netprofiler/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEngine_ProfileCRUDPersists(t *testing.T) {
	h := newHarness(t, newFakeHost(eth0()), Options{})
	e := h.engine

	created, err := e.CreateProfile(types.NetworkProfile{Name: "Bench", Mode: types.ModeDHCP})
	require.NoError(t, err)

	_, err = e.CreateProfile(types.NetworkProfile{Name: "bench", Mode: types.ModeDHCP})
	assert.True(t, types.IsDuplicateNameError(err))

	renamed, err := e.RenameProfile("Bench", "Workbench")
	require.NoError(t, err)
	assert.Equal(t, created.ID, renamed.ID)

	updated, err := e.UpdateProfile(created.ID, types.NetworkProfile{
		Name:   "Workbench",
		Mode:   types.ModeStatic,
		Static: &types.StaticConfig{Address: "10.1.0.2", Netmask: "/16", DNS: []string{}},
	})
	require.NoError(t, err)
	assert.Equal(t, "255.255.0.0", updated.Static.Netmask)

	reloaded := store.New(e.store.Path(), file.NewManagerAdapter())
	profiles, err := reloaded.Load()
	require.NoError(t, err)
	assert.Len(t, profiles, 3)
	assert.Equal(t, "Workbench", profiles[created.ID].Name)

	deleted, err := e.DeleteProfile("workbench")
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Zero(t, h.host.applyCount())

	profiles, err = reloaded.Load()
	require.NoError(t, err)
	assert.Len(t, profiles, 2)

	_, err = e.DeleteProfile("workbench")
	assert.True(t, types.IsNotFoundError(err))
}

func TestEngine_FailedSaveRestoresMapping(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mock.NewMockFileManager(ctrl)
	path := "/var/lib/netprofiler/profiles.yaml"

	files.EXPECT().WriteFile(path, gomock.Any(), gomock.Any()).Return(errors.New("no space left on device"))
	files.EXPECT().FileExists(path).Return(false)

	e := New(store.New(path, files), nil, nil, Options{})
	_, err := e.CreateProfile(types.NetworkProfile{Name: "Bench", Mode: types.ModeDHCP})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no space left on device")
	assert.Empty(t, e.Profiles())
}

func TestEngine_ExportImport(t *testing.T) {
	h := newHarness(t, newFakeHost(eth0()), Options{})
	e := h.engine

	path, err := e.ExportProfiles(filepath.Join(t.TempDir(), "field"), "Default")
	require.NoError(t, err)
	assert.Equal(t, ".nprf", filepath.Ext(path))

	imported, err := e.ImportProfiles(path)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "Default (2)", imported[0].Name)
	assert.Len(t, e.Profiles(), 3)

	_, err = e.ExportProfiles(filepath.Join(t.TempDir(), "x"), "Nope")
	assert.True(t, types.IsNotFoundError(err))
}

func TestEngine_SuggestInterfaces(t *testing.T) {
	h := newHarness(t, newFakeHost(eth0(), eth1Static()), Options{})
	ctx := context.Background()

	suggested, err := h.engine.SuggestInterfaces(ctx, "Shop DHCP")
	require.NoError(t, err)
	require.Len(t, suggested, 1)
	assert.Equal(t, "eth1", suggested[0].Name)

	none, err := h.engine.SuggestInterfaces(ctx, "Default")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := h.engine.Interfaces(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
