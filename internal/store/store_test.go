//go:build unit

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"netprofiler/internal/adapter/infrastructure/file"
	"netprofiler/internal/mock"
	"netprofiler/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newStore(t *testing.T) *Store {
	s := New(filepath.Join(t.TempDir(), "netprofiler", "profiles.yaml"), file.NewManagerAdapter())
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
	return s
}

func staticProfile(name, address string) types.NetworkProfile {
	return types.NetworkProfile{
		Name: name,
		Mode: types.ModeStatic,
		Static: &types.StaticConfig{
			Address: address,
			Netmask: "/24",
			Gateway: "192.168.1.1",
			DNS:     []string{"9.9.9.9"},
		},
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newStore(t)

	profiles, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.Empty(t, s.Profiles())
}

func TestStore_CreateNormalizesAndAssignsID(t *testing.T) {
	s := newStore(t)

	p, err := s.Create(staticProfile("  ROV tether ", "192.168.1.50"))
	require.NoError(t, err)

	assert.Equal(t, "id-01", p.ID)
	assert.Equal(t, "ROV tether", p.Name)
	assert.Equal(t, "255.255.255.0", p.Static.Netmask)

	got, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestStore_DuplicateNames(t *testing.T) {
	s := newStore(t)

	_, err := s.Create(staticProfile("Field", "192.168.1.50"))
	require.NoError(t, err)

	_, err = s.Create(types.NetworkProfile{Name: "FIELD", Mode: types.ModeDHCP})
	assert.True(t, types.IsDuplicateNameError(err))

	other, err := s.Create(types.NetworkProfile{Name: "Office", Mode: types.ModeDHCP})
	require.NoError(t, err)

	_, err = s.Rename(other.ID, "field")
	assert.True(t, types.IsDuplicateNameError(err))

	// Renaming onto its own name with another case is allowed
	renamed, err := s.Rename(other.ID, "OFFICE")
	require.NoError(t, err)
	assert.Equal(t, "OFFICE", renamed.Name)
	assert.Equal(t, other.ID, renamed.ID)
}

func TestStore_ValidationErrors(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		name    string
		profile types.NetworkProfile
	}{
		{"EmptyName", types.NetworkProfile{Name: " ", Mode: types.ModeDHCP}},
		{"StaticWithoutConfig", types.NetworkProfile{Name: "a", Mode: types.ModeStatic}},
		{"DHCPWithStaticFields", types.NetworkProfile{Name: "a", Mode: types.ModeDHCP, Static: &types.StaticConfig{Address: "10.0.0.1", Netmask: "255.0.0.0"}}},
		{"BadAddress", staticProfile("a", "192.168.1.300")},
		{"GatewayOffSubnet", types.NetworkProfile{Name: "a", Mode: types.ModeStatic, Static: &types.StaticConfig{Address: "10.0.0.5", Netmask: "255.255.255.0", Gateway: "10.0.1.1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(tt.profile)
			assert.True(t, types.IsValidationError(err), "got %v", err)
		})
	}
	assert.Empty(t, s.Profiles())
}

func TestStore_UpdateKeepsID(t *testing.T) {
	s := newStore(t)

	p, err := s.Create(staticProfile("Field", "192.168.1.50"))
	require.NoError(t, err)

	updated, err := s.Update(p.ID, types.NetworkProfile{ID: "ignored", Name: "Field", Mode: types.ModeDHCP})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, types.ModeDHCP, updated.Mode)
	assert.Nil(t, updated.Static)

	_, err = s.Update("missing", updated)
	assert.True(t, types.IsNotFoundError(err))
}

func TestStore_DeleteAndResolve(t *testing.T) {
	s := newStore(t)

	p, err := s.Create(staticProfile("Field", "192.168.1.50"))
	require.NoError(t, err)

	byID, err := s.Resolve(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, byID.ID)

	byName, err := s.Resolve("field")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	found, err := s.FindByName("FIELD")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	require.NoError(t, s.Delete(p.ID))
	assert.True(t, types.IsNotFoundError(s.Delete(p.ID)))

	_, err = s.Resolve("Field")
	assert.True(t, types.IsNotFoundError(err))
}

func TestStore_ProfilesSortedByName(t *testing.T) {
	s := newStore(t)

	for _, name := range []string{"charlie", "Alpha", "bravo"} {
		_, err := s.Create(types.NetworkProfile{Name: name, Mode: types.ModeDHCP})
		require.NoError(t, err)
	}

	var names []string
	for _, p := range s.Profiles() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Alpha", "bravo", "charlie"}, names)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)

	_, err := s.Create(staticProfile("Field", "192.168.1.50"))
	require.NoError(t, err)
	_, err = s.Create(types.NetworkProfile{
		Name:  "Shop DHCP",
		Mode:  types.ModeDHCP,
		Match: &types.MatchHint{NamePattern: "enx*", HardwareAddress: "00-1A-2B-3C-4D-5E"},
	})
	require.NoError(t, err)
	require.NoError(t, s.Persist())

	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

	reloaded := New(s.Path(), file.NewManagerAdapter())
	profiles, err := reloaded.Load()
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "00:1a:2b:3c:4d:5e", profiles["id-02"].Match.HardwareAddress)

	require.NoError(t, reloaded.Save(profiles))
	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestStore_LoadTolerance(t *testing.T) {
	s := newStore(t)

	doc := `version: 1
profiles:
  - id: a
    name: Inferred static
    static: {address: 10.0.0.5, netmask: 255.255.255.0}
    colour: blue
  - id: b
    name: Inferred dhcp
  - id: c
    name: Broken
    mode: static
    static: {address: 10.0.0.300, netmask: 255.255.255.0}
  - id: d
    name: first copy
    mode: dhcp
  - id: d
    name: second copy
    mode: dhcp
  - id: e
    name: Wrong shape
    static: "not a map"
`
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o600))

	profiles, err := s.Load()
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, types.ModeStatic, profiles["a"].Mode)
	assert.Equal(t, "10.0.0.5", profiles["a"].Static.Address)
	assert.Equal(t, types.ModeDHCP, profiles["b"].Mode)
	assert.Equal(t, "second copy", profiles["d"].Name)
	assert.NotContains(t, profiles, "c")
	assert.NotContains(t, profiles, "e")
}

func TestStore_LoadRejectsUnparsableDocument(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("profiles: [\n"), 0o600))

	_, err := s.Load()
	assert.Error(t, err)
}

func TestStore_SaveFailureKeepsMapping(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mock.NewMockFileManager(ctrl)
	s := New("/etc/netprofiler/profiles.yaml", files)

	files.EXPECT().WriteFile("/etc/netprofiler/profiles.yaml", gomock.Any(), filePerm).Return(errors.New("read-only file system"))

	err := s.Save(map[string]types.NetworkProfile{"x": {ID: "x", Name: "x", Mode: types.ModeDHCP}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only file system")
	assert.Empty(t, s.Profiles())
}

func TestStore_SaveRejectsInvalidMapping(t *testing.T) {
	dhcp := types.NetworkProfile{ID: "b", Name: "dup", Mode: types.ModeDHCP}

	tests := []struct {
		name     string
		profiles map[string]types.NetworkProfile
		check    func(error) bool
	}{
		{
			name: "PartialStatic",
			profiles: map[string]types.NetworkProfile{
				"a": {ID: "a", Name: "Field", Mode: types.ModeStatic, Static: &types.StaticConfig{Address: "192.168.1.50"}},
				"b": dhcp,
			},
			check: types.IsValidationError,
		},
		{
			name: "DuplicateNameIgnoringCase",
			profiles: map[string]types.NetworkProfile{
				"a": {ID: "a", Name: "Dup", Mode: types.ModeDHCP},
				"b": dhcp,
			},
			check: types.IsDuplicateNameError,
		},
		{
			name: "KeyDoesNotMatchID",
			profiles: map[string]types.NetworkProfile{
				"a": {ID: "other", Name: "Field", Mode: types.ModeDHCP},
			},
			check: types.IsValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)

			err := s.Save(tt.profiles)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)

			_, statErr := os.Stat(s.Path())
			assert.True(t, os.IsNotExist(statErr), "nothing may be written")
			assert.Empty(t, s.Profiles())
		})
	}
}

func TestStore_SaveWritesNormalizedProfiles(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Save(map[string]types.NetworkProfile{
		"a": {ID: "a", Name: " Field ", Mode: types.ModeStatic, Static: &types.StaticConfig{Address: "10.0.0.5", Netmask: "/24"}},
	}))
	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(first), "netmask: 255.255.255.0")

	reloaded := New(s.Path(), file.NewManagerAdapter())
	profiles, err := reloaded.Load()
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.NoError(t, reloaded.Save(profiles))

	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestStore_RenameDoesNotLoseConcurrentUpdate(t *testing.T) {
	s := newStore(t)
	created, err := s.Create(staticProfile("Field", "192.168.1.50"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Rename(created.ID, fmt.Sprintf("Field %d", i))
		}(i)
		go func() {
			defer wg.Done()
			p, err := s.Get(created.ID)
			if err != nil {
				return
			}
			p.Static.DNS = []string{"1.1.1.2"}
			_, _ = s.Update(created.ID, p)
		}()
	}
	wg.Wait()

	final, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1.1.2"}, final.Static.DNS)
}
