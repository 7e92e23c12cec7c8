package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

func seeded(t *testing.T) *Registry {
	t.Helper()
	reg := New()
	require.NoError(t, NewSeeder(reg, nil).SeedDefaults())
	return reg
}

func installedSet(ids ...string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestResolve(t *testing.T) {
	reg := seeded(t)

	d, err := reg.Resolve(types.AppWallet)
	require.NoError(t, err)
	assert.Equal(t, types.KindWallet, d.Kind)
	assert.True(t, d.Needs(types.CapTransactions), "capabilities default from the kind table")

	_, err = reg.Resolve("tamagotchi")
	assert.True(t, types.IsUnknownApp(err))
}

func TestLaunchUnknownApp(t *testing.T) {
	reg := seeded(t)

	assert.NoError(t, reg.Launch(types.AppMessages))

	err := reg.Launch("tamagotchi")
	var unknown *types.UnknownAppError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "tamagotchi", unknown.AppID)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		app   types.AppDescriptor
		check func(error) bool
	}{
		{"missing id", types.AppDescriptor{Name: "X", Kind: types.KindUtility}, types.IsValidation},
		{"unsafe id", types.AppDescriptor{ID: "a b", Name: "X", Kind: types.KindUtility}, types.IsValidation},
		{"unknown kind", types.AppDescriptor{ID: "x", Name: "X", Kind: "hologram"}, types.IsValidation},
		{"unknown skin", types.AppDescriptor{ID: "x", Name: "X", Kind: types.KindUtility, Skins: []types.Skin{"bb10"}}, types.IsValidation},
		{"duplicate id", types.AppDescriptor{ID: "clock", Name: "Clock 2", Kind: types.KindUtility}, types.IsConflict},
		{"second singleton", types.AppDescriptor{ID: "wallet2", Name: "Wallet 2", Kind: types.KindWallet}, types.IsConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := seeded(t)
			err := reg.Register(tt.app)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}

func TestRegisterDefaultsToAllSkins(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(types.AppDescriptor{ID: "torch", Name: "Torch", Kind: types.KindUtility}))

	d, err := reg.Resolve("torch")
	require.NoError(t, err)
	assert.Equal(t, types.AllSkins(), d.Skins)
}

func TestFreeze(t *testing.T) {
	reg := seeded(t)
	reg.Freeze()

	assert.True(t, reg.Frozen())
	err := reg.Register(types.AppDescriptor{ID: "late", Name: "Late", Kind: types.KindUtility})
	assert.ErrorIs(t, err, ErrFrozen)
}

func TestRepliesFor(t *testing.T) {
	reg := seeded(t)
	assert.True(t, reg.RepliesFor(types.AppMessages))
	assert.False(t, reg.RepliesFor(types.AppMail))
	assert.False(t, reg.RepliesFor("nope"))
}

func TestHomeAppsHidesUninstalled(t *testing.T) {
	reg := seeded(t)

	before := reg.HomeApps(types.SkinTouch, nil)
	for _, d := range before {
		assert.False(t, d.Installable, "%s should be hidden until installed", d.ID)
		assert.False(t, d.Dock, "%s is a dock app", d.ID)
	}

	after := reg.HomeApps(types.SkinTouch, installedSet("podcasts"))
	require.Len(t, after, len(before)+1)
	assert.Equal(t, "podcasts", after[len(after)-1].ID, "page 1 apps sort after page 0")
}

func TestHomeAppsPerSkin(t *testing.T) {
	reg := seeded(t)

	ids := func(apps []types.AppDescriptor) []string {
		var out []string
		for _, a := range apps {
			out = append(out, a.ID)
		}
		return out
	}

	rotary := ids(reg.HomeApps(types.SkinRotary, nil))
	assert.ElementsMatch(t, []string{types.AppSettings, "clock"}, rotary)
	assert.NotContains(t, ids(reg.HomeApps(types.SkinFeature, nil)), types.AppRideshare)
	assert.Len(t, reg.Dock(types.SkinTouch), 4)
}

func TestPageCount(t *testing.T) {
	reg := New()
	for i := 0; i < 20; i++ {
		require.NoError(t, reg.Register(types.AppDescriptor{
			ID:    "u" + string(rune('a'+i)),
			Name:  "Util",
			Kind:  types.KindUtility,
			Skins: []types.Skin{types.SkinTouch, types.SkinRotary},
		}))
	}

	assert.Equal(t, 2, reg.PageCount(types.SkinTouch, nil))
	assert.Equal(t, 4, reg.PageCount(types.SkinRotary, nil))
	assert.Equal(t, 1, reg.PageCount(types.SkinPDA, nil), "an empty grid still has one page")

	assert.Len(t, reg.Page(types.SkinTouch, 0, nil), 16)
	assert.Len(t, reg.Page(types.SkinTouch, 1, nil), 4)
	assert.Empty(t, reg.Page(types.SkinTouch, 2, nil))
	assert.Empty(t, reg.Page(types.SkinTouch, -1, nil))
}

func TestAppsLandOnDeclaredPage(t *testing.T) {
	reg := seeded(t)

	ids := func(apps []types.AppDescriptor) []string {
		var out []string
		for _, a := range apps {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, 2, reg.PageCount(types.SkinTouch, nil))
	assert.NotContains(t, ids(reg.Page(types.SkinTouch, 0, nil)), "weather")
	assert.Equal(t, []string{"weather"}, ids(reg.Page(types.SkinTouch, 1, nil)))

	all := installedSet("podcasts", "news", "fitness")
	assert.Equal(t, 2, reg.PageCount(types.SkinTouch, all))
	assert.Equal(t, []string{"weather", "podcasts", "news", "fitness"}, ids(reg.Page(types.SkinTouch, 1, all)))
	assert.Len(t, reg.Page(types.SkinTouch, 0, all), 9)
}

func TestDeclaredPageSpillsWhenFull(t *testing.T) {
	reg := New()
	for i := 0; i < 8; i++ {
		require.NoError(t, reg.Register(types.AppDescriptor{
			ID:    "u" + string(rune('a'+i)),
			Name:  "Util",
			Kind:  types.KindUtility,
			Skins: []types.Skin{types.SkinRotary},
			Page:  2,
		}))
	}

	assert.Equal(t, 4, reg.PageCount(types.SkinRotary, nil))
	assert.Empty(t, reg.Page(types.SkinRotary, 0, nil))
	assert.Empty(t, reg.Page(types.SkinRotary, 1, nil))
	assert.Len(t, reg.Page(types.SkinRotary, 2, nil), 6)
	assert.Len(t, reg.Page(types.SkinRotary, 3, nil), 2)
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "extra"), 0o755))

	good := `
apps:
  - id: translate
    name: Translate
    kind: utility
    installable: true
    skins: [touch, pda]
    page: 1
  - id: radio
    name: Radio
    kind: music
`
	bad := "apps: [this is: not valid"
	dupe := `
apps:
  - id: clock
    name: Another Clock
    kind: utility
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra", "good.yaml"), []byte(good), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dupe.yaml"), []byte(dupe), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte(good), 0o600))

	reg := seeded(t)
	loaded, failed, err := NewSeeder(reg, nil).LoadCatalog(filepath.Join(dir, "**", "*.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)
	assert.Equal(t, 2, failed)

	d, err := reg.Resolve("translate")
	require.NoError(t, err)
	assert.True(t, d.Installable)
	assert.Equal(t, []types.Skin{types.SkinTouch, types.SkinPDA}, d.Skins)

	radio, err := reg.Resolve("radio")
	require.NoError(t, err)
	assert.True(t, radio.Needs(types.CapMusic))
}

func TestLoadCatalogPatterns(t *testing.T) {
	reg := seeded(t)
	s := NewSeeder(reg, nil)

	loaded, failed, err := s.LoadCatalog("")
	assert.NoError(t, err)
	assert.Zero(t, loaded+failed)

	_, _, err = s.LoadCatalog(filepath.Join(t.TempDir(), "[unclosed"))
	assert.Error(t, err)

	loaded, _, err = s.LoadCatalog(filepath.Join(t.TempDir(), "*.yaml"))
	assert.NoError(t, err)
	assert.Zero(t, loaded)
}
