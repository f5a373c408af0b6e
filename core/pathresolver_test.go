package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Team Fortress 2":                 "Team_Fortress_2",
		"Team Fortress 2 [Not installed]": "Team_Fortress_2",
		"Half-Life 2 [Installed]":         "Half-Life_2",
		"S.T.A.L.K.E.R.: Shadow of Chernobyl": "S_T_A_L_K_E_R_Shadow_of_Chernobyl",
		"Ori & the Blind Forest":          "Ori_the_Blind_Forest",
	}

	for input, want := range cases {
		assert.Equal(t, want, SanitizeName(input), "sanitizing %q", input)
	}
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	root := t.TempDir()
	config := &Config{
		SteamRoot: root,
		SteamID:   "76561190000000000",
	}
	require.NoError(t, os.MkdirAll(config.LibraryRoot(), os.ModePerm))
	return config
}

func TestPathResolver_DefaultsToSanitizedName(t *testing.T) {
	config := testConfig(t)
	manifests := NewManifestReconciler(config, nil)
	resolver := NewPathResolver(config, manifests)

	got := resolver.Resolve("Team Fortress 2", 440)
	assert.Equal(t, filepath.Join(config.LibraryRoot(), "Team_Fortress_2"), got)
}

func TestPathResolver_ManifestOverridesName(t *testing.T) {
	config := testConfig(t)
	manifests := NewManifestReconciler(config, nil)
	resolver := NewPathResolver(config, manifests)

	// The client already tracks 730 under a different folder name.
	acf := renderManifest(730, "csgo", 0, config.SteamID, testTime())
	require.NoError(t, os.WriteFile(config.ManifestPath(730), []byte(acf), 0644))

	got := resolver.Resolve("Counter-Strike 2", 730)
	assert.Equal(t, filepath.Join(config.LibraryRoot(), "csgo"), got)
}

func TestPathResolver_Deterministic(t *testing.T) {
	config := testConfig(t)
	manifests := NewManifestReconciler(config, nil)
	resolver := NewPathResolver(config, manifests)

	first := resolver.Resolve("Team Fortress 2", 440)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, resolver.Resolve("Team Fortress 2", 440))
	}
}

func TestPathResolver_IgnoresManifestWithoutInstallDir(t *testing.T) {
	config := testConfig(t)
	manifests := NewManifestReconciler(config, nil)
	resolver := NewPathResolver(config, manifests)

	// A manifest missing its installdir is treated as absent, not as a
	// partial match.
	broken := "\"AppState\"\n{\n\t\"appid\"\t\t\"440\"\n}\n"
	require.NoError(t, os.WriteFile(config.ManifestPath(440), []byte(broken), 0644))

	got := resolver.Resolve("Team Fortress 2", 440)
	assert.Equal(t, filepath.Join(config.LibraryRoot(), "Team_Fortress_2"), got)
}
