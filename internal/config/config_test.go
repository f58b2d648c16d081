// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// setupTestConfig sets FCACHE_CFG to point to a test config file.
// Returns cleanup function that should be deferred.
func setupTestConfig(t *testing.T, testdataFile string) (cleanup func()) {
	t.Helper()

	// Get absolute path to testdata file
	configPath := filepath.Join("testdata", testdataFile)
	absPath, err := filepath.Abs(configPath)
	assert.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("FCACHE_CFG", absPath)

	// Reset the global Config to force reload
	Config = Type{}

	return func() {
		// Reset global Config
		Config = Type{}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			wantErr:  false,
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Contains(t, cfg.Data, "dir")
				assert.Equal(t, "/var/cache/fcache", cfg.Data["dir"])
				assert.Equal(t, "json", cfg.Data["output"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			wantErr:  false,
			checkFunc: func(t *testing.T, cfg Type) {
				c, ok := cfg.Data["cache"].(map[string]interface{})
				assert.True(t, ok, "cache should be a map")
				assert.Equal(t, "/srv/cache", c["dir"])
				assert.Equal(t, 50, c["cleanup_odds"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			wantErr:  false,
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "test-project", cfg.Data["name"])
				assert.Equal(t, 1, cfg.Data["version"])
				assert.Equal(t, true, cfg.Data["enabled"])
				assert.Equal(t, 30.5, cfg.Data["timeout"])
				tags, ok := cfg.Data["tags"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, tags, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			wantErr:  false,
			checkFunc: func(t *testing.T, cfg Type) {
				// Empty YAML unmarshals to nil map, which is acceptable
				assert.NotEmpty(t, cfg.Source, "should have a source path")
			},
		},
		{
			name:     "invalid yaml",
			testFile: "invalid.yaml",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Set FCACHE_CFG to non-existent file
	t.Setenv("FCACHE_CFG", "/nonexistent/path/fcache.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_FCACHE_CFG_IsDirectory(t *testing.T) {
	// Set FCACHE_CFG to a directory instead of a file
	t.Setenv("FCACHE_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestLoad_StandardLocations(t *testing.T) {
	dir, err := filepath.Abs("testdata")
	assert.NoError(t, err)

	t.Setenv("FCACHE_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", t.TempDir())
	Config = Type{}

	_, err = Load()
	assert.Error(t, err)

	// No fcache.yaml in testdata either.
	t.Setenv("XDG_CONFIG_HOME", dir)
	_, err = Load()
	assert.Error(t, err)
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{
			name:     "simple string value",
			testFile: "simple.yaml",
			key:      "dir",
			want:     "/var/cache/fcache",
			wantErr:  false,
		},
		{
			name:     "nested string value",
			testFile: "nested.yaml",
			key:      "cache.dir",
			want:     "/srv/cache",
			wantErr:  false,
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []string{"default-value"},
			want:         "default-value",
			wantErr:      false,
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			want:     "",
			wantErr:  true,
		},
		{
			name:     "non-string value",
			testFile: "mixed-types.yaml",
			key:      "version",
			want:     "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			// Force load
			_, _ = Load()

			got, err := GetString(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{
			name:     "int value",
			testFile: "mixed-types.yaml",
			key:      "version",
			want:     1,
			wantErr:  false,
		},
		{
			name:     "float value converted to int",
			testFile: "mixed-types.yaml",
			key:      "timeout",
			want:     30,
			wantErr:  false,
		},
		{
			name:     "nested int value",
			testFile: "nested.yaml",
			key:      "cache.cleanup_odds",
			want:     50,
			wantErr:  false,
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []int{60},
			want:         60,
			wantErr:      false,
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			want:     0,
			wantErr:  true,
		},
		{
			name:     "non-int value",
			testFile: "simple.yaml",
			key:      "dir",
			want:     0,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			// Force load
			_, _ = Load()

			got, err := GetInt(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetBoolAndDuration(t *testing.T) {
	cleanup := setupTestConfig(t, "mixed-types.yaml")
	defer cleanup()

	_, err := Load()
	assert.NoError(t, err)

	b, err := GetBool("enabled")
	assert.NoError(t, err)
	assert.True(t, b)

	_, err = GetBool("name")
	assert.Error(t, err)

	b, err = GetBool("missing", true)
	assert.NoError(t, err)
	assert.True(t, b)

	d, err := GetDuration("ttl")
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = GetDuration("ttl_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	d, err = GetDuration("timeout")
	assert.NoError(t, err)
	assert.Equal(t, 30500*time.Millisecond, d)

	_, err = GetDuration("name")
	assert.Error(t, err)

	d, err = GetDuration("missing", time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, time.Hour, d)
}

func TestConfig_GetWithNamespace(t *testing.T) {
	cleanup := setupTestConfig(t, "nested.yaml")
	defer cleanup()

	_, err := Load()
	assert.NoError(t, err)

	Config.Namespace = "get"
	val, err := Config.get("output")
	assert.NoError(t, err)
	assert.Equal(t, "yaml", val)

	Config.Namespace = "stats"
	val, err = Config.get("output")
	assert.NoError(t, err)
	assert.Equal(t, "text", val)

	val, err = Config.get("query")
	assert.NoError(t, err)
	assert.Equal(t, "total_files", val)
}

func TestConfig_GetNestedPath(t *testing.T) {
	cleanup := setupTestConfig(t, "deep-nested.yaml")
	defer cleanup()

	_, err := Load()
	assert.NoError(t, err)

	val, err := Config.get("level1.level2.level3.value")
	assert.NoError(t, err)
	assert.Equal(t, "deep-value", val)
}

func TestConfig_LazyLoad(t *testing.T) {
	cleanup := setupTestConfig(t, "simple.yaml")
	defer cleanup()

	// Don't explicitly call Load(), just use GetString
	// This should trigger lazy loading
	val, err := GetString("dir")
	assert.NoError(t, err)
	assert.Equal(t, "/var/cache/fcache", val)
	assert.NotEmpty(t, Config.Source, "Config should be loaded")
}

func TestGetString_NamespaceFallback(t *testing.T) {
	cleanup := setupTestConfig(t, "namespace.yaml")
	defer cleanup()

	_, err := Load("get")
	assert.NoError(t, err)
	assert.Equal(t, "get", Config.Namespace)

	// Should find namespaced value
	val, err := GetString("setting")
	assert.NoError(t, err)
	assert.Equal(t, "get-value", val)

	// Should find specific namespaced value
	val, err = GetString("specific")
	assert.NoError(t, err)
	assert.Equal(t, "get-specific", val)

	// Falls back to the bare key
	Config.Namespace = "stats"
	val, err = GetString("setting")
	assert.NoError(t, err)
	assert.Equal(t, "global-value", val)

	// Non-existent key should still error
	_, err = GetString("nonexistent")
	assert.Error(t, err)
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("FCACHE_CFG", "/nonexistent/fcache.yaml")
	Config = Type{}
	defer func() { Config = Type{} }()

	got := LoadSettings()
	if diff := cmp.Diff(DefaultSettings(), got); diff != "" {
		t.Errorf("LoadSettings() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "fcache", filepath.Base(got.Dir))
}

func TestLoadSettings_File(t *testing.T) {
	cleanup := setupTestConfig(t, "settings.yaml")
	defer cleanup()

	want := DefaultSettings()
	want.Dir = "/tmp/fcache-test"
	want.Enabled = false
	want.DefaultTTL = 15 * time.Minute
	want.AutoCleanup = false
	want.CleanupOdds = 7
	want.SweepEvery = 30 * time.Second
	want.Bucket = "my-bucket"
	want.Region = "us-west-2"

	got := LoadSettings()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSettings() mismatch (-want +got):\n%s", diff)
	}

	cc := got.CacheConfig()
	assert.False(t, cc.Enabled)
	assert.Equal(t, 15*time.Minute, cc.DefaultTTL)
	assert.Equal(t, 7, cc.CleanupOdds)
}

func TestLoadSettings_EnvWins(t *testing.T) {
	cleanup := setupTestConfig(t, "settings.yaml")
	defer cleanup()

	t.Setenv("FCACHE_DIR", "/env/dir")
	t.Setenv("FCACHE_ENABLED", "true")
	t.Setenv("FCACHE_DEFAULT_TTL", "2h")

	got := LoadSettings()
	assert.Equal(t, "/env/dir", got.Dir)
	assert.True(t, got.Enabled)
	assert.Equal(t, 2*time.Hour, got.DefaultTTL)
	// Untouched by env.
	assert.Equal(t, 7, got.CleanupOdds)
	assert.Equal(t, "my-bucket", got.Bucket)
}

func TestLoadSettings_BadEnvIgnored(t *testing.T) {
	cleanup := setupTestConfig(t, "settings.yaml")
	defer cleanup()

	t.Setenv("FCACHE_DIR", "/env/dir")
	t.Setenv("FCACHE_CLEANUP_ODDS", "lots")

	got := LoadSettings()
	assert.Equal(t, "/tmp/fcache-test", got.Dir)
	assert.Equal(t, 7, got.CleanupOdds)
}
