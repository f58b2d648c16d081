// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/fcache/internal/cache"
)

// setupEnv points fcache at a fresh cache directory and away from any real
// config file.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FCACHE_CFG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FCACHE_DIR", dir)
	t.Setenv("FCACHE_AUTO_CLEANUP", "false")
	for _, k := range []string{"FCACHE_OUTPUT", "FCACHE_ENABLED", "FCACHE_BUCKET"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

// run executes fcache with args and returns what it wrote.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	argv := append([]string{"fcache"}, args...)
	app, err := InitApp(context.Background(), argv, &buf)
	require.NoError(t, err)
	err = app.Run(context.Background(), argv)
	return buf.String(), err
}

func TestSetGet(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "set", "greeting", "hello")
	require.NoError(t, err)

	out, err := run(t, "get", "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestGet_Miss(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "get", "nope")
	assert.ErrorIs(t, err, ErrMiss)

	out, err := run(t, "get", "--default", "fallback", "nope")
	require.NoError(t, err)
	assert.Equal(t, "fallback\n", out)

	_, err = run(t, "get")
	assert.Error(t, err)
}

func TestSetJSON_Query(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "set", "--json", "user", `{"name":"ada","langs":["go","c"]}`)
	require.NoError(t, err)

	out, err := run(t, "get", "-q", "name", "-o", "raw", "user")
	require.NoError(t, err)
	assert.Equal(t, "\"ada\"\n", out)

	out, err = run(t, "get", "-o", "raw", "user")
	require.NoError(t, err)
	assert.Equal(t, "go", gjson.Get(out, "langs.0").String())

	_, err = run(t, "get", "-q", "missing", "user")
	assert.Error(t, err)

	_, err = run(t, "set", "--json", "bad", `{nope`)
	assert.Error(t, err)
}

func TestHasDel(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "set", "k", "v")
	require.NoError(t, err)

	out, err := run(t, "has", "k")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	_, err = run(t, "del", "k")
	require.NoError(t, err)

	out, err = run(t, "has", "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, "false\n", out)

	// Deleting again is not an error.
	_, err = run(t, "del", "k")
	assert.NoError(t, err)
}

func TestTagFlush(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "set", "-t", "products", "-t", "prices", "sku:1", "9.99")
	require.NoError(t, err)
	_, err = run(t, "set", "-t", "products", "sku:2", "5")
	require.NoError(t, err)

	out, err := run(t, "get", "-t", "prices", "-t", "products", "sku:1")
	require.NoError(t, err)
	assert.Equal(t, "9.99\n", out)

	// The untagged key is a different entry.
	_, err = run(t, "get", "sku:1")
	assert.ErrorIs(t, err, ErrMiss)

	_, err = run(t, "flush", "products")
	require.NoError(t, err)

	_, err = run(t, "get", "-t", "products", "-t", "prices", "sku:1")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = run(t, "get", "-t", "products", "sku:2")
	assert.ErrorIs(t, err, ErrMiss)

	_, err = run(t, "flush")
	assert.Error(t, err)
}

func TestRemember(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "remember", "k", "--", "echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)

	// Cached, so the failing command never runs.
	out, err = run(t, "remember", "k", "--", "false")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)

	_, err = run(t, "remember", "other", "--", "false")
	assert.Error(t, err)
	_, err = run(t, "get", "other")
	assert.ErrorIs(t, err, ErrMiss)

	_, err = run(t, "remember", "k")
	assert.Error(t, err)
}

func TestClearCleanupStats(t *testing.T) {
	dir := setupEnv(t)

	for _, k := range []string{"a", "b", "c"} {
		_, err := run(t, "set", k, k)
		require.NoError(t, err)
	}

	out, err := run(t, "stats", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, int64(3), gjson.Get(out, "total_files").Int())
	assert.Equal(t, int64(3), gjson.Get(out, "valid_files").Int())

	out, err = run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total files")

	out, err = run(t, "cleanup")
	require.NoError(t, err)
	assert.Equal(t, "removed 0\n", out)

	_, err = run(t, "clear")
	require.NoError(t, err)

	s, err := cache.New(dir)
	require.NoError(t, err)
	names, err := s.EntryFiles()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDisabled(t *testing.T) {
	setupEnv(t)
	t.Setenv("FCACHE_ENABLED", "false")

	_, err := run(t, "set", "k", "v")
	assert.ErrorIs(t, err, cache.ErrDisabled)

	_, err = run(t, "get", "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestDirFlag(t *testing.T) {
	setupEnv(t)
	other := t.TempDir()

	_, err := run(t, "set", "--dir", other, "k", "v")
	require.NoError(t, err)

	_, err = run(t, "get", "k")
	assert.ErrorIs(t, err, ErrMiss)

	out, err := run(t, "get", "-d", other, "k")
	require.NoError(t, err)
	assert.Equal(t, "v\n", out)
}

func TestFlagValidation(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "set", "--ttl", "-1s", "k", "v")
	assert.Error(t, err)

	_, err = run(t, "get", "-o", "xml", "k")
	assert.Error(t, err)

	_, err = run(t, "set", "-t", "--ttl", "k", "v")
	assert.Error(t, err)

	_, err = run(t, "sweep", "--every", "0s")
	assert.Error(t, err)
}

func TestExamples(t *testing.T) {
	dir := filepath.Join(setupEnv(t), "never")
	t.Setenv("FCACHE_DIR", dir)

	out, err := run(t, "get", "--examples")
	require.NoError(t, err)
	assert.Contains(t, out, "fcache get user:42")

	_, err = run(t, "set", "--tldr", "k", "v")
	require.NoError(t, err)

	_, err = run(t, "completion", "bash")
	require.NoError(t, err)

	assert.NoDirExists(t, dir)
}

func TestPush_NoBucket(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "push")
	assert.ErrorContains(t, err, "no bucket")
}

func TestCompletion(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _fcache fcache")

	out, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "compdef _fcache fcache")
}

func TestParseValue(t *testing.T) {
	v, err := parseValue("plain", false)
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	v, err = parseValue(`[1,2]`, true)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(v.(json.RawMessage)))
}
