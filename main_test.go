// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staranto/fcache/internal/version"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FCACHE_CFG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FCACHE_DIR", t.TempDir())
	t.Setenv("FCACHE_AUTO_CLEANUP", "false")
	t.Setenv("FCACHE_OUTPUT", "")
	os.Unsetenv("FCACHE_OUTPUT")
}

func TestRealMain_ExitCodes(t *testing.T) {
	setupEnv(t)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, realMain([]string{"fcache", "--version"}, &stdout, &stderr))
	assert.Equal(t, version.Version+"\n", stdout.String())

	stdout.Reset()
	assert.Equal(t, exitMiss, realMain([]string{"fcache", "get", "nope"}, &stdout, &stderr))
	assert.Empty(t, stderr.String())

	assert.Equal(t, exitOK, realMain([]string{"fcache", "set", "k", "v"}, &stdout, &stderr))
	assert.Equal(t, exitOK, realMain([]string{"fcache", "get", "k"}, &stdout, &stderr))
	assert.Equal(t, "v\n", stdout.String())

	assert.Equal(t, exitRun, realMain([]string{"fcache", "set", "only-key"}, &stdout, &stderr))
	assert.NotEmpty(t, stderr.String())
}
