// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestCustomHandler(t *testing.T) {
	var buf bytes.Buffer
	l := &log.Logger{Handler: NewHandler(&buf), Level: log.DebugLevel}

	l.WithField("key", "a").WithError(errors.New("boom")).Warn("failed to write cache entry")

	line := buf.String()
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} W failed to write cache entry`, line)
	assert.Contains(t, line, " error=boom")
	assert.Contains(t, line, " key=a")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("error=")), bytes.Index(buf.Bytes(), []byte("key=")))
}

func TestCustomHandler_Timestamp(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)

	err := h.HandleLog(&log.Entry{Level: log.InfoLevel, Message: "hello", Timestamp: ts})
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-02 03:04:05 I hello\n", buf.String())
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		env  string
		want log.Level
	}{
		{env: "", want: log.ErrorLevel},
		{env: "debug", want: log.DebugLevel},
		{env: "WARN", want: log.WarnLevel},
		{env: "nonsense", want: log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("FCACHE_LOG", tt.env)
			InitLogger()
			l, ok := log.Log.(*log.Logger)
			if assert.True(t, ok) {
				assert.Equal(t, tt.want, l.Level)
			}
		})
	}
}
