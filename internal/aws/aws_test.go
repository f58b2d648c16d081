// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"testing"

	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
)

func TestLoadOptions(t *testing.T) {
	assert.Empty(t, loadOptions(options{}))
	assert.Len(t, loadOptions(options{profile: "p"}), 1)
	assert.Len(t, loadOptions(options{profile: "p", region: "us-east-1"}), 2)
}

func TestS3Options_Endpoint(t *testing.T) {
	assert.Empty(t, s3Options(options{}))

	fns := s3Options(options{endpoint: "http://localhost:9000"})
	assert.Len(t, fns, 1)

	var so s3v2.Options
	fns[0](&so)
	if assert.NotNil(t, so.BaseEndpoint) {
		assert.Equal(t, "http://localhost:9000", *so.BaseEndpoint)
	}
	assert.True(t, so.UsePathStyle)
}

func TestOptions(t *testing.T) {
	var o options
	for _, opt := range []Option{WithProfile("dev"), WithRegion("eu-west-1"), WithEndpoint("http://x")} {
		opt(&o)
	}
	assert.Equal(t, options{profile: "dev", region: "eu-west-1", endpoint: "http://x"}, o)
}
