// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"
	"io"

	"github.com/staranto/fcache/internal/config"
)

// Meta are the meta-options that are available on all commands.
type Meta struct {
	Args     []string
	Config   config.Type
	Settings config.Settings
	Context  context.Context
	// Stdout is where command results are written.
	Stdout io.Writer
}
