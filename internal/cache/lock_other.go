// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package cache

import "os"

// No advisory locking off unix. Writers inside one process are still
// serialized by core.wmu.
func flock(*os.File) error   { return nil }
func funlock(*os.File) error { return nil }
