// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// fcache is the command line front end to the file-backed cache in
// internal/cache. It wires the CLI and serves as the entry point.
package main
