// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output renders cache values and stats for the command line in the
// text, json, raw and yaml formats.
package output
