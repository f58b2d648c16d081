// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package snapshot copies cache entry files to and from an S3 bucket. Entry
// file names are already key hashes, so objects are stored under
// <prefix>/<file name> and pulled back verbatim.
package snapshot
