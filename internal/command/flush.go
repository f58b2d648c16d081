// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/meta"
)

// FlushCommandAction deletes every key indexed under the --tag values.
func FlushCommandAction(ctx context.Context, cmd *cli.Command) error {
	tags := append(cmd.StringSlice("tag"), cmd.Args().Slice()...)
	if len(tags) == 0 {
		return errors.New("at least one tag is required")
	}
	return GetStore(cmd).Tags(tags...).Flush()
}

// FlushCommandBuilder constructs the cli.Command definition for "flush".
func FlushCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "flush",
		Usage:     "invalidate every key under one or more tags",
		UsageText: `fcache flush TAG... [options]`,
		Flags: []cli.Flag{
			NewTagFlag("tag to flush (repeatable)"),
		},
		Examples: [][2]string{
			{"fcache flush products", "drop everything tagged products"},
		},
		Action: FlushCommandAction,
		Meta:   meta,
	}).Build()
}

// ClearCommandAction deletes every entry.
func ClearCommandAction(ctx context.Context, cmd *cli.Command) error {
	return GetStore(cmd).Clear()
}

// ClearCommandBuilder constructs the cli.Command definition for "clear".
func ClearCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "clear",
		Usage:     "delete every cache entry",
		UsageText: `fcache clear [options]`,
		Action:    ClearCommandAction,
		Meta:      meta,
	}).Build()
}

// CleanupCommandAction removes expired and corrupted entries and prints how
// many went.
func CleanupCommandAction(ctx context.Context, cmd *cli.Command) error {
	n, err := GetStore(cmd).Cleanup()
	fmt.Fprintf(stdout(cmd), "removed %d\n", n)
	return err
}

// CleanupCommandBuilder constructs the cli.Command definition for "cleanup".
func CleanupCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "cleanup",
		Usage:     "remove expired and corrupted entries",
		UsageText: `fcache cleanup [options]`,
		Action:    CleanupCommandAction,
		Meta:      meta,
	}).Build()
}
