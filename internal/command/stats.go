// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/meta"
	"github.com/staranto/fcache/internal/output"
)

// StatsCommandAction prints a summary of the entries on disk.
func StatsCommandAction(ctx context.Context, cmd *cli.Command) error {
	st, err := GetStore(cmd).Stats()
	if err != nil {
		return err
	}
	return output.Stats(stdout(cmd), st, cmd.String("output"), cmd.Bool("color"))
}

// StatsCommandBuilder constructs the cli.Command definition for "stats".
func StatsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "stats",
		Usage:     "summarize the cache directory",
		UsageText: `fcache stats [options]`,
		Examples: [][2]string{
			{"fcache stats", "table of file counts and size"},
			{"fcache stats -o json", "the same as JSON"},
		},
		Action: StatsCommandAction,
		Meta:   meta,
	}).Build()
}
