// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/config"
	"github.com/staranto/fcache/internal/meta"
)

// InitApp builds the root fcache command. Results are written to w.
func InitApp(ctx context.Context, args []string, w io.Writer) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the fcache
	// subcommand and also the namespace key used when retrieving config values.
	// arg[1] could be -h/--help, so ignore it if it appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// LoadSettings reloads the config without a namespace, so it goes first.
	settings := config.LoadSettings()
	cfg, err := config.Load(ns)
	if err != nil {
		log.WithError(err).Debug("no config file")
	}

	meta := meta.Meta{
		Args:     args,
		Config:   cfg,
		Settings: settings,
		Context:  ctx,
		Stdout:   w,
	}

	app := &cli.Command{
		Name:   "fcache",
		Usage:  "file-backed key/value cache",
		Writer: w,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "fcache version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		GetCommandBuilder(meta),
		SetCommandBuilder(meta),
		DelCommandBuilder(meta),
		HasCommandBuilder(meta),
		RememberCommandBuilder(meta),
		FlushCommandBuilder(meta),
		ClearCommandBuilder(meta),
		CleanupCommandBuilder(meta),
		StatsCommandBuilder(meta),
		SweepCommandBuilder(meta),
		PushCommandBuilder(meta),
		PullCommandBuilder(meta),
		CompletionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
