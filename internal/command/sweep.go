// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/meta"
)

// SweepCommandAction runs cleanup on an interval until interrupted.
func SweepCommandAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	every := cmd.Duration("every")
	if !cmd.IsSet("every") {
		every = GetMeta(cmd).Settings.SweepEvery
	}
	log.Infof("sweeping %s every %s", GetStore(cmd).Dir(), every)
	return GetStore(cmd).Sweep(ctx, every)
}

// SweepCommandBuilder constructs the cli.Command definition for "sweep".
func SweepCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "sweep",
		Usage:     "periodically remove expired entries",
		UsageText: `fcache sweep [options]`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "every",
				Usage: "interval between sweeps. Defaults to cache.sweep_every",
				Validator: func(value time.Duration) error {
					return FlagValidators(value, PositiveDurationValidator)
				},
			},
		},
		Action: SweepCommandAction,
		Meta:   meta,
	}).Build()
}
