// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/cache"
	"github.com/staranto/fcache/internal/meta"
	"github.com/staranto/fcache/internal/output"
)

// GetCommandAction prints the value stored under KEY. A miss prints --default
// when given and otherwise fails with ErrMiss.
func GetCommandAction(ctx context.Context, cmd *cli.Command) error {
	key := cmd.Args().First()
	if key == "" {
		return errors.New("missing KEY")
	}

	v, err := view(cmd).Get(key)
	switch {
	case cache.IsMiss(err):
		log.WithError(err).Debugf("miss for %s", key)
		if !cmd.IsSet("default") {
			return ErrMiss
		}
		v = cmd.String("default")
	case err != nil:
		return err
	}

	v, err = output.Query(v, cmd.String("query"))
	if err != nil {
		return err
	}
	return output.Value(stdout(cmd), v, cmd.String("output"))
}

// GetCommandBuilder constructs the cli.Command definition for "get".
func GetCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "get",
		Usage:     "print a cached value",
		UsageText: `fcache get KEY [options]`,
		Flags: []cli.Flag{
			NewTagFlag("read the key through this tag set"),
			&cli.StringFlag{
				Name:  "default",
				Usage: "value to print on a miss instead of failing",
			},
			NameSpacedValueChainFlagFromConfigFile("get", meta.Config.Source, &cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "gjson path selecting part of the value",
			}),
		},
		Examples: [][2]string{
			{"fcache get user:42", "print the value of user:42"},
			{"fcache get user:42 -q name -o raw", "print one field as JSON"},
			{"fcache get -t products sku:1", "read sku:1 under the products tag"},
		},
		Action: GetCommandAction,
		Meta:   meta,
	}).Build()
}

// HasCommandAction prints whether KEY holds a valid entry and fails with
// ErrMiss when it does not.
func HasCommandAction(ctx context.Context, cmd *cli.Command) error {
	key := cmd.Args().First()
	if key == "" {
		return errors.New("missing KEY")
	}

	ok := view(cmd).Has(key)
	fmt.Fprintln(stdout(cmd), ok)
	if !ok {
		return ErrMiss
	}
	return nil
}

// HasCommandBuilder constructs the cli.Command definition for "has".
func HasCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "has",
		Usage:     "report whether a key is cached",
		UsageText: `fcache has KEY [options]`,
		Flags: []cli.Flag{
			NewTagFlag("check the key through this tag set"),
		},
		Examples: [][2]string{
			{"fcache has user:42 && echo hit", "branch on a cache hit"},
		},
		Action: HasCommandAction,
		Meta:   meta,
	}).Build()
}
