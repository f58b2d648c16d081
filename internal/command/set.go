// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/meta"
)

// SetCommandAction stores VALUE under KEY. VALUE "-" reads stdin. With --json
// the value is parsed as JSON instead of being stored as a string.
func SetCommandAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 { //nolint:mnd
		return errors.New("expected KEY and VALUE")
	}
	key, raw := cmd.Args().Get(0), cmd.Args().Get(1)

	if raw == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = strings.TrimSuffix(string(b), "\n")
	}

	value, err := parseValue(raw, cmd.Bool("json"))
	if err != nil {
		return err
	}

	return view(cmd).Set(key, value, ttl(cmd))
}

// parseValue returns raw as a string, or decoded when asJSON is set.
func parseValue(raw string, asJSON bool) (any, error) {
	if !asJSON {
		return raw, nil
	}
	if !gjson.Valid(raw) {
		return nil, errors.New("value is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// SetCommandBuilder constructs the cli.Command definition for "set".
func SetCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "set",
		Usage:     "store a value",
		UsageText: `fcache set KEY VALUE|- [options]`,
		Flags: []cli.Flag{
			NewTagFlag("index the key under this tag (repeatable)"),
			NewTTLFlag(),
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "parse VALUE as JSON",
			},
		},
		Examples: [][2]string{
			{"fcache set greeting hello --ttl 10m", "cache a string for ten minutes"},
			{`fcache set user:42 '{"name":"ann"}' --json`, "cache a JSON document"},
			{"fcache set -t products sku:1 9.99 --json", "cache a number under a tag"},
			{"curl -s $URL | fcache set page -", "cache stdin"},
		},
		Action: SetCommandAction,
		Meta:   meta,
	}).Build()
}

// DelCommandAction deletes every KEY given.
func DelCommandAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return errors.New("missing KEY")
	}
	v := view(cmd)
	var errs []error
	for _, key := range cmd.Args().Slice() {
		if err := v.Delete(key); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// DelCommandBuilder constructs the cli.Command definition for "del".
func DelCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "del",
		Usage:     "delete keys",
		UsageText: `fcache del KEY... [options]`,
		Flags: []cli.Flag{
			NewTagFlag("delete the keys under this tag set"),
		},
		Examples: [][2]string{
			{"fcache del user:42 user:43", "delete two keys"},
		},
		Action: DelCommandAction,
		Meta:   meta,
	}).Build()
}
