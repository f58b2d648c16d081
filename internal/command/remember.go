// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/meta"
)

// RememberCommandAction prints the value cached under KEY, or runs the
// command after "--", caches its stdout and prints that. A failing command is
// not cached.
func RememberCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 { //nolint:mnd
		return errors.New("expected KEY -- COMMAND [ARGS...]")
	}
	key, argv := args[0], args[1:]

	v, err := view(cmd).Remember(key, ttl(cmd), func() (any, error) {
		log.Debugf("running %v", argv)
		var out bytes.Buffer
		c := exec.CommandContext(ctx, argv[0], argv[1:]...)
		c.Stdout = &out
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return nil, fmt.Errorf("%s: %w", argv[0], err)
		}
		return out.String(), nil
	})
	if err != nil {
		return err
	}

	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%s does not hold command output", key)
	}
	_, err = fmt.Fprint(stdout(cmd), s)
	return err
}

// RememberCommandBuilder constructs the cli.Command definition for "remember".
func RememberCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "remember",
		Usage:     "cache the output of a command",
		UsageText: `fcache remember KEY [options] -- COMMAND [ARGS...]`,
		Flags: []cli.Flag{
			NewTagFlag("index the key under this tag (repeatable)"),
			NewTTLFlag(),
		},
		Examples: [][2]string{
			{"fcache remember ip --ttl 1h -- curl -s ifconfig.me", "fetch once an hour"},
		},
		Action: RememberCommandAction,
		Meta:   meta,
	}).Build()
}
