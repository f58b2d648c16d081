// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/cache"
	"github.com/staranto/fcache/internal/meta"
	"github.com/staranto/fcache/internal/output"
)

// ErrMiss is returned by get and has when the key holds no usable value.
// main maps it to its own exit code without printing.
var ErrMiss = errors.New("cache miss")

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr fcache <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "fcache", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// GetStore returns the store opened for cmd by its Before hook.
func GetStore(cmd *cli.Command) *cache.Store {
	if cmd == nil || cmd.Metadata == nil {
		return nil
	}
	s, _ := cmd.Metadata["store"].(*cache.Store)
	return s
}

// stdout is where a command writes its results.
func stdout(cmd *cli.Command) io.Writer {
	if w := GetMeta(cmd).Stdout; w != nil {
		return w
	}
	return os.Stdout
}

// openStore builds the store from the resolved settings, honoring --dir, and
// only then applies the settings to it.
func openStore(cmd *cli.Command) (*cache.Store, error) {
	settings := GetMeta(cmd).Settings
	if d := cmd.String("dir"); d != "" {
		settings.Dir = d
	}
	if settings.Dir == "" {
		return nil, errors.New("no cache directory configured")
	}

	store, err := cache.New(settings.Dir)
	if err != nil {
		return nil, err
	}
	store.Configure(settings.CacheConfig())
	log.Debugf("using cache directory %s", settings.Dir)
	return store, nil
}

// view returns the store, or a tagged view of it when --tag was given.
func view(cmd *cli.Command) cacheView {
	store := GetStore(cmd)
	if tags := cmd.StringSlice("tag"); len(tags) > 0 {
		return store.Tags(tags...)
	}
	return store
}

// cacheView is what get, set, del and has need from a store or tagged view.
type cacheView interface {
	Get(key string) (any, error)
	Set(key string, value any, ttl time.Duration) error
	Delete(key string) error
	Has(key string) bool
	Remember(key string, ttl time.Duration, fn func() (any, error)) (any, error)
}

// ttl returns --ttl, or cache.DefaultTTL when it was not given.
func ttl(cmd *cli.Command) time.Duration {
	if cmd.IsSet("ttl") {
		return cmd.Duration("ttl")
	}
	return cache.DefaultTTL
}

// CommandBuilder constructs a cli.Command for an fcache subcommand using a
// consistent pattern. It wires metadata, adds the tldr/examples and global
// flags, opens the store before the action and gives it a chance to clean up
// afterwards.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Examples  [][2]string
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta":     cb.Meta,
			"examples": cb.Examples,
		},
		Flags: append(cb.Flags, append([]cli.Flag{
			newTldrFlag(),
			newExamplesFlag(),
		}, NewGlobalFlags(cb.Name, cb.Meta.Config.Source)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := GlobalFlagsValidator(ctx, c); err != nil {
				return ctx, err
			}
			// Help-only runs never touch the cache directory.
			if c.Bool("tldr") || c.Bool("examples") {
				return ctx, nil
			}
			store, err := openStore(c)
			if err != nil {
				return ctx, fmt.Errorf("failed to open cache: %w", err)
			}
			c.Metadata["store"] = store
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if ShortCircuitTLDR(ctx, c, cb.Name) {
				return nil
			}
			if c.Bool("examples") {
				output.DumpExamples(stdout(c), cb.Examples)
				return nil
			}
			log.Debugf("Executing action for %v", c.Args().Slice())
			return cb.Action(ctx, c)
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// The result is already written; sweep now so the caller never
			// waits on it, then let it finish before the process exits.
			if store := GetStore(c); store != nil {
				store.MaybeCleanup()
				store.Wait()
			}
			return nil
		},
	}
}
