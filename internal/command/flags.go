// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"os/exec"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// newTldrFlag and newExamplesFlag return fresh flags for each command since a
// flag keeps the value it was last parsed with.
func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

func newExamplesFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "examples",
		Usage:       "show usage examples",
		HideDefault: true,
	}
}

// NewGlobalFlags returns the flags every command carries. params[0] is the
// command name used to namespace config file lookups and params[1], when
// present, is the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	var src string
	if len(params) == 2 {
		src = params[1]
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "cache directory. Overrides FCACHE_DIR and cache.dir",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(src)),
				yaml.YAML("color", altsrc.StringSourcer(src)),
			),
			Value: isTerminal(),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("FCACHE_OUTPUT"),
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(src)),
				yaml.YAML("output", altsrc.StringSourcer(src)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
	}

	return
}

// NewTagFlag constructs the repeatable --tag flag used by commands that can
// work on a tagged view.
func NewTagFlag(usage string) *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:    "tag",
		Aliases: []string{"t"},
		Usage:   usage,
	}
}

// NewTTLFlag constructs the --ttl flag. When it is not set the store's
// default TTL applies; 0 means never expire.
func NewTTLFlag() *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:  "ttl",
		Usage: "time to live, 0 for never. Defaults to cache.default_ttl",
		Validator: func(value time.Duration) error {
			return FlagValidators(value, NonNegativeDurationValidator)
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas checks if the given executable is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
