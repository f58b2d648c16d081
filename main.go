// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/staranto/fcache/internal/command"
	mylog "github.com/staranto/fcache/internal/log"
	"github.com/staranto/fcache/internal/version"
)

// Exit codes.
const (
	exitOK = iota
	exitInit
	exitRun
	exitMiss
)

var ctx = context.Background()

func main() {
	os.Exit(realMain(os.Args, os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	mylog.InitLogger()

	if len(args) < 2 {
		fmt.Fprintln(stderr, "No command specified.")
		args = append(args, "--help")
	}

	// Short-circuit --version/-v.
	for _, a := range args[1:] {
		if a == "--" {
			break
		}
		if a == "--version" || a == "-v" {
			fmt.Fprintln(stdout, version.Version)
			return exitOK
		}
	}

	app, err := command.InitApp(ctx, args, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInit
	}

	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, command.ErrMiss) {
			return exitMiss
		}
		fmt.Fprintln(stderr, err)
		return exitRun
	}

	return exitOK
}
