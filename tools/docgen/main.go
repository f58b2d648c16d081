// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/command"
)

// docgen walks the fcache command tree and generates, per command:
//   - docs/commands/fcache-<cmd>.md
//   - docs/man/share/man1/fcache-<cmd>.1 via md2man
//   - docs/tldr/fcache-<cmd>.md from the command's examples

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	mdOutDir := filepath.Join(repoRoot, "docs", "commands")
	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(repoRoot, "docs", "tldr")
	for _, d := range []string{mdOutDir, manOutDir, tldrOutDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			fatalf("creating %s: %v", d, err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"fcache"}, io.Discard)
	if err != nil {
		fatalf("building app: %v", err)
	}

	for _, cmd := range app.Commands {
		md := buildMarkdown(cmd)
		write := func(dir, name string, b []byte) {
			if err := writeFileIfChanged(filepath.Join(dir, name), b, writeOnlyIfChanged); err != nil {
				fatalf("writing %s for %s: %v", name, cmd.Name, err)
			}
		}
		write(mdOutDir, "fcache-"+cmd.Name+".md", []byte(md))
		write(manOutDir, "fcache-"+cmd.Name+".1", md2man.Render([]byte(md)))
		write(tldrOutDir, "fcache-"+cmd.Name+".md", []byte(buildTLDR(cmd)))
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

func examples(cmd *cli.Command) [][2]string {
	exs, _ := cmd.Metadata["examples"].([][2]string)
	return exs
}

// buildMarkdown renders cmd in the go-md2man dialect: a title line
// "NAME 1" followed by ordinary sections.
func buildMarkdown(cmd *cli.Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fcache-%s 1 \"fcache\"\n", cmd.Name)
	b.WriteString("==========\n\n")

	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "fcache-%s - %s\n\n", cmd.Name, cmd.Usage)

	b.WriteString("# SYNOPSIS\n\n")
	fmt.Fprintf(&b, "`%s`\n\n", cmd.UsageText)

	if len(cmd.Flags) > 0 {
		b.WriteString("# OPTIONS\n\n")
		for _, f := range cmd.Flags {
			names := make([]string, 0, len(f.Names()))
			for _, n := range f.Names() {
				if len(n) == 1 {
					names = append(names, "-"+n)
				} else {
					names = append(names, "--"+n)
				}
			}
			usage := ""
			if df, ok := f.(cli.DocGenerationFlag); ok {
				usage = df.GetUsage()
			}
			fmt.Fprintf(&b, "**%s**\n: %s\n\n", strings.Join(names, ", "), usage)
		}
	}

	if exs := examples(cmd); len(exs) > 0 {
		b.WriteString("# EXAMPLES\n\n")
		for _, ex := range exs {
			fmt.Fprintf(&b, "%s:\n\n    %s\n\n", ex[1], ex[0])
		}
	}
	return b.String()
}

func buildTLDR(cmd *cli.Command) string {
	var b strings.Builder
	b.WriteString("# fcache " + cmd.Name + "\n\n")
	b.WriteString("> " + capitalize(cmd.Usage) + ".\n")
	b.WriteString("> More information: https://github.com/staranto/fcache.\n\n")

	exs := examples(cmd)
	if len(exs) == 0 {
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`fcache " + cmd.Name + " --help`\n")
		return b.String()
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + capitalize(ex[1]) + ":\n\n")
		b.WriteString("`" + strings.Join(strings.Fields(ex[0]), " ") + "`\n")
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
