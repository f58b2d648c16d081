// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/meta"
)

const bashCompletionScript = `# bash completion for fcache
_fcache()
{
    local cur prev cmd
    COMPREPLY=()
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "get set del has remember flush clear cleanup stats sweep push pull completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--dir -d --color -c --output -o --examples --tldr"

    case "$cmd" in
    get)
        local opts="$common --tag -t --default --query -q"
        ;;
    set)
        local opts="$common --tag -t --ttl --json"
        ;;
    del|has)
        local opts="$common --tag -t"
        ;;
    remember)
        local opts="$common --tag -t --ttl"
        ;;
    flush)
        local opts="$common --tag -t"
        ;;
    sweep)
        local opts="$common --every"
        ;;
    push|pull)
        local opts="$common --bucket -b --prefix --region --profile --endpoint"
        ;;
    completion)
        COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
        return 0
        ;;
    *)
        local opts="$common"
        ;;
    esac

    case "$prev" in
    --output|-o)
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
        ;;
    --dir|-d)
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
        ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _fcache fcache
`

const zshCompletionScript = `#compdef fcache

_fcache() {
  local -a cmds
  cmds=(
    'get:print a cached value'
    'set:store a value'
    'del:delete a key'
    'has:test whether a key is cached'
    'remember:cache the output of a command'
    'flush:invalidate every key under one or more tags'
    'clear:delete every cache entry'
    'cleanup:remove expired and corrupted entries'
    'stats:summarize the cache directory'
    'sweep:periodically remove expired entries'
    'push:copy live cache entries to S3'
    'pull:import cache entries from S3'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
    '(-d --dir)'{-d,--dir}'[cache directory]:dir:_directories'
    '(-c --color)'{-c,--color}'[enable colored text]'
    '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
    '--examples[show usage examples]'
    '--tldr[show tldr page]'
  )
  local -a tag
  tag=('*'{-t,--tag}'[tag]:tag')

  if (( CURRENT == 2 )); then
    _describe -t commands 'fcache commands' cmds
    return
  fi

  case $words[2] in
    get)
      _arguments -C $common $tag '--default[value on a miss]:value' '(-q --query)'{-q,--query}'[gjson query]:query' '1:key'
      ;;
    set)
      _arguments -C $common $tag '--ttl[time to live]:duration' '--json[value is JSON]' '1:key' '2:value'
      ;;
    del|has)
      _arguments -C $common $tag '1:key'
      ;;
    remember)
      _arguments -C $common $tag '--ttl[time to live]:duration' '1:key' '*::command:_normal'
      ;;
    flush)
      _arguments -C $common $tag '*:tag'
      ;;
    sweep)
      _arguments -C $common '--every[interval]:duration'
      ;;
    push|pull)
      _arguments -C $common \
        '(-b --bucket)'{-b,--bucket}'[S3 bucket]:bucket' \
        '--prefix[object key prefix]:prefix' \
        '--region[AWS region]:region' \
        '--profile[AWS profile]:profile' \
        '--endpoint[S3 endpoint]:url'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _fcache fcache
`

// CompletionCommandAction prints the completion script for the shell named
// as the first argument, or for $SHELL when none is given.
func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		shell = os.Getenv("SHELL")
	}

	switch {
	case strings.HasSuffix(shell, "zsh"):
		fmt.Fprint(stdout(cmd), zshCompletionScript)
	case strings.HasSuffix(shell, "bash"):
		fmt.Fprint(stdout(cmd), bashCompletionScript)
	default:
		fmt.Fprintln(os.Stderr, "usage: fcache completion [bash|zsh]")
	}
	return nil
}

// CompletionCommandBuilder constructs the cli.Command definition for
// "completion". It does not open a store.
func CompletionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "fcache completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
