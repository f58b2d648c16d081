// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/staranto/fcache/internal/aws"
	"github.com/staranto/fcache/internal/cache"
	"github.com/staranto/fcache/internal/meta"
	"github.com/staranto/fcache/internal/output"
	"github.com/staranto/fcache/internal/snapshot"
)

// snapshotFunc is snapshot.Push or snapshot.Pull.
type snapshotFunc func(context.Context, snapshot.ObjectAPI, *cache.Store, snapshot.Target) (snapshot.Result, error)

// snapshotAction returns the action shared by push and pull.
func snapshotAction(fn snapshotFunc) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		settings := GetMeta(cmd).Settings

		target := snapshot.Target{Bucket: settings.Bucket, Prefix: settings.Prefix}
		if cmd.IsSet("bucket") {
			target.Bucket = cmd.String("bucket")
		}
		if cmd.IsSet("prefix") {
			target.Prefix = cmd.String("prefix")
		}
		if target.Bucket == "" {
			return errors.New("no bucket given. Use --bucket or snapshot.bucket")
		}

		region := settings.Region
		if cmd.IsSet("region") {
			region = cmd.String("region")
		}

		api, err := aws.NewS3(ctx,
			aws.WithProfile(cmd.String("profile")),
			aws.WithRegion(region),
			aws.WithEndpoint(cmd.String("endpoint")),
		)
		if err != nil {
			return err
		}

		res, err := fn(ctx, api, GetStore(cmd), target)
		if perr := output.Value(stdout(cmd), res, cmd.String("output")); perr != nil {
			return errors.Join(err, perr)
		}
		return err
	}
}

func snapshotFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "bucket",
			Aliases: []string{"b"},
			Usage:   "S3 bucket. Defaults to snapshot.bucket",
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "object key prefix. Defaults to snapshot.prefix",
		},
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region. Defaults to snapshot.region, then the AWS config chain",
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared config profile",
			Sources: cli.EnvVars("AWS_PROFILE"),
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "S3-compatible endpoint URL",
		},
	}
}

// PushCommandBuilder constructs the cli.Command definition for "push".
func PushCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "push",
		Usage:     "copy live cache entries to S3",
		UsageText: `fcache push [options]`,
		Flags:     snapshotFlags(),
		Examples: [][2]string{
			{"fcache push -b my-bucket", "upload into my-bucket/fcache/"},
			{"fcache push -b dev --endpoint http://localhost:9000", "upload to MinIO"},
		},
		Action: snapshotAction(snapshot.Push),
		Meta:   meta,
	}).Build()
}

// PullCommandBuilder constructs the cli.Command definition for "pull".
func PullCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "pull",
		Usage:     "import cache entries from S3",
		UsageText: `fcache pull [options]`,
		Flags:     snapshotFlags(),
		Examples: [][2]string{
			{"fcache pull -b my-bucket", "import from my-bucket/fcache/"},
		},
		Action: snapshotAction(snapshot.Pull),
		Meta:   meta,
	}).Build()
}
