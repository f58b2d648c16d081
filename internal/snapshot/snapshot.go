// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync/atomic"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/fcache/internal/cache"
)

// transfers bounds concurrent object transfers.
const transfers = 8

// ObjectAPI is the part of *s3.Client used here.
type ObjectAPI interface {
	s3v2.ListObjectsV2APIClient
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// Target names where snapshots live.
type Target struct {
	Bucket string
	Prefix string
}

func (t Target) key(name string) string {
	if t.Prefix == "" {
		return name
	}
	return path.Join(t.Prefix, name)
}

func (t Target) listPrefix() string {
	if t.Prefix == "" {
		return ""
	}
	return strings.TrimSuffix(t.Prefix, "/") + "/"
}

// Result counts what a Push or Pull did.
type Result struct {
	Copied  int `json:"copied" yaml:"copied"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Push uploads every live entry file in store to t. Expired and corrupted
// files are skipped.
func Push(ctx context.Context, api ObjectAPI, store *cache.Store, t Target) (Result, error) {
	if t.Bucket == "" {
		return Result{}, errors.New("snapshot bucket is not set")
	}

	names, err := store.EntryFiles()
	if err != nil {
		return Result{}, err
	}

	var copied, failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(transfers)
	for _, name := range names {
		g.Go(func() error {
			body, err := store.ReadFile(name)
			if err != nil {
				log.WithError(err).Debugf("skipping %s", name)
				return nil
			}
			_, err = api.PutObject(ctx, &s3v2.PutObjectInput{
				Bucket:      awsv2.String(t.Bucket),
				Key:         awsv2.String(t.key(name)),
				Body:        bytes.NewReader(body),
				ContentType: awsv2.String("application/json"),
			})
			if err != nil {
				failed.Add(1)
				log.WithError(err).Warnf("failed to push %s", name)
				return fmt.Errorf("failed to push %s: %w", name, err)
			}
			copied.Add(1)
			return nil
		})
	}
	err = g.Wait()

	res := Result{Copied: int(copied.Load()), Failed: int(failed.Load())}
	res.Skipped = len(names) - res.Copied - res.Failed
	return res, err
}

// Pull downloads every entry object under t into store. Objects that are not
// entry files, are corrupted or have expired are skipped.
func Pull(ctx context.Context, api ObjectAPI, store *cache.Store, t Target) (Result, error) {
	if t.Bucket == "" {
		return Result{}, errors.New("snapshot bucket is not set")
	}

	var keys []string
	p := s3v2.NewListObjectsV2Paginator(api, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(t.Bucket),
		Prefix: awsv2.String(t.listPrefix()),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("failed to list snapshot objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, awsv2.ToString(obj.Key))
		}
	}

	var copied, skipped, failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(transfers)
	for _, key := range keys {
		name := path.Base(key)
		if !cache.ValidFileName(name) {
			skipped.Add(1)
			continue
		}
		g.Go(func() error {
			body, err := getObject(ctx, api, t.Bucket, key)
			if err != nil {
				failed.Add(1)
				return fmt.Errorf("failed to pull %s: %w", key, err)
			}
			ok, err := store.Import(name, body)
			switch {
			case errors.Is(err, cache.ErrCorrupted):
				log.WithError(err).Warnf("skipping corrupted snapshot object %s", key)
				skipped.Add(1)
			case err != nil:
				failed.Add(1)
				return err
			case ok:
				copied.Add(1)
			default:
				skipped.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()

	return Result{
		Copied:  int(copied.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}, err
}

func getObject(ctx context.Context, api ObjectAPI, bucket, key string) ([]byte, error) {
	out, err := api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
