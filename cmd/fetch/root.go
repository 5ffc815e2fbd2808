//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.bug.st/fetch"
	"golang.org/x/sync/errgroup"
)

var (
	output            string
	userAgent         string
	insecure          bool
	maxSize           int64
	inactivityTimeout time.Duration
	interval          time.Duration
	quiet             bool
	debug             bool
)

var rootCmd = &cobra.Command{
	Use:   "fetch [flags] URL...",
	Short: "Download URLs into memory and write them to stdout or a file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogger(debug)
		if output != "" && len(args) > 1 {
			return errors.New("--output can be used with a single URL only")
		}
		if insecure {
			log.Warn().Msg("TLS certificate verification is disabled")
		}
		cmd.SilenceUsage = true
		return run(args, fetch.Config{
			UserAgent:          userAgent,
			InsecureSkipVerify: insecure,
			MaxBufferSize:      maxSize,
			InactivityTimeout:  inactivityTimeout,
		})
	},
}

func run(urls []string, config fetch.Config) error {
	p := &printer{out: os.Stderr}
	handles := make([]*fetch.Handle, len(urls))
	for i, url := range urls {
		h, err := fetch.FetchWithConfig(url, config)
		if err != nil {
			for _, started := range handles[:i] {
				_ = started.Dispose()
			}
			return fmt.Errorf("%s: %w", url, err)
		}
		handles[i] = h
	}

	results := make([][]byte, len(urls))
	var g errgroup.Group
	for i, h := range handles {
		i, h := i, h
		g.Go(func() error {
			defer h.Dispose()
			err := h.Poll(func(downloaded, total int64) {
				if !quiet && !h.Complete() {
					p.progress(h.URL, downloaded, total)
				}
			}, interval)
			if err != nil {
				p.failure(h.URL, err)
				return err
			}
			data, err := h.Result()
			if err != nil {
				return err
			}
			results[i] = data.Bytes()
			if !quiet {
				p.success(h.URL, data.Len(), h.StatusCode())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if output != "" {
		return os.WriteFile(output, results[0], 0644)
	}
	for _, data := range results {
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Write the body to this file instead of stdout")
	rootCmd.Flags().StringVarP(&userAgent, "user-agent", "a", fetch.DefaultUserAgent, "User agent")
	rootCmd.Flags().BoolVarP(&insecure, "insecure", "k", false, "Skip TLS certificate and host name verification")
	rootCmd.Flags().Int64Var(&maxSize, "max-size", 0, "Maximum body size in bytes (0 for no limit)")
	rootCmd.Flags().DurationVar(&inactivityTimeout, "inactivity-timeout", 0, "Abort when no data is received for this long (eg. 30s)")
	rootCmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "Progress update interval")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
