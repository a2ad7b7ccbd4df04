// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/gapis/config"
	"github.com/google/gapid-sub000/gapis/database"
	"github.com/google/gapid-sub000/gapis/replay/builder"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newBuildCmd(opts *options) *cobra.Command {
	var manifestPath, out, dbPath string
	var debug bool
	cmd := &cobra.Command{
		Use:   "build --manifest <manifest.yaml> --out <payload.bin>",
		Short: "Build a payload from a manifest",
		Long: `The build command records the manifest's allocations, reservations,
resources and instruction streams, then lays out volatile memory and writes
the encoded payload.

Example:
  replaybuild build --manifest capture.yaml --out payload.bin
  replaybuild build --manifest capture.yaml --out payload.bin --db resources`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("debug") {
				cfg.DebugReplayBuilder = debug
			}
			size, err := runBuild(cmd.Context(), cfg, manifestPath, out, dbPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", size, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Build manifest")
	cmd.Flags().StringVar(&out, "out", "payload.bin", "Output payload file")
	cmd.Flags().StringVar(&dbPath, "db", "", "Directory of the persistent resource database (in memory if empty)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Verify resources and log the memory layout")
	cmd.MarkFlagRequired("manifest")
	return cmd
}

// runBuild builds the payload described by the manifest and writes it to out,
// returning the number of bytes written.
func runBuild(ctx context.Context, cfg config.Config, manifestPath, out, dbPath string) (int, error) {
	ctx = log.Enter(ctx, "build")
	m, err := loadManifest(manifestPath)
	if err != nil {
		return 0, err
	}

	var db database.Database
	if dbPath != "" {
		p, err := database.NewPebble(ctx, dbPath)
		if err != nil {
			return 0, err
		}
		defer p.Close()
		db = p
	} else {
		db = database.NewInMemory(ctx)
	}

	b, err := builder.New(cfg, db, nil)
	if err != nil {
		return 0, err
	}
	if err := m.apply(ctx, b); err != nil {
		return 0, err
	}
	payload, err := b.Build(ctx)
	if err != nil {
		return 0, err
	}
	data := payload.Marshal()
	if err := os.WriteFile(out, data, 0644); err != nil {
		return 0, errors.Wrapf(err, "Failed to write %v", out)
	}
	log.I(ctx, "Payload: %d opcode bytes, %d resources", len(payload.Opcodes), len(payload.Resources))
	return len(data), nil
}
