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

// The replaybuild command builds replay payloads from recorded instruction
// streams and inspects the results.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/gapis/config"
	"github.com/spf13/cobra"
)

// options are the flags shared by every verb.
type options struct {
	configPath string
	logLevel   string
	jsonLogs   bool

	cfg config.Config
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "replaybuild",
		Short: "Build and inspect replay payloads",
		Long: `replaybuild lays out the memory of a recorded instruction stream and
encodes it into the payload executed by the replay virtual machine.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML build configuration")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Lowest logged severity (overrides the configuration)")
	root.PersistentFlags().BoolVar(&opts.jsonLogs, "json-logs", false, "Write structured JSON logs")

	root.AddCommand(
		newBuildCmd(opts),
		newDumpCmd(opts),
		newDisassembleCmd(opts),
	)
	return root
}

// load reads the configuration, overlays the flags and starts the logger.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = log.ParseSeverity(o.logLevel); err != nil {
			return err
		}
	}
	if flags.Changed("json-logs") {
		cfg.JSONLogs = o.jsonLogs
	}
	o.cfg = cfg
	cmd.SetContext(log.Start(cmd.Context(), log.Config{Level: cfg.LogLevel, JSON: cfg.JSONLogs}))
	return nil
}
