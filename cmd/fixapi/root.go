// Copyright 2025 distcache LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"

	"github.com/distcache/fixapi/pkg/config"
	"github.com/distcache/fixapi/pkg/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Flags
	configFile string
	debug      bool
	dryRun     bool
	async      bool
	receiver   string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixapi",
		Short: "Migrate distcache test sources to the structured client API",
		Long: `fixapi rewrites C++ test files written against the old byte-vector
client API (std::vector<uint8_t> values, plain bool returns) into the
structured-result API (std::string values, result structs carrying a
success flag and an optional value).

The rules only touch shapes they fully understand; anything ambiguous is
left exactly as it was, so running fixapi twice is always safe.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			logger := log.New(cmd.OutOrStdout(), level)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	addRootFlags(cmd)
	cmd.AddCommand(
		newMigrateCmd(),
		newStatusCmd(),
		newCleanCmd(),
	)
	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: discover .fixapi.* in the working directory)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "report pending changes without writing files")
	cmd.PersistentFlags().BoolVar(&async, "async", false, "process files concurrently")
	cmd.PersistentFlags().StringVar(&receiver, "receiver", "", "client variable the rules match (default: from config)")
}

// loadRootConfig loads the effective config for a run: an explicit
// --config path, a discovered .fixapi.* file, or the builtin defaults.
func loadRootConfig(ctx context.Context) (*config.Config, error) {
	if configFile != "" {
		return config.LoadConfig(ctx, configFile)
	}
	if path, ok := config.Discover("."); ok {
		return config.LoadConfig(ctx, path)
	}
	zerolog.Ctx(ctx).Debug().Msg("no config file found, using builtin defaults")
	return config.DefaultConfig(), nil
}

// effectiveOptions merges config values with flag overrides
func effectiveOptions(cfg *config.Config) (recv string, dry, concurrent bool) {
	recv = cfg.Receiver
	if receiver != "" {
		recv = receiver
	}
	return recv, cfg.DryRun || dryRun, cfg.Async || async
}
