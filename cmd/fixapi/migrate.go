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
	"github.com/distcache/fixapi/pkg/log"
	"github.com/distcache/fixapi/pkg/rewrite"
	"github.com/distcache/fixapi/pkg/rules"
	"github.com/distcache/fixapi/pkg/state"
	"github.com/distcache/fixapi/pkg/status"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// newMigrateCmd creates the migrate command
func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [file]",
		Short: "Rewrite test sources from the old client API",
		Long: `Migrate runs the rewrite rules over the configured test sources.
With a file argument only that file is processed; otherwise the config's
targets and patterns decide. It will:
1. Load the config and the migration ledger
2. Apply the rules to each file, writing changes back atomically
3. Record the migrated files in the ledger`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, args)
		},
	}
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	cfg, err := loadRootConfig(ctx)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	recv, dry, concurrent := effectiveOptions(cfg)

	var paths []string
	if len(args) == 1 {
		paths = args
	} else {
		paths, err = cfg.Resolve(".")
		if err != nil {
			return errors.Errorf("resolving targets: %w", err)
		}
	}
	if len(paths) == 0 {
		logger.Warning("nothing to migrate")
		return nil
	}

	logger.Header("migrating test sources")

	st, err := state.LoadState(ctx, state.LockFileName)
	if err != nil {
		return errors.Errorf("loading state: %w", err)
	}
	if len(st.Files) > 0 {
		consistent, err := st.IsConsistent(ctx)
		if err != nil {
			return errors.Errorf("checking state consistency: %w", err)
		}
		if !consistent {
			zerolog.Ctx(ctx).Warn().Msg("tracked files changed since the last run, proceeding")
		}
	}

	configHash := state.HashConfig(recv, paths)
	if st.ConfigHash != "" && st.ConfigHash != configHash {
		zerolog.Ctx(ctx).Info().
			Str("state_hash", st.ConfigHash).
			Str("config_hash", configHash).
			Msg("config has changed")
	}

	reporter := status.NewConsoleReporter(ctx, cmd.OutOrStdout(), dry)
	pipeline := rewrite.New(rewrite.Options{
		Rules:    rules.NewSet(rules.Options{Receiver: recv}),
		DryRun:   dry,
		Async:    concurrent,
		Reporter: reporter,
	})

	batch, err := pipeline.Process(ctx, paths)
	if err != nil {
		return errors.Errorf("migrating: %w", err)
	}

	if !dry {
		for _, result := range batch.Results {
			if result.Status == rewrite.StatusMissing {
				continue
			}
			if _, err := st.PutFile(ctx, result.Path, result.Applied); err != nil {
				return errors.Errorf("tracking %s: %w", result.Path, err)
			}
		}
		st.ConfigHash = configHash
		if err := st.Save(ctx); err != nil {
			return errors.Errorf("saving state: %w", err)
		}
	}

	logger.LogNewline()
	reporter.Summary(batch)
	return nil
}
