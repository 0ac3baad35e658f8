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
	"fmt"

	"github.com/distcache/fixapi/pkg/log"
	"github.com/distcache/fixapi/pkg/state"
	"github.com/distcache/fixapi/pkg/status"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check which files still need migrating",
		Long: `Status checks the migration ledger against the working tree.
It will:
1. Load the current state
2. Re-hash every targeted and tracked file
3. Report which files are migrated, drifted, untracked or missing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
	return cmd
}

func runStatus(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)
	out := cmd.OutOrStdout()

	cfg, err := loadRootConfig(ctx)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	recv, _, _ := effectiveOptions(cfg)

	paths, err := cfg.Resolve(".")
	if err != nil {
		return errors.Errorf("resolving targets: %w", err)
	}

	st, err := state.LoadState(ctx, state.LockFileName)
	if err != nil {
		return errors.Errorf("loading state: %w", err)
	}

	logger.Header("migration status")

	configHash := state.HashConfig(recv, paths)
	if st.ConfigHash != "" && st.ConfigHash != configHash {
		logger.Warning("config has changed since the ledger was written")
	}

	type ledgerLine struct {
		path       string
		fileStatus state.FileStatus
	}
	seen := make(map[string]bool, len(paths))
	var lines []ledgerLine

	for _, path := range paths {
		seen[path] = true
		fileStatus, err := st.FileStatus(path)
		if err != nil {
			return errors.Errorf("checking %s: %w", path, err)
		}
		lines = append(lines, ledgerLine{path: path, fileStatus: fileStatus})
	}
	// Tracked files that fell out of the target list still show up.
	for _, entry := range st.Files {
		if seen[entry.Path] {
			continue
		}
		fileStatus, err := st.FileStatus(entry.Path)
		if err != nil {
			return errors.Errorf("checking %s: %w", entry.Path, err)
		}
		lines = append(lines, ledgerLine{path: entry.Path, fileStatus: fileStatus})
	}

	counts := make(map[state.FileStatus]int)
	for _, line := range lines {
		fmt.Fprintln(out, status.FormatLedgerLine(line.fileStatus, line.path))
		counts[line.fileStatus]++
	}
	logger.LogNewline()

	pending := counts[state.StatusDrifted] + counts[state.StatusUntracked]
	missing := counts[state.StatusMissing]
	switch {
	case len(lines) == 0:
		pterm.Info.WithWriter(out).Println("nothing to report, run fixapi migrate first")
	case pending == 0 && missing == 0:
		pterm.Success.WithWriter(out).Printfln("%d file(s) migrated and up to date", counts[state.StatusMigrated])
	default:
		if pending > 0 {
			pterm.Warning.WithWriter(out).Printfln("%d file(s) need migration", pending)
		}
		if missing > 0 {
			pterm.Warning.WithWriter(out).Printfln("%d file(s) not found", missing)
		}
	}
	return nil
}
