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
	"github.com/distcache/fixapi/pkg/state"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// newCleanCmd creates the clean command
func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the migration ledger",
		Long: `Clean deletes fixapi's own tracking state. The migrated sources are
left alone; a later migrate starts from a fresh ledger.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd)
		},
	}
	return cmd
}

func runClean(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if err := state.Clean(ctx, state.LockFileName); err != nil {
		return errors.Errorf("cleaning state: %w", err)
	}
	log.FromContext(ctx).Success("removed " + state.LockFileName)
	return nil
}
