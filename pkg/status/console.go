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

package status

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/distcache/fixapi/pkg/rewrite"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📢 ConsoleReporter prints per-file migration progress in the classic
// fixer format and mirrors each line into zerolog. Formatter renderings
// (progress percentages, error lines) go to the zerolog stream only; the
// console keeps the fixer lines. It implements rewrite.Reporter and is
// safe for the async pipeline: the mutex keeps interleaved workers from
// shredding lines.
type ConsoleReporter struct {
	mu        sync.Mutex
	console   io.Writer
	zlog      zerolog.Logger
	formatter FileFormatter
	dryRun    bool
	total     int
	processed int
}

// 🏭 NewConsoleReporter creates a reporter writing to console
func NewConsoleReporter(ctx context.Context, console io.Writer, dryRun bool) *ConsoleReporter {
	return &ConsoleReporter{
		console:   console,
		zlog:      *zerolog.Ctx(ctx),
		formatter: NewDefaultFileFormatter(),
		dryRun:    dryRun,
	}
}

// BatchStart implements rewrite.Reporter.
func (r *ConsoleReporter) BatchStart(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = total
	r.processed = 0
	r.zlog.Info().Int("total", total).Msg(r.formatter.FormatProgress(0, total))
}

// FileStart implements rewrite.Reporter.
func (r *ConsoleReporter) FileStart(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.console, "Processing %s...\n", path)
}

// FileDone implements rewrite.Reporter.
func (r *ConsoleReporter) FileDone(result rewrite.FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch result.Status {
	case rewrite.StatusFixed:
		if r.dryRun {
			fmt.Fprintln(r.console, color.New(color.FgGreen).Sprintf("  Would fix %s", result.Path))
			if result.Diff != "" {
				fmt.Fprintln(r.console, result.Diff)
			}
		} else {
			fmt.Fprintln(r.console, color.New(color.FgGreen).Sprintf("  Fixed %s", result.Path))
		}
	case rewrite.StatusMissing:
		fmt.Fprintln(r.console, color.New(color.FgYellow).Sprintf("  WARNING: %s not found", result.Path))
	default:
		fmt.Fprintln(r.console, color.New(color.Faint).Sprintf("  Unchanged %s", result.Path))
	}

	msg := r.formatter.FormatFileResult(result, r.dryRun)
	if result.Status == rewrite.StatusMissing {
		msg = r.formatter.FormatError(errors.Errorf("%s not found", result.Path))
	}
	r.zlog.Info().
		Str("path", result.Path).
		Str("status", string(result.Status)).
		Strs("rules", result.Applied).
		Msg(msg)

	r.processed++
	r.zlog.Info().
		Int("processed", r.processed).
		Int("total", r.total).
		Msg(r.formatter.FormatProgress(r.processed, r.total))
}

// 📊 Summary prints the batch totals after a run
func (r *ConsoleReporter) Summary(batch *rewrite.BatchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fixedLabel := "Fixed %d file(s)"
	if r.dryRun {
		fixedLabel = "Would fix %d file(s)"
	}
	pterm.Success.WithWriter(r.console).Printfln(fixedLabel, batch.Fixed())

	if batch.Unchanged() > 0 {
		pterm.Info.WithWriter(r.console).Printfln("%d file(s) already migrated", batch.Unchanged())
	}
	if batch.Missing() > 0 {
		pterm.Warning.WithWriter(r.console).Printfln("%d file(s) not found", batch.Missing())
	}

	r.zlog.Info().
		Int("processed", r.total).
		Int("total", r.total).
		Msg(r.formatter.FormatProgress(r.total, r.total))
	r.zlog.Info().
		Int("fixed", batch.Fixed()).
		Int("unchanged", batch.Unchanged()).
		Int("missing", batch.Missing()).
		Bool("dry_run", r.dryRun).
		Msg("migration complete")
}
