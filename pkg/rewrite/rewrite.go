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

// Package rewrite runs the migration rules over test sources on disk.
//
// The pipeline reads each target file, applies the rule set to its full
// contents, and writes the result back only when at least one rule changed
// the text. Writes go through a temp file and rename so a file is never
// left half-rewritten. Missing targets are reported and skipped; the rest
// of the batch still runs.
package rewrite

import (
	"context"
	"os"
	"strings"

	"github.com/distcache/fixapi/pkg/rules"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 Options configures a Pipeline
type Options struct {
	// Rules is the rule set applied to each file. Defaults to
	// rules.NewSet with the default receiver.
	Rules rules.RuleSet

	// DryRun reports what would change without writing anything back.
	// Each changed file's result carries a rendered diff.
	DryRun bool

	// Async processes the batch concurrently. Results keep input order
	// either way.
	Async bool

	// MaxWorkers caps concurrency in async mode. Zero means one worker
	// per target.
	MaxWorkers int

	// Reporter receives per-file progress callbacks. In async mode it
	// must be safe for concurrent use.
	Reporter Reporter
}

// 🏭 Pipeline applies a rule set to files
type Pipeline struct {
	rules    rules.RuleSet
	dryRun   bool
	async    bool
	workers  int
	reporter Reporter
}

// 🏗️ New creates a pipeline
func New(opts Options) *Pipeline {
	ruleSet := opts.Rules
	if ruleSet == nil {
		ruleSet = rules.NewSet(rules.Options{})
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = noopReporter{}
	}
	return &Pipeline{
		rules:    ruleSet,
		dryRun:   opts.DryRun,
		async:    opts.Async,
		workers:  opts.MaxWorkers,
		reporter: reporter,
	}
}

// 🏃 Process runs the pipeline over every path in order.
//
// Missing files are recorded as StatusMissing and do not stop the batch.
// Any other failure (unreadable file, failed write-back) aborts the run.
func (p *Pipeline) Process(ctx context.Context, paths []string) (*BatchResult, error) {
	p.reporter.BatchStart(len(paths))
	if p.async {
		return p.processAsync(ctx, paths)
	}
	return p.processSync(ctx, paths)
}

// 🔄 processSync handles the batch one file at a time
func (p *Pipeline) processSync(ctx context.Context, paths []string) (*BatchResult, error) {
	batch := &BatchResult{Results: make([]FileResult, 0, len(paths))}
	for _, path := range paths {
		result, err := p.ProcessFile(ctx, path)
		if err != nil {
			return nil, err
		}
		batch.Results = append(batch.Results, *result)
	}
	return batch, nil
}

// ⚡ processAsync handles the batch concurrently
func (p *Pipeline) processAsync(ctx context.Context, paths []string) (*BatchResult, error) {
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if p.workers > 0 {
		g.SetLimit(p.workers)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			result, err := p.ProcessFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BatchResult{Results: results}, nil
}

// 📝 ProcessFile applies the rule set to a single file.
//
// A missing file yields a StatusMissing result and a nil error, so callers
// driving a batch keep going. The file is rewritten in place only when a
// rule changed its contents, unless the pipeline is in dry-run mode.
// Rewritten files come out LF-only; a CRLF file no rule touches is left
// exactly as it was.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("processing %s: %w", path, err)
	}

	logger := zerolog.Ctx(ctx)
	p.reporter.FileStart(path)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("file not found, skipping")
			result := FileResult{Path: path, Status: StatusMissing}
			p.reporter.FileDone(result)
			return &result, nil
		}
		return nil, errors.Errorf("stat %s: %w", path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	src := normalizeNewlines(string(raw))

	out, applied := p.rules.Applied(src)
	if out == src {
		logger.Debug().Str("path", path).Msg("no rules matched")
		result := FileResult{Path: path, Status: StatusUnchanged}
		p.reporter.FileDone(result)
		return &result, nil
	}

	result := FileResult{Path: path, Status: StatusFixed, Applied: applied}
	if p.dryRun {
		result.Diff = renderDiff(src, out)
	} else {
		if err := writeFileAtomic(path, []byte(out), info.Mode().Perm()); err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Str("path", path).
		Strs("rules", applied).
		Bool("dry_run", p.dryRun).
		Msg("rewrote file")
	p.reporter.FileDone(result)
	return &result, nil
}

// normalizeNewlines folds CRLF terminators to LF before any rule runs.
// The line-anchored rules match LF-only text, so a rewritten file never
// mixes endings.
func normalizeNewlines(src string) string {
	return strings.ReplaceAll(src, "\r\n", "\n")
}

// Reporter receives progress callbacks as the pipeline works through a
// batch. BatchStart fires once with the batch size before the first file.
// The console front-end implements it; the zero value of the pipeline
// uses a no-op.
type Reporter interface {
	BatchStart(total int)
	FileStart(path string)
	FileDone(result FileResult)
}

type noopReporter struct{}

func (noopReporter) BatchStart(int)      {}
func (noopReporter) FileStart(string)    {}
func (noopReporter) FileDone(FileResult) {}
