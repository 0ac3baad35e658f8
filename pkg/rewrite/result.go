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

package rewrite

// FileStatus is the outcome of running the rule set over one file.
type FileStatus string

const (
	// StatusFixed means at least one rule changed the file. In dry-run
	// mode nothing was written, but the file would change.
	StatusFixed FileStatus = "fixed"

	// StatusUnchanged means the file was read and no rule matched.
	StatusUnchanged FileStatus = "unchanged"

	// StatusMissing means the file does not exist and was skipped.
	StatusMissing FileStatus = "missing"
)

// 📋 FileResult describes what happened to a single file
type FileResult struct {
	Path   string
	Status FileStatus

	// Applied lists the names of the rules that changed the file, in
	// the order they ran. Empty unless Status is StatusFixed.
	Applied []string

	// Diff holds a rendered diff of the pending change. Populated only
	// in dry-run mode.
	Diff string
}

// 📊 BatchResult collects the per-file results of one run
type BatchResult struct {
	Results []FileResult
}

// Fixed counts the files at least one rule changed.
func (b *BatchResult) Fixed() int {
	return b.count(StatusFixed)
}

// Unchanged counts the files no rule matched.
func (b *BatchResult) Unchanged() int {
	return b.count(StatusUnchanged)
}

// Missing counts the files that were skipped because they do not exist.
func (b *BatchResult) Missing() int {
	return b.count(StatusMissing)
}

func (b *BatchResult) count(status FileStatus) int {
	n := 0
	for _, r := range b.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}
