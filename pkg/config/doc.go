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

// Package config loads and validates the fixapi configuration.
//
// A config file names the test sources to migrate, either directly via
// targets or by glob patterns, and tunes how the rules run (the client
// receiver, dry-run, async). Three formats are supported, picked by file
// extension: YAML (.fixapi.yaml/.yml), HCL (.fixapi.hcl) and JSON
// (.fixapi.json). A bare .fixapi file is tried as YAML first, then HCL.
//
// With no config file at all, the tool falls back to the builtin target
// list, so a checkout can be migrated without any setup.
package config
