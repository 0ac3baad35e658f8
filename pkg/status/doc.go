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

// Package status renders migration progress and ledger state for humans.
//
// The console surface keeps the classic fixer output ("Processing x...",
// "  Fixed x", "  WARNING: x not found") so existing scripts and eyeballs
// keep working, and mirrors every line into zerolog for debugging.
package status
