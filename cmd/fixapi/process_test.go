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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/distcache/fixapi/pkg/state"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

const oldAPISource = `TEST_F(MultiNodeTest, BasicSetGet) {
    std::string key = "test_key";
    std::vector<uint8_t> value = {'h', 'e', 'l', 'l', 'o'};

    bool set_success = client_->Set(key, value);
    ASSERT_TRUE(set_success);

    auto get_result = client_->Get(key);
    ASSERT_TRUE(get_result.has_value());
}
`

// chdirTemp moves the test into a fresh directory so relative paths and
// the ledger stay out of the repo.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func writeTarget(t *testing.T, rel, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(rel), 0o755))
	require.NoError(t, os.WriteFile(rel, []byte(content), 0o644))
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateBuiltinTargets(t *testing.T) {
	chdirTemp(t)
	writeTarget(t, "tests/integration/multi_node_test.cpp", oldAPISource)
	// scaling_test.cpp deliberately absent

	out, err := runCommand(t, "migrate")
	require.NoError(t, err)

	assert.Contains(t, out, "Processing tests/integration/multi_node_test.cpp...")
	assert.Contains(t, out, "  Fixed tests/integration/multi_node_test.cpp")
	assert.Contains(t, out, "  WARNING: tests/integration/scaling_test.cpp not found")
	assert.Contains(t, out, "Fixed 1 file(s)")

	migrated, err := os.ReadFile("tests/integration/multi_node_test.cpp")
	require.NoError(t, err)
	assert.Contains(t, string(migrated), `std::string value = "hello";`)
	assert.Contains(t, string(migrated), "auto set_result = client_->Set(key, value);")
	assert.Contains(t, string(migrated), "ASSERT_TRUE(get_result.success && get_result.value.has_value());")

	st, err := state.LoadState(testContext(t), state.LockFileName)
	require.NoError(t, err)
	require.Len(t, st.Files, 1, "only existing files are tracked")
	assert.Equal(t, "tests/integration/multi_node_test.cpp", st.Files[0].Path)
	assert.NotEmpty(t, st.ConfigHash)
}

func TestMigrateIsIdempotent(t *testing.T) {
	chdirTemp(t)
	writeTarget(t, "tests/integration/multi_node_test.cpp", oldAPISource)
	writeTarget(t, "tests/integration/scaling_test.cpp", "// nothing to do\n")

	_, err := runCommand(t, "migrate")
	require.NoError(t, err)

	first, err := os.ReadFile("tests/integration/multi_node_test.cpp")
	require.NoError(t, err)

	out, err := runCommand(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "  Unchanged tests/integration/multi_node_test.cpp")

	second, err := os.ReadFile("tests/integration/multi_node_test.cpp")
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second), "second run must not change anything")
}

func TestMigrateSingleFileArgument(t *testing.T) {
	chdirTemp(t)
	writeTarget(t, "tests/unit/storage_test.cpp", oldAPISource)
	writeTarget(t, "tests/integration/multi_node_test.cpp", oldAPISource)

	out, err := runCommand(t, "migrate", "tests/unit/storage_test.cpp")
	require.NoError(t, err)

	assert.Contains(t, out, "  Fixed tests/unit/storage_test.cpp")
	assert.NotContains(t, out, "multi_node_test.cpp", "only the named file is processed")

	untouched, err := os.ReadFile("tests/integration/multi_node_test.cpp")
	require.NoError(t, err)
	assert.Equal(t, oldAPISource, string(untouched))
}

func TestMigrateRejectsExtraArguments(t *testing.T) {
	chdirTemp(t)
	_, err := runCommand(t, "migrate", "a_test.cpp", "b_test.cpp")
	assert.Error(t, err, "at most one file argument is accepted")
}

func TestMigrateDryRun(t *testing.T) {
	chdirTemp(t)
	writeTarget(t, "tests/integration/multi_node_test.cpp", oldAPISource)
	writeTarget(t, "tests/integration/scaling_test.cpp", "// nothing to do\n")

	out, err := runCommand(t, "--dry-run", "migrate")
	require.NoError(t, err)

	assert.Contains(t, out, "  Would fix tests/integration/multi_node_test.cpp")
	assert.Contains(t, out, "Would fix 1 file(s)")

	content, err := os.ReadFile("tests/integration/multi_node_test.cpp")
	require.NoError(t, err)
	assert.Equal(t, oldAPISource, string(content), "dry run must not write")

	_, err = os.Stat(state.LockFileName)
	assert.True(t, os.IsNotExist(err), "dry run must not create a ledger")
}

func TestMigrateWithConfigFile(t *testing.T) {
	chdirTemp(t)
	writeTarget(t, ".fixapi.yaml", "targets:\n  - tests/unit/cache_test.cpp\n")
	writeTarget(t, "tests/unit/cache_test.cpp", oldAPISource)
	writeTarget(t, "tests/integration/multi_node_test.cpp", oldAPISource)

	out, err := runCommand(t, "migrate")
	require.NoError(t, err)

	assert.Contains(t, out, "  Fixed tests/unit/cache_test.cpp")
	assert.NotContains(t, out, "multi_node_test.cpp", "builtin targets give way to the config")
}

func TestStatusCommand(t *testing.T) {
	chdirTemp(t)
	writeTarget(t, "tests/integration/multi_node_test.cpp", oldAPISource)
	writeTarget(t, "tests/integration/scaling_test.cpp", "// nothing to do\n")

	_, err := runCommand(t, "migrate")
	require.NoError(t, err)

	out, err := runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "tests/integration/multi_node_test.cpp")
	assert.Contains(t, out, "2 file(s) migrated and up to date")

	// A later edit shows up as drift.
	require.NoError(t, os.WriteFile("tests/integration/multi_node_test.cpp", []byte(oldAPISource), 0o644))
	out, err = runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "1 file(s) need migration")
}

func TestCleanCommand(t *testing.T) {
	chdirTemp(t)
	writeTarget(t, "tests/integration/multi_node_test.cpp", oldAPISource)
	writeTarget(t, "tests/integration/scaling_test.cpp", "// nothing to do\n")

	_, err := runCommand(t, "migrate")
	require.NoError(t, err)
	_, statErr := os.Stat(state.LockFileName)
	require.NoError(t, statErr)

	out, err := runCommand(t, "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "removed "+state.LockFileName)

	_, statErr = os.Stat(state.LockFileName)
	assert.True(t, os.IsNotExist(statErr))
}
