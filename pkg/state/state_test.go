package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadStateFreshLedger(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, LockFileName)

	st, err := LoadState(setupTestLogger(t), lockPath)
	require.NoError(t, err, "a missing ledger is a fresh ledger")
	assert.Empty(t, st.Files)
	assert.Equal(t, lockPath, st.Path())
}

func TestStateRoundtrip(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, LockFileName)
	source := writeSource(t, dir, "multi_node_test.cpp", "auto set_result = client_->Set(k, v);\n")

	ctx := setupTestLogger(t)
	st, err := LoadState(ctx, lockPath)
	require.NoError(t, err)

	entry, err := st.PutFile(ctx, source, []string{"set-bool-to-result"})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ContentHash)
	assert.False(t, entry.LastUpdated.IsZero())

	st.ConfigHash = HashConfig("client_", []string{source})
	require.NoError(t, st.Save(ctx))

	loaded, err := LoadState(ctx, lockPath)
	require.NoError(t, err)
	require.Len(t, loaded.Files, 1)
	assert.Equal(t, entry.Path, loaded.Files[0].Path)
	assert.Equal(t, entry.ContentHash, loaded.Files[0].ContentHash)
	assert.Equal(t, []string{"set-bool-to-result"}, loaded.Files[0].Rules)
	assert.Equal(t, st.ConfigHash, loaded.ConfigHash)
	assert.False(t, loaded.LastUpdated.IsZero())
}

func TestPutFileReplacesEntry(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "a_test.cpp", "before\n")

	ctx := setupTestLogger(t)
	st := &State{path: filepath.Join(dir, LockFileName)}

	first, err := st.PutFile(ctx, source, nil)
	require.NoError(t, err)
	firstHash := first.ContentHash

	require.NoError(t, os.WriteFile(source, []byte("after\n"), 0o644))
	second, err := st.PutFile(ctx, source, []string{"byte-literal-to-string"})
	require.NoError(t, err)

	require.Len(t, st.Files, 1, "same path replaces, not appends")
	assert.NotEqual(t, firstHash, second.ContentHash)
	assert.Equal(t, []string{"byte-literal-to-string"}, st.Files[0].Rules)
}

func TestFileStatus(t *testing.T) {
	dir := t.TempDir()
	ctx := setupTestLogger(t)
	st := &State{path: filepath.Join(dir, LockFileName)}

	tracked := writeSource(t, dir, "tracked_test.cpp", "migrated contents\n")
	_, err := st.PutFile(ctx, tracked, nil)
	require.NoError(t, err)

	t.Run("migrated", func(t *testing.T) {
		status, err := st.FileStatus(tracked)
		require.NoError(t, err)
		assert.Equal(t, StatusMigrated, status)
	})

	t.Run("drifted", func(t *testing.T) {
		drifted := writeSource(t, dir, "drifted_test.cpp", "original\n")
		_, err := st.PutFile(ctx, drifted, nil)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(drifted, []byte("edited\n"), 0o644))

		status, err := st.FileStatus(drifted)
		require.NoError(t, err)
		assert.Equal(t, StatusDrifted, status)
	})

	t.Run("untracked", func(t *testing.T) {
		untracked := writeSource(t, dir, "untracked_test.cpp", "whatever\n")
		status, err := st.FileStatus(untracked)
		require.NoError(t, err)
		assert.Equal(t, StatusUntracked, status)
	})

	t.Run("missing", func(t *testing.T) {
		status, err := st.FileStatus(filepath.Join(dir, "gone_test.cpp"))
		require.NoError(t, err)
		assert.Equal(t, StatusMissing, status)
	})
}

func TestIsConsistent(t *testing.T) {
	dir := t.TempDir()
	ctx := setupTestLogger(t)
	st := &State{path: filepath.Join(dir, LockFileName)}

	source := writeSource(t, dir, "a_test.cpp", "contents\n")
	_, err := st.PutFile(ctx, source, nil)
	require.NoError(t, err)

	consistent, err := st.IsConsistent(ctx)
	require.NoError(t, err)
	assert.True(t, consistent)

	require.NoError(t, os.WriteFile(source, []byte("edited\n"), 0o644))
	consistent, err = st.IsConsistent(ctx)
	require.NoError(t, err)
	assert.False(t, consistent, "an edited tracked file makes the ledger inconsistent")
}

func TestRemoveFile(t *testing.T) {
	dir := t.TempDir()
	ctx := setupTestLogger(t)
	st := &State{path: filepath.Join(dir, LockFileName)}

	source := writeSource(t, dir, "a_test.cpp", "contents\n")
	_, err := st.PutFile(ctx, source, nil)
	require.NoError(t, err)

	assert.True(t, st.RemoveFile(source))
	assert.Empty(t, st.Files)
	assert.False(t, st.RemoveFile(source), "second removal finds nothing")
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, LockFileName)
	require.NoError(t, os.WriteFile(lockPath, []byte("{}\n"), 0o644))

	ctx := setupTestLogger(t)
	require.NoError(t, Clean(ctx, lockPath))
	_, err := os.Stat(lockPath)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, Clean(ctx, lockPath), "cleaning an absent ledger is fine")
}

func TestHashConfig(t *testing.T) {
	a := HashConfig("client_", []string{"b.cpp", "a.cpp"})
	b := HashConfig("client_", []string{"a.cpp", "b.cpp"})
	assert.Equal(t, a, b, "path order must not change the hash")

	c := HashConfig("cache_", []string{"a.cpp", "b.cpp"})
	assert.NotEqual(t, a, c, "receiver is part of the fingerprint")
}
