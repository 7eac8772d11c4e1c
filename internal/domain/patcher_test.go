package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcpatch.dev/pkg/srcpatch/internal/adapter"
	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

func newTestPatcher() Patcher {
	return NewPatcher(adapter.NewLocalSourceFSAdapter(), adapter.NewDiffAdapter())
}

func writeTarget(t *testing.T, content string) m.Path {
	t.Helper()

	path := filepath.Join(t.TempDir(), "PageResult.java")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return m.Path(path)
}

func readTarget(t *testing.T, path m.Path) string {
	t.Helper()

	content, err := os.ReadFile(string(path))
	require.NoError(t, err)

	return string(content)
}

var castPatch = m.Patch{
	Name:    "drop casts",
	Kind:    m.PatchReplace,
	Search:  pageResultSearch,
	Replace: pageResultReplace,
}

func TestPatcher_AppliesAndWritesOnce(t *testing.T) {
	target := writeTarget(t, pageResultSource)

	result, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{castPatch}, PatchOptions{})
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.Equal(t, 1, result.Matches())
	require.Len(t, result.Reports, 1)
	assert.Equal(t, m.Applied, result.Reports[0].Status)
	assert.Equal(t, "drop casts", result.Reports[0].Patch)
	assert.Contains(t, result.Diff, "-                (int) pageResult.getCurrent(),")
	assert.NotContains(t, readTarget(t, target), "(int)")
}

func TestPatcher_MissingTargetCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	target := m.Path(filepath.Join(dir, "Missing.java"))

	result, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{castPatch}, PatchOptions{Backup: true})
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)

	assert.False(t, result.Written)
	assert.Equal(t, err, result.Err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPatcher_NoMatchIsReportedNotWritten(t *testing.T) {
	target := writeTarget(t, "class A {}\n")
	info, err := os.Stat(string(target))
	require.NoError(t, err)

	result, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{castPatch}, PatchOptions{})
	require.NoError(t, err)

	assert.False(t, result.Written)
	assert.False(t, result.Changed())
	assert.Equal(t, m.NoMatch, result.Reports[0].Status)

	after, err := os.Stat(string(target))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}

func TestPatcher_StrictFailsOnNoMatch(t *testing.T) {
	target := writeTarget(t, "class A {}\n")

	result, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{castPatch}, PatchOptions{Strict: true})
	require.ErrorIs(t, err, ErrNoMatch)

	assert.Equal(t, m.Failed, result.Reports[0].Status)
	assert.Equal(t, "class A {}\n", readTarget(t, target))
}

func TestPatcher_ExpectMismatchAbortsWholeFile(t *testing.T) {
	target := writeTarget(t, pageResultSource)

	patches := []m.Patch{
		{Kind: m.PatchReplace, Search: "list,", Replace: "items,"},
		{Kind: m.PatchReplace, Search: "(int) ", Replace: "", Expect: intPtr(3)},
	}

	result, err := newTestPatcher().PatchFile(context.Background(), target, patches, PatchOptions{})
	require.ErrorIs(t, err, ErrUnexpectedMatchCount)
	assert.Contains(t, err.Error(), "want 3, got 2")

	require.Len(t, result.Reports, 2)
	assert.Equal(t, m.Skipped, result.Reports[0].Status)
	assert.Equal(t, m.Failed, result.Reports[1].Status)
	assert.Equal(t, pageResultSource, readTarget(t, target))
}

func TestPatcher_DryRunLeavesFile(t *testing.T) {
	target := writeTarget(t, pageResultSource)

	result, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{castPatch}, PatchOptions{DryRun: true})
	require.NoError(t, err)

	assert.False(t, result.Written)
	assert.True(t, result.Changed())
	assert.Equal(t, m.Planned, result.Reports[0].Status)
	assert.Equal(t, pageResultSource, readTarget(t, target))
}

func TestPatcher_BackupKeepsOriginal(t *testing.T) {
	target := writeTarget(t, pageResultSource)

	result, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{castPatch}, PatchOptions{Backup: true})
	require.NoError(t, err)

	assert.Equal(t, m.Path(string(target)+BackupSuffix), result.Backup)
	assert.Equal(t, pageResultSource, readTarget(t, result.Backup))
	assert.NotContains(t, readTarget(t, target), "(int)")
}

func TestPatcher_ConfirmDecline(t *testing.T) {
	target := writeTarget(t, pageResultSource)

	var asked string

	opts := PatchOptions{
		Confirm: func(_ context.Context, _ m.Path, diff string) (bool, error) {
			asked = diff
			return false, nil
		},
	}

	result, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{castPatch}, opts)
	require.NoError(t, err)

	assert.NotEmpty(t, asked)
	assert.False(t, result.Written)
	assert.Equal(t, m.Skipped, result.Reports[0].Status)
	assert.Equal(t, pageResultSource, readTarget(t, target))
}

func TestPatcher_DetectsConcurrentChange(t *testing.T) {
	target := writeTarget(t, pageResultSource)

	opts := PatchOptions{
		Confirm: func(_ context.Context, path m.Path, _ string) (bool, error) {
			return true, os.WriteFile(string(path), []byte("changed\n"), 0o644)
		},
	}

	_, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{castPatch}, opts)
	require.ErrorIs(t, err, ErrFileChanged)

	assert.Equal(t, "changed\n", readTarget(t, target))
}

func TestPatcher_PreservesCRLFAndMode(t *testing.T) {
	target := writeTarget(t, "a\r\nb\r\nc\r\n")
	require.NoError(t, os.Chmod(string(target), 0o600))

	patch := m.Patch{Kind: m.PatchDeleteLines, Lines: []m.LineRange{{Start: 1, End: 1}}}

	result, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{patch}, PatchOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Reports[0].LinesAfter)
	assert.Equal(t, "a\r\nc\r\n", readTarget(t, target))

	info, err := os.Stat(string(target))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestPatcher_MixedNewlinesUseDominantSeparator(t *testing.T) {
	target := writeTarget(t, "a\nb\r\nc\nd\n")

	patch := m.Patch{Kind: m.PatchDeleteLines, Lines: []m.LineRange{{Start: 0, End: 0}}}

	_, err := newTestPatcher().PatchFile(context.Background(), target, []m.Patch{patch}, PatchOptions{})
	require.NoError(t, err)

	assert.Equal(t, "b\nc\nd\n", readTarget(t, target))
}

func TestPatcher_CancelledContext(t *testing.T) {
	target := writeTarget(t, pageResultSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPatcher().PatchFile(ctx, target, []m.Patch{castPatch}, PatchOptions{})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, pageResultSource, readTarget(t, target))
}
