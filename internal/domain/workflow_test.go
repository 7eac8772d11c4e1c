package domain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcpatch.dev/pkg/srcpatch/internal/adapter"
	"srcpatch.dev/pkg/srcpatch/internal/controller"
	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

func newTestWorkflow(t *testing.T, input string) (Workflow, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(input))

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	diffAdapter := adapter.NewDiffAdapter()

	return NewWorkflow(
		fsAdapter,
		adapter.NewRecipeStore(),
		controller.NewSimpleUI(cmd),
		NewPatcher(fsAdapter, diffAdapter),
	), &out
}

func writeRecipe(t *testing.T, dir, content string) m.Path {
	t.Helper()

	path := filepath.Join(dir, "recipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return m.Path(path)
}

func TestWorkflow_ApplyRecipeResolvesRelativeTargets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PageResult.java"), []byte(pageResultSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ProjectServiceImpl.java"), []byte(serviceSource), 0o644))

	recipe := writeRecipe(t, dir, `version: 1
patches:
  - name: drop casts
    target: PageResult.java
    kind: replace
    search: "(int) "
    replace: ""
    expect: 2
  - name: drop stale access check
    target: ProjectServiceImpl.java
    kind: dedupe
    signature: "public boolean hasProjectAccess("
`)

	wf, out := newTestWorkflow(t, "")

	results, err := wf.Apply(context.Background(), ApplyArgs{Recipe: recipe, Parallel: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, m.Path(filepath.Join(dir, "PageResult.java")), results[0].Target)
	assert.Equal(t, m.Path(filepath.Join(dir, "ProjectServiceImpl.java")), results[1].Target)
	assert.True(t, results[0].Written)
	assert.True(t, results[1].Written)

	page, err := os.ReadFile(filepath.Join(dir, "PageResult.java"))
	require.NoError(t, err)
	assert.NotContains(t, string(page), "(int)")

	output := out.String()
	assert.Contains(t, output, "Patched "+filepath.Join(dir, "PageResult.java")+" (2 change(s))")
	assert.Contains(t, output, "TOTAL FILES 2")
}

func TestWorkflow_PlanWritesNothing(t *testing.T) {
	target := writeTarget(t, pageResultSource)

	wf, out := newTestWorkflow(t, "")

	results, err := wf.Plan(context.Background(), ApplyArgs{Patches: []m.Patch{func() m.Patch {
		p := castPatch
		p.Target = target

		return p
	}()}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, results[0].Written)
	assert.Equal(t, pageResultSource, readTarget(t, target))
	assert.Contains(t, out.String(), "Would patch")
	assert.Contains(t, out.String(), "-                (int) pageResult.getCurrent(),")
}

func TestWorkflow_OneFailingTargetDoesNotBlockOthers(t *testing.T) {
	good := writeTarget(t, pageResultSource)
	missing := m.Path(filepath.Join(t.TempDir(), "Missing.java"))

	wf, out := newTestWorkflow(t, "")

	patches := []m.Patch{
		{Target: missing, Kind: m.PatchReplace, Search: "(int) "},
		{Target: good, Kind: m.PatchReplace, Search: "(int) "},
	}

	results, err := wf.Apply(context.Background(), ApplyArgs{Patches: patches})
	require.Error(t, err)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.True(t, results[1].Written)
	assert.Contains(t, out.String(), "Failed "+string(missing))
	assert.Contains(t, out.String(), "1 FAILED")

	_, statErr := os.Stat(string(missing))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWorkflow_InteractiveAsksPerFile(t *testing.T) {
	first := writeTarget(t, pageResultSource)
	second := writeTarget(t, pageResultSource)

	wf, out := newTestWorkflow(t, "y\nn\n")

	patches := []m.Patch{
		{Target: first, Kind: m.PatchReplace, Search: "(int) "},
		{Target: second, Kind: m.PatchReplace, Search: "(int) "},
	}

	results, err := wf.Apply(context.Background(), ApplyArgs{Patches: patches, Interactive: true, Parallel: 4})
	require.NoError(t, err)

	assert.True(t, results[0].Written)
	assert.False(t, results[1].Written)
	assert.NotContains(t, readTarget(t, first), "(int)")
	assert.Equal(t, pageResultSource, readTarget(t, second))
	assert.Equal(t, 2, strings.Count(out.String(), "Write changes to"))
}

func TestWorkflow_RejectsInvalidInput(t *testing.T) {
	wf, _ := newTestWorkflow(t, "")

	_, err := wf.Apply(context.Background(), ApplyArgs{})
	require.ErrorIs(t, err, ErrInvalidPatch)

	_, err = wf.Apply(context.Background(), ApplyArgs{Patches: []m.Patch{{Target: "A.java", Kind: m.PatchReplace}}})
	require.ErrorIs(t, err, ErrInvalidPatch)

	dir := t.TempDir()
	recipe := writeRecipe(t, dir, "patches:\n  - target: A.java\n    kind: replace\n    serach: typo\n")

	_, err = wf.Apply(context.Background(), ApplyArgs{Recipe: recipe})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load recipe")
}
