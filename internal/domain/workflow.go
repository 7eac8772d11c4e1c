package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"srcpatch.dev/pkg/srcpatch/internal/adapter"
	"srcpatch.dev/pkg/srcpatch/internal/controller"
	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// ApplyArgs contains the arguments for applying patches.
type ApplyArgs struct {
	// Recipe is an optional YAML recipe; its patches run before Patches.
	Recipe m.Path
	// Patches are applied after the recipe's patches.
	Patches     []m.Patch
	DryRun      bool
	Backup      bool
	Strict      bool
	Interactive bool
	// Parallel bounds how many target files are patched at once. Zero means unbounded.
	Parallel int
}

// Workflow defines the patch application workflow.
type Workflow interface {
	// Apply patches every target and writes changed files.
	Apply(ctx context.Context, args ApplyArgs) ([]m.FileResult, error)
	// Plan computes reports and diffs without writing anything.
	Plan(ctx context.Context, args ApplyArgs) ([]m.FileResult, error)
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.RecipeStore
	controller.UI
	Patcher
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	recipeStore adapter.RecipeStore,
	ui controller.UI,
	patcher Patcher,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		RecipeStore:     recipeStore,
		UI:              ui,
		Patcher:         patcher,
	}
}

func (w *workflow) Apply(ctx context.Context, args ApplyArgs) ([]m.FileResult, error) {
	return w.run(ctx, args, controller.WithApplyMode())
}

func (w *workflow) Plan(ctx context.Context, args ApplyArgs) ([]m.FileResult, error) {
	args.DryRun = true
	args.Interactive = false

	return w.run(ctx, args, controller.WithPlanMode())
}

func (w *workflow) run(ctx context.Context, args ApplyArgs, mode controller.StartOption) ([]m.FileResult, error) {
	patches, err := w.collectPatches(ctx, args)
	if err != nil {
		return nil, err
	}

	if len(patches) == 0 {
		return nil, fmt.Errorf("%w: no patches to apply", ErrInvalidPatch)
	}

	for _, patch := range patches {
		if err := ValidatePatch(patch); err != nil {
			return nil, err
		}
	}

	targets, grouped := groupByTarget(patches)

	if args.DryRun {
		mode = controller.WithPlanMode()
	}

	if err := w.Start(ctx, mode); err != nil {
		return nil, fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	slog.Info("Applying patches", "targets", len(targets), "patches", len(patches), "dryRun", args.DryRun)

	results, err := w.patchTargets(ctx, targets, grouped, args)

	w.DisplaySummary(ctx, results)

	return results, err
}

// collectPatches loads the recipe, if any, and resolves relative targets
// against the recipe's directory.
func (w *workflow) collectPatches(ctx context.Context, args ApplyArgs) ([]m.Patch, error) {
	var patches []m.Patch

	if args.Recipe != "" {
		recipe, err := w.LoadRecipe(ctx, args.Recipe)
		if err != nil {
			return nil, fmt.Errorf("load recipe: %w", err)
		}

		base := w.Dir(ctx, args.Recipe)

		for _, patch := range recipe.Patches {
			if patch.Target != "" && !w.IsAbs(ctx, patch.Target) {
				patch.Target = w.JoinPath(ctx, string(base), string(patch.Target))
			}

			patches = append(patches, patch)
		}
	}

	return append(patches, args.Patches...), nil
}

// groupByTarget keeps targets in first-appearance order and patches in
// declaration order within each target.
func groupByTarget(patches []m.Patch) ([]m.Path, map[m.Path][]m.Patch) {
	var targets []m.Path

	grouped := make(map[m.Path][]m.Patch)

	for _, patch := range patches {
		if _, seen := grouped[patch.Target]; !seen {
			targets = append(targets, patch.Target)
		}

		grouped[patch.Target] = append(grouped[patch.Target], patch)
	}

	return targets, grouped
}

func (w *workflow) patchTargets(ctx context.Context, targets []m.Path, grouped map[m.Path][]m.Patch, args ApplyArgs) ([]m.FileResult, error) {
	results := make([]m.FileResult, len(targets))
	errs := make([]error, len(targets))

	opts := PatchOptions{
		DryRun: args.DryRun,
		Backup: args.Backup,
		Strict: args.Strict,
	}

	var group errgroup.Group

	switch {
	case args.Interactive:
		opts.Confirm = w.Confirm

		group.SetLimit(1)
	case args.Parallel > 0:
		group.SetLimit(args.Parallel)
	}

	for i, target := range targets {
		group.Go(func() error {
			result, err := w.PatchFile(ctx, target, grouped[target], opts)
			results[i] = result
			errs[i] = err

			w.DisplayFileResult(ctx, result)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}

	if err := errors.Join(errs...); err != nil {
		return results, fmt.Errorf("patching failed: %w", err)
	}

	return results, nil
}
