package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"srcpatch.dev/pkg/srcpatch/internal/adapter"
	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// BackupSuffix is appended to the target path when a backup copy is kept.
const BackupSuffix = ".orig"

// ConfirmFunc decides whether a computed diff should be written to target.
type ConfirmFunc func(ctx context.Context, target m.Path, diff string) (bool, error)

// PatchOptions control how PatchFile stores its result.
type PatchOptions struct {
	// DryRun computes reports and the diff without writing.
	DryRun bool
	// Backup copies the original to target+BackupSuffix before overwriting.
	Backup bool
	// Strict turns a patch with zero matches into an error.
	Strict bool
	// Confirm, when set, is asked before the write.
	Confirm ConfirmFunc
}

// Patcher runs the load -> transform -> store pass for one target file.
type Patcher interface {
	PatchFile(ctx context.Context, target m.Path, patches []m.Patch, opts PatchOptions) (m.FileResult, error)
}

type patcher struct {
	fsAdapter   adapter.SourceFSAdapter
	diffAdapter adapter.DiffAdapter
}

// NewPatcher constructs a Patcher backed by the provided filesystem and diff adapters.
func NewPatcher(fsAdapter adapter.SourceFSAdapter, diffAdapter adapter.DiffAdapter) Patcher {
	return &patcher{
		fsAdapter:   fsAdapter,
		diffAdapter: diffAdapter,
	}
}

// PatchFile reads target once, applies patches in order and writes the
// result once. Any error aborts before the write, leaving target untouched.
func (p *patcher) PatchFile(ctx context.Context, target m.Path, patches []m.Patch, opts PatchOptions) (m.FileResult, error) {
	result := m.FileResult{Target: target}

	if err := ctx.Err(); err != nil {
		return p.fail(result, err)
	}

	original, err := p.load(ctx, target)
	if err != nil {
		return p.fail(result, err)
	}

	current := original

	for _, patch := range patches {
		next, report, err := p.transform(current, patch, opts)
		result.Reports = append(result.Reports, report)

		if err != nil {
			return p.fail(result, err)
		}

		current = next
	}

	diff, err := p.diffAdapter.Unified(ctx, target, original.Text(), current.Text())
	if err != nil {
		return p.fail(result, fmt.Errorf("diff %s: %w", target, err))
	}

	result.Diff = diff

	if string(current.Content()) == string(original.Content()) {
		slog.Info("Content unchanged, not rewriting", "target", target)
		return result, nil
	}

	if opts.DryRun {
		markReports(&result, m.Applied, m.Planned)
		return result, nil
	}

	if opts.Confirm != nil {
		ok, err := opts.Confirm(ctx, target, diff)
		if err != nil {
			return p.fail(result, fmt.Errorf("confirm %s: %w", target, err))
		}

		if !ok {
			slog.Info("Change declined", "target", target)
			markReports(&result, m.Applied, m.Skipped)

			return result, nil
		}
	}

	if err := p.store(ctx, original, current, opts, &result); err != nil {
		return p.fail(result, err)
	}

	result.Written = true

	return result, nil
}

func (p *patcher) load(ctx context.Context, target m.Path) (m.SourceFile, error) {
	content, err := p.fsAdapter.ReadFile(ctx, target)
	if err != nil {
		slog.Error("Failed to read target", "target", target, "error", err)
		return m.SourceFile{}, fmt.Errorf("read %s: %w", target, err)
	}

	hash, err := p.fsAdapter.HashFile(ctx, target)
	if err != nil {
		slog.Error("Failed to hash target", "target", target, "error", err)
		return m.SourceFile{}, fmt.Errorf("hash %s: %w", target, err)
	}

	file := m.ParseSourceFile(target, content)
	file.Hash = hash

	if file.MixedNewlines {
		slog.Warn("Mixed line endings will be normalised", "target", target, "newline", fmt.Sprintf("%q", file.Newline))
	}

	slog.Debug("Loaded target", "target", target, "lines", file.Len(), "newline", fmt.Sprintf("%q", file.Newline))

	return file, nil
}

func (p *patcher) transform(file m.SourceFile, patch m.Patch, opts PatchOptions) (m.SourceFile, m.Report, error) {
	report := m.Report{
		Patch:       patch.DisplayName(),
		Target:      file.Path,
		Kind:        patch.Kind,
		LinesBefore: file.Len(),
		LinesAfter:  file.Len(),
	}

	next, count, err := Transform(file, patch)
	if err != nil {
		slog.Error("Patch failed", "patch", report.Patch, "target", file.Path, "error", err)
		report.Status = m.Failed
		report.Err = err

		return file, report, fmt.Errorf("patch %q on %s: %w", report.Patch, file.Path, err)
	}

	report.Matches = count
	report.LinesAfter = next.Len()

	if patch.Expect != nil && *patch.Expect != count {
		err := fmt.Errorf("%w: want %d, got %d", ErrUnexpectedMatchCount, *patch.Expect, count)
		slog.Error("Match count drift", "patch", report.Patch, "target", file.Path, "want", *patch.Expect, "got", count)
		report.Status = m.Failed
		report.Err = err

		return file, report, fmt.Errorf("patch %q on %s: %w", report.Patch, file.Path, err)
	}

	if count == 0 {
		report.Status = m.NoMatch
		slog.Warn("Patch matched nothing", "patch", report.Patch, "target", file.Path)

		if opts.Strict {
			report.Status = m.Failed
			report.Err = ErrNoMatch

			return file, report, fmt.Errorf("patch %q on %s: %w", report.Patch, file.Path, ErrNoMatch)
		}

		return next, report, nil
	}

	report.Status = m.Applied
	slog.Debug("Patch matched", "patch", report.Patch, "target", file.Path, "matches", count, "lines", next.Len())

	return next, report, nil
}

func (p *patcher) store(ctx context.Context, original, current m.SourceFile, opts PatchOptions, result *m.FileResult) error {
	target := original.Path

	info, err := p.fsAdapter.FileInfo(ctx, target)
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}

	hash, err := p.fsAdapter.HashFile(ctx, target)
	if err != nil {
		return fmt.Errorf("hash %s: %w", target, err)
	}

	if hash != original.Hash {
		slog.Error("Target changed while patching", "target", target)
		return fmt.Errorf("%s: %w", target, ErrFileChanged)
	}

	if opts.Backup {
		backup := m.Path(string(target) + BackupSuffix)
		if err := p.fsAdapter.CopyFile(ctx, target, backup); err != nil {
			slog.Error("Failed to write backup", "target", target, "backup", backup, "error", err)
			return fmt.Errorf("backup %s: %w", target, err)
		}

		result.Backup = backup
	}

	if err := p.fsAdapter.WriteFile(ctx, target, current.Content(), info.Mode().Perm()); err != nil {
		slog.Error("Failed to write target", "target", target, "error", err)
		return fmt.Errorf("write %s: %w", target, err)
	}

	slog.Info("Patched target", "target", target, "linesBefore", original.Len(), "linesAfter", current.Len())

	return nil
}

func (p *patcher) fail(result m.FileResult, err error) (m.FileResult, error) {
	result.Err = err
	markReports(&result, m.Applied, m.Skipped)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("Patch run cancelled", "target", result.Target, "error", err)
	}

	return result, err
}

// markReports rewrites every report with status from to status to.
func markReports(result *m.FileResult, from, to m.PatchStatus) {
	for i := range result.Reports {
		if result.Reports[i].Status == from {
			result.Reports[i].Status = to
		}
	}
}
