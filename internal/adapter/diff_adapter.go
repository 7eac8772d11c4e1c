package adapter

import (
	"context"

	"github.com/pmezard/go-difflib/difflib"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

const diffContextLines = 3

// DiffAdapter renders the difference between two versions of a file.
type DiffAdapter interface {
	// Unified returns a unified diff, or "" when before and after are equal.
	Unified(ctx context.Context, path m.Path, before, after string) (string, error)
}

// UnifiedDiffAdapter renders diffs with go-difflib.
type UnifiedDiffAdapter struct{}

// NewDiffAdapter constructs a UnifiedDiffAdapter.
func NewDiffAdapter() *UnifiedDiffAdapter {
	return &UnifiedDiffAdapter{}
}

// Unified implements DiffAdapter.
func (a *UnifiedDiffAdapter) Unified(ctx context.Context, path m.Path, before, after string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if before == after {
		return "", nil
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + string(path),
		ToFile:   "b/" + string(path),
		Context:  diffContextLines,
	})
}
