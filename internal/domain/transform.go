// Package domain contains the text patching workflow and rewrite strategies.
package domain

import (
	"fmt"
	"strings"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// transformFunc rewrites file according to patch and returns the match count.
type transformFunc func(file m.SourceFile, patch m.Patch) (m.SourceFile, int, error)

var transforms = map[m.PatchKind]transformFunc{
	m.PatchDeleteLines: func(file m.SourceFile, patch m.Patch) (m.SourceFile, int, error) {
		return DeleteGuardedLines(file, patch.DeletionSet(), patch.Guard)
	},
	m.PatchDeleteBlock: func(file m.SourceFile, patch m.Patch) (m.SourceFile, int, error) {
		block := m.ParseSourceFile(file.Path, []byte(patch.Block))
		next, count := DeleteBlock(file, block.Lines, patch.Occurrence)

		return next, count, nil
	},
	m.PatchDedupe: func(file m.SourceFile, patch m.Patch) (m.SourceFile, int, error) {
		return RemoveDuplicates(file, patch.Signature, patch.KeepLast())
	},
	m.PatchReplace: func(file m.SourceFile, patch m.Patch) (m.SourceFile, int, error) {
		return Substitute(file, patch.Substitution())
	},
	m.PatchRegex: func(file m.SourceFile, patch m.Patch) (m.SourceFile, int, error) {
		return Substitute(file, patch.Substitution())
	},
	m.PatchAnnotate: func(file m.SourceFile, patch m.Patch) (m.SourceFile, int, error) {
		return AnnotateFile(file, patch.Annotation())
	},
}

// Transform applies a single patch to file. It never touches the disk.
func Transform(file m.SourceFile, patch m.Patch) (m.SourceFile, int, error) {
	fn, ok := transforms[patch.Kind]
	if !ok {
		return file, 0, fmt.Errorf("%w: %q", ErrUnknownPatchKind, patch.Kind)
	}

	return fn(file, patch)
}

// ValidatePatch checks that patch carries the fields its kind needs.
func ValidatePatch(patch m.Patch) error {
	if strings.TrimSpace(string(patch.Target)) == "" {
		return fmt.Errorf("%w %q: missing target", ErrInvalidPatch, patch.DisplayName())
	}

	if patch.Expect != nil && *patch.Expect < 0 {
		return fmt.Errorf("%w %q: expect must not be negative", ErrInvalidPatch, patch.DisplayName())
	}

	missing := ""

	switch patch.Kind {
	case m.PatchDeleteLines:
		if len(patch.Lines) == 0 {
			missing = "lines"
		}
	case m.PatchDeleteBlock:
		if strings.TrimSpace(patch.Block) == "" {
			missing = "block"
		}

		if patch.Occurrence < 0 {
			return fmt.Errorf("%w %q: occurrence must not be negative", ErrInvalidPatch, patch.DisplayName())
		}
	case m.PatchDedupe:
		if patch.Signature == "" {
			missing = "signature"
		}

		if patch.Keep != "" && patch.Keep != m.KeepFirst && patch.Keep != m.KeepLast {
			return fmt.Errorf("%w %q: keep must be %q or %q", ErrInvalidPatch, patch.DisplayName(), m.KeepFirst, m.KeepLast)
		}
	case m.PatchReplace, m.PatchRegex:
		if patch.Search == "" {
			missing = "search"
		}
	case m.PatchAnnotate:
		switch {
		case patch.Marker == "":
			missing = "marker"
		case patch.Label == "":
			missing = "label"
		case patch.Sentinel == "":
			missing = "sentinel"
		case strings.TrimSpace(patch.Insert) == "":
			missing = "insert"
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPatchKind, patch.Kind)
	}

	if missing != "" {
		return fmt.Errorf("%w %q: missing %s", ErrInvalidPatch, patch.DisplayName(), missing)
	}

	return nil
}
