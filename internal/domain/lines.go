package domain

import (
	"fmt"
	"strings"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// DeleteLines returns file without the lines whose index is in set, keeping
// the order of the rest. Indices past the end are ignored. The count is the
// number of lines actually removed.
func DeleteLines(file m.SourceFile, set m.DeletionSet) (m.SourceFile, int) {
	kept := make([]string, 0, len(file.Lines))
	removed := 0

	for i, line := range file.Lines {
		if set.Contains(i) {
			removed++
			continue
		}

		kept = append(kept, line)
	}

	return file.WithLines(kept), removed
}

// DeleteGuardedLines is DeleteLines with a content check: when guard is not
// empty the lines about to be removed must contain it somewhere, otherwise
// the file is returned untouched with ErrGuardMismatch. Fixed indices go
// stale as soon as the file shifts; the guard makes that visible.
func DeleteGuardedLines(file m.SourceFile, set m.DeletionSet, guard string) (m.SourceFile, int, error) {
	if guard != "" {
		var deleted []string

		for _, i := range set.Indices() {
			if i < len(file.Lines) {
				deleted = append(deleted, file.Lines[i])
			}
		}

		if !strings.Contains(strings.Join(deleted, m.LF), guard) {
			return file, 0, fmt.Errorf("%w: %q", ErrGuardMismatch, guard)
		}
	}

	next, removed := DeleteLines(file, set)

	return next, removed, nil
}
