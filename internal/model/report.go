package model

// PatchStatus represents the outcome of a single patch.
type PatchStatus int

const (
	// Applied indicates the patch matched and changed the content.
	Applied PatchStatus = iota
	// NoMatch indicates the patch found nothing to change.
	NoMatch
	// Planned indicates the patch matched but the run was a dry run.
	Planned
	// Failed indicates the patch returned an error.
	Failed
	// Skipped indicates the change was declined or never reached.
	Skipped
)

func (s PatchStatus) String() string {
	switch s {
	case Applied:
		return "applied"
	case NoMatch:
		return "no-match"
	case Planned:
		return "planned"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Report is the outcome of one patch against its target.
type Report struct {
	Patch       string
	Target      Path
	Kind        PatchKind
	Matches     int
	LinesBefore int
	LinesAfter  int
	Status      PatchStatus
	Err         error
}

// FileResult holds the outcome of every patch applied to a single file.
type FileResult struct {
	Target  Path
	Reports []Report
	Diff    string
	Written bool
	Backup  Path
	Err     error
}

// Matches returns the total match count across reports.
func (r FileResult) Matches() int {
	total := 0
	for _, report := range r.Reports {
		total += report.Matches
	}

	return total
}

// Changed reports whether the patched content differs from the original.
func (r FileResult) Changed() bool {
	return r.Diff != ""
}
