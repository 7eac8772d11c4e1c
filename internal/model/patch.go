package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PatchKind represents the strategy a patch uses to rewrite a file.
type PatchKind string

const (
	// PatchDeleteLines removes lines by zero-based index.
	PatchDeleteLines PatchKind = "delete-lines"
	// PatchDeleteBlock removes an exact sequence of lines wherever it occurs.
	PatchDeleteBlock PatchKind = "delete-block"
	// PatchDedupe removes repeated declarations of the same signature.
	PatchDedupe PatchKind = "dedupe"
	// PatchReplace replaces a literal substring.
	PatchReplace PatchKind = "replace"
	// PatchRegex replaces regular expression matches.
	PatchRegex PatchKind = "regex"
	// PatchAnnotate inserts an annotation line before matching blocks.
	PatchAnnotate PatchKind = "annotate"
)

// PatchKinds lists every supported kind in display order.
var PatchKinds = []PatchKind{
	PatchDeleteLines,
	PatchDeleteBlock,
	PatchDedupe,
	PatchReplace,
	PatchRegex,
	PatchAnnotate,
}

// LineRange is a zero-based inclusive range of line indices.
type LineRange struct {
	Start int
	End   int
}

// ParseLineRange parses "232-241" or "232".
func ParseLineRange(value string) (LineRange, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return LineRange{}, fmt.Errorf("empty line range")
	}

	startText, endText, isRange := strings.Cut(value, "-")
	if !isRange {
		endText = startText
	}

	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return LineRange{}, fmt.Errorf("invalid line range %q: %w", value, err)
	}

	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return LineRange{}, fmt.Errorf("invalid line range %q: %w", value, err)
	}

	if start < 0 || end < start {
		return LineRange{}, fmt.Errorf("invalid line range %q: want 0 <= start <= end", value)
	}

	return LineRange{Start: start, End: end}, nil
}

// ParseLineRanges parses a comma separated list such as "232-241,367-377".
func ParseLineRanges(value string) ([]LineRange, error) {
	var ranges []LineRange

	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}

		r, err := ParseLineRange(part)
		if err != nil {
			return nil, err
		}

		ranges = append(ranges, r)
	}

	return ranges, nil
}

// String formats the range the way ParseLineRange accepts it.
func (r LineRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}

	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Len returns the number of indices the range covers.
func (r LineRange) Len() int {
	return r.End - r.Start + 1
}

// MarshalYAML implements yaml.Marshaler.
func (r LineRange) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *LineRange) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}

	parsed, err := ParseLineRange(raw)
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}

// DeletionSet is the set of zero-based line indices excluded when rebuilding a file.
type DeletionSet map[int]struct{}

// NewDeletionSet builds a set from ranges. Overlaps collapse.
func NewDeletionSet(ranges ...LineRange) DeletionSet {
	set := make(DeletionSet)

	for _, r := range ranges {
		for i := r.Start; i <= r.End; i++ {
			set[i] = struct{}{}
		}
	}

	return set
}

// Contains reports whether index is in the set.
func (s DeletionSet) Contains(index int) bool {
	_, ok := s[index]
	return ok
}

// Len returns the number of distinct indices.
func (s DeletionSet) Len() int {
	return len(s)
}

// Indices returns the indices in ascending order.
func (s DeletionSet) Indices() []int {
	indices := make([]int, 0, len(s))
	for i := range s {
		indices = append(indices, i)
	}

	sort.Ints(indices)

	return indices
}

// SubstitutionRule is a (pattern, replacement) pair applied to whole-file text.
type SubstitutionRule struct {
	Pattern     string
	Replacement string
	Regex       bool
}

// AnnotationRule describes the block shape that receives an inserted annotation.
type AnnotationRule struct {
	Marker     string // text on the attribute line
	Label      string // text on the line right after the marker
	Sentinel   string // text the block body must contain
	Annotation string // line inserted before the block header
}

// Patch is one entry of a recipe: a single rewrite of a single target file.
type Patch struct {
	Name   string    `yaml:"name,omitempty"`
	Target Path      `yaml:"target"`
	Kind   PatchKind `yaml:"kind"`

	// delete-lines
	Lines []LineRange `yaml:"lines,omitempty"`
	Guard string      `yaml:"guard,omitempty"`

	// delete-block
	Block      string `yaml:"block,omitempty"`
	Occurrence int    `yaml:"occurrence,omitempty"`

	// dedupe; Keep is "first" (default) or "last"
	Signature string `yaml:"signature,omitempty"`
	Keep      string `yaml:"keep,omitempty"`

	// replace, regex
	Search  string `yaml:"search,omitempty"`
	Replace string `yaml:"replace,omitempty"`

	// annotate
	Marker   string `yaml:"marker,omitempty"`
	Label    string `yaml:"label,omitempty"`
	Sentinel string `yaml:"sentinel,omitempty"`
	Insert   string `yaml:"insert,omitempty"`

	// Expect, when set, is the exact number of matches the patch must find.
	Expect *int `yaml:"expect,omitempty"`
}

// DisplayName returns Name, falling back to the kind.
func (p Patch) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}

	return string(p.Kind)
}

// DeletionSet returns the set described by Lines.
func (p Patch) DeletionSet() DeletionSet {
	return NewDeletionSet(p.Lines...)
}

// Substitution returns the rule for replace and regex patches.
func (p Patch) Substitution() SubstitutionRule {
	return SubstitutionRule{
		Pattern:     p.Search,
		Replacement: p.Replace,
		Regex:       p.Kind == PatchRegex,
	}
}

// Annotation returns the rule for annotate patches.
func (p Patch) Annotation() AnnotationRule {
	return AnnotationRule{
		Marker:     p.Marker,
		Label:      p.Label,
		Sentinel:   p.Sentinel,
		Annotation: p.Insert,
	}
}

// KeepLast reports whether a dedupe patch keeps the last declaration.
func (p Patch) KeepLast() bool {
	return p.Keep == KeepLast
}

// Values accepted by Patch.Keep.
const (
	KeepFirst = "first"
	KeepLast  = "last"
)

// Recipe is an ordered list of patches loaded from YAML.
type Recipe struct {
	Version int     `yaml:"version"`
	Patches []Patch `yaml:"patches"`
}
