package domain

import (
	"fmt"
	"slices"
	"strings"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// DeleteBlock removes the exact line sequence block from file. occurrence
// selects which match to remove (1-based); zero removes every match. The
// count is the number of occurrences removed.
func DeleteBlock(file m.SourceFile, block []string, occurrence int) (m.SourceFile, int) {
	size := len(block)
	if size == 0 || size > len(file.Lines) {
		return file, 0
	}

	var ranges []m.LineRange

	seen := 0

	for i := 0; i+size <= len(file.Lines); {
		if !slices.Equal(file.Lines[i:i+size], block) {
			i++
			continue
		}

		seen++
		if occurrence == 0 || seen == occurrence {
			ranges = append(ranges, m.LineRange{Start: i, End: i + size - 1})
		}

		i += size
	}

	if len(ranges) == 0 {
		return file, 0
	}

	next, _ := DeleteLines(file, m.NewDeletionSet(ranges...))

	return next, len(ranges)
}

// RemoveDuplicates keeps one declaration among the lines containing
// signature (see declarations) and removes the others, each with the annotation lines directly
// above it and its body up to the matching closing brace. keepLast keeps the
// final declaration instead of the first. Braces inside string literals and
// comments are counted too.
func RemoveDuplicates(file m.SourceFile, signature string, keepLast bool) (m.SourceFile, int, error) {
	if signature == "" {
		return file, 0, fmt.Errorf("%w: dedupe needs a signature", ErrInvalidPatch)
	}

	decls := declarations(file.Lines, signature)
	if len(decls) < 2 {
		return file, 0, nil
	}

	keep := decls[0]
	if keepLast {
		keep = decls[len(decls)-1]
	}

	keepEnd, err := blockEnd(file.Lines, keep)
	if err != nil {
		return file, 0, err
	}

	var ranges []m.LineRange

	for _, decl := range decls {
		if decl >= keep && decl <= keepEnd {
			continue
		}

		if len(ranges) > 0 && decl <= ranges[len(ranges)-1].End {
			continue
		}

		end, err := blockEnd(file.Lines, decl)
		if err != nil {
			return file, 0, err
		}

		ranges = append(ranges, m.LineRange{Start: annotationStart(file.Lines, decl), End: end})
	}

	next, _ := DeleteLines(file, m.NewDeletionSet(ranges...))

	return next, len(ranges), nil
}

// declarations returns the indices of lines that declare signature. Lines
// where signature is used as a call are skipped, and only matches at the
// shallowest brace depth count, so call statements inside method bodies are
// never taken for members.
func declarations(lines []string, signature string) []int {
	depths := braceDepths(lines)
	minDepth := -1

	var candidates []int

	for i, line := range lines {
		at := strings.Index(line, signature)
		if at < 0 || isCallSite(line[:at]) {
			continue
		}

		candidates = append(candidates, i)

		if minDepth < 0 || depths[i] < minDepth {
			minDepth = depths[i]
		}
	}

	var decls []int

	for _, i := range candidates {
		if depths[i] == minDepth {
			decls = append(decls, i)
		}
	}

	return decls
}

// isCallSite reports whether the text before a signature match makes the
// line a statement or expression rather than a declaration.
func isCallSite(prefix string) bool {
	prefix = strings.TrimSpace(prefix)
	if prefix == "return" || strings.HasPrefix(prefix, "return ") {
		return true
	}

	return strings.ContainsAny(prefix, "=.(!&|?")
}

// braceDepths returns the brace depth at the start of each line.
func braceDepths(lines []string) []int {
	depths := make([]int, len(lines))
	depth := 0

	for i, line := range lines {
		depths[i] = depth
		depth += strings.Count(line, "{") - strings.Count(line, "}")
	}

	return depths
}

// annotationStart walks up from decl over lines that start with '@'.
func annotationStart(lines []string, decl int) int {
	start := decl
	for start > 0 && strings.HasPrefix(strings.TrimSpace(lines[start-1]), "@") {
		start--
	}

	return start
}

// blockEnd returns the index of the line that closes the block opened at or
// after decl. A ';' before any '{' ends a body-less declaration.
func blockEnd(lines []string, decl int) (int, error) {
	depth := 0
	opened := false

	for i := decl; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			case ';':
				if !opened {
					return i, nil
				}
			}

			if opened && depth == 0 {
				return i, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: block starting at line %d never closes", ErrInvalidPatch, decl+1)
}
