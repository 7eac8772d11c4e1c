package domain

import (
	"fmt"
	"regexp"
	"strings"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// BuildAnnotationPattern compiles the block pattern for rule.
//
// A block is a line containing Marker, the next line containing Label, then a
// header running to the first '{' and a body running to the first '}' that
// contains Sentinel. Group 1 is the header indentation, group 2 the header
// and body. The body stops at the first closing brace, so a sentinel that
// follows a nested block is not seen.
func BuildAnnotationPattern(rule m.AnnotationRule) (*regexp.Regexp, error) {
	if rule.Marker == "" || rule.Label == "" || rule.Sentinel == "" {
		return nil, fmt.Errorf("%w: annotate needs marker, label and sentinel", ErrInvalidPatch)
	}

	pattern := `(?m)^[^\n]*` + regexp.QuoteMeta(rule.Marker) + `[^\n]*\n` +
		`[^\n]*` + regexp.QuoteMeta(rule.Label) + `[^\n]*\n` +
		`([ \t]*)` +
		`([^{;]*\{[^}]*` + regexp.QuoteMeta(rule.Sentinel) + `[^}]*\})`

	return regexp.Compile(pattern)
}

// Annotate inserts rule.Annotation on its own line before the header of every
// block matching rule. Blocks whose header already carries the annotation are
// left alone and not counted.
func Annotate(text string, rule m.AnnotationRule) (string, int, error) {
	if strings.TrimSpace(rule.Annotation) == "" {
		return text, 0, fmt.Errorf("%w: annotate needs an annotation to insert", ErrInvalidPatch)
	}

	re, err := BuildAnnotationPattern(rule)
	if err != nil {
		return text, 0, err
	}

	annotation := strings.TrimSpace(rule.Annotation)

	var b strings.Builder

	last := 0
	count := 0

	for _, match := range re.FindAllStringSubmatchIndex(text, -1) {
		indentStart, indentEnd := match[2], match[3]
		blockStart := match[4]

		header := text[blockStart:strings.Index(text[blockStart:], "{")+blockStart]
		if strings.Contains(header, annotation) {
			continue
		}

		b.WriteString(text[last:indentStart])
		b.WriteString(text[indentStart:indentEnd])
		b.WriteString(annotation)
		b.WriteString(m.LF)

		last = indentStart
		count++
	}

	if count == 0 {
		return text, 0, nil
	}

	b.WriteString(text[last:])

	return b.String(), count, nil
}

// AnnotateFile applies Annotate to the text view of file.
func AnnotateFile(file m.SourceFile, rule m.AnnotationRule) (m.SourceFile, int, error) {
	next, count, err := Annotate(file.Text(), rule)
	if err != nil {
		return file, 0, err
	}

	return file.WithText(next), count, nil
}
