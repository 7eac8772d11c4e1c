package domain

import (
	"fmt"
	"regexp"
	"strings"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// ReplaceLiteral replaces every non-overlapping occurrence of search in text.
// The match is byte-for-byte, whitespace included. An empty search matches nothing.
func ReplaceLiteral(text, search, replacement string) (string, int) {
	if search == "" {
		return text, 0
	}

	count := strings.Count(text, search)
	if count == 0 {
		return text, 0
	}

	return strings.ReplaceAll(text, search, replacement), count
}

// ReplaceRegex replaces every match of pattern in text. The replacement may
// reference groups as $1 or ${name}.
func ReplaceRegex(text, pattern, replacement string) (string, int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return text, 0, fmt.Errorf("compile %q: %w", pattern, err)
	}

	count := len(re.FindAllStringIndex(text, -1))
	if count == 0 {
		return text, 0, nil
	}

	return re.ReplaceAllString(text, replacement), count, nil
}

// Substitute applies rule to the text view of file.
func Substitute(file m.SourceFile, rule m.SubstitutionRule) (m.SourceFile, int, error) {
	text := file.Text()

	if !rule.Regex {
		next, count := ReplaceLiteral(text, rule.Pattern, rule.Replacement)
		return file.WithText(next), count, nil
	}

	next, count, err := ReplaceRegex(text, rule.Pattern, rule.Replacement)
	if err != nil {
		return file, 0, err
	}

	return file.WithText(next), count, nil
}
