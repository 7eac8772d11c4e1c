// Package model defines the data structures for text patching.
package model

import "strings"

// Path represents a file system path.
type Path string

// Line separators recognised when loading a file.
const (
	LF   = "\n"
	CRLF = "\r\n"
)

// SourceFile is a text file held fully in memory as an ordered list of lines.
type SourceFile struct {
	Path            Path
	Lines           []string
	Newline         string // separator written back on store
	TrailingNewline bool
	MixedNewlines   bool   // both separators were present; all lines get Newline on store
	Hash            string // content hash at load time
}

// ParseSourceFile splits raw file content into lines, remembering the line
// separator convention so that Content reproduces it. A file mixing both
// separators keeps the one used by most lines.
func ParseSourceFile(path Path, content []byte) SourceFile {
	text := string(content)

	crlf := strings.Count(text, CRLF)
	lf := strings.Count(text, LF) - crlf

	newline := LF
	if crlf > lf {
		newline = CRLF
	}

	text = strings.ReplaceAll(text, CRLF, LF)

	trailing := strings.HasSuffix(text, LF)
	if trailing {
		text = strings.TrimSuffix(text, LF)
	}

	var lines []string
	if text != "" || trailing {
		lines = strings.Split(text, LF)
	}

	return SourceFile{
		Path:            path,
		Lines:           lines,
		Newline:         newline,
		TrailingNewline: trailing,
		MixedNewlines:   crlf > 0 && lf > 0,
	}
}

// Len returns the number of lines.
func (f SourceFile) Len() int {
	return len(f.Lines)
}

// Text returns the content joined with "\n", the view substitutions work on.
func (f SourceFile) Text() string {
	return f.join(LF)
}

// Content returns the content joined with the original line separator.
func (f SourceFile) Content() []byte {
	newline := f.Newline
	if newline == "" {
		newline = LF
	}

	return []byte(f.join(newline))
}

// WithText returns a copy of the file whose lines are re-split from text.
// Path, separator and hash are kept.
func (f SourceFile) WithText(text string) SourceFile {
	next := ParseSourceFile(f.Path, []byte(text))
	next.Newline = f.Newline
	next.MixedNewlines = f.MixedNewlines
	next.Hash = f.Hash

	return next
}

// WithLines returns a copy of the file holding lines.
func (f SourceFile) WithLines(lines []string) SourceFile {
	next := f
	next.Lines = lines

	return next
}

func (f SourceFile) join(newline string) string {
	if len(f.Lines) == 0 {
		return ""
	}

	text := strings.Join(f.Lines, newline)
	if f.TrailingNewline {
		text += newline
	}

	return text
}
