package revision

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Line is one line of a line-level comparison. Op is '+', '-' or ' '.
type Line struct {
	Op   byte
	Text string
}

func (l Line) String() string {
	return string(l.Op) + " " + l.Text
}

// Lines compares two renderings line by line. Both inputs are normalized
// first so trailing whitespace and CRLF never show up as changes.
func Lines(before, after string) []Line {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(normalize(before), normalize(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out []Line
	for _, d := range diffs {
		op := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = '+'
		case diffmatchpatch.DiffDelete:
			op = '-'
		}
		for _, text := range splitLines(d.Text) {
			out = append(out, Line{Op: op, Text: text})
		}
	}
	return out
}

// Changed reports whether any line differs.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != ' ' {
			return true
		}
	}
	return false
}

// Format renders only the changed lines, or every line when context is set.
func Format(lines []Line, context bool) string {
	var sb strings.Builder
	for _, l := range lines {
		if l.Op == ' ' && !context {
			continue
		}
		sb.WriteString(l.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Patch returns a diff-match-patch patch text that turns before into after,
// or "" when they are equal after normalization.
func Patch(before, after string) string {
	normBefore, normAfter := normalize(before), normalize(after)
	if normBefore == normAfter {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(normBefore, normAfter, false)
	return dmp.PatchToText(dmp.PatchMake(normBefore, diffs))
}

// normalize trims trailing whitespace from each line and converts CRLF to LF.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
