// Package formatter implements the deterministic verse-numbering transforms.
package formatter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	// elementTerminator matches a right-trimmed line ending a quoted element:
	// a double quote optionally followed by a comma. Last elements lack the
	// trailing comma, so the comma is optional.
	elementTerminator = regexp.MustCompile(`"\s*,?$`)

	// leadingAnnotation matches an existing block comment at the start of an
	// element's content, plus the whitespace following it. Old annotation
	// values are noise and are always discarded before renumbering.
	leadingAnnotation = regexp.MustCompile(`^/\*[^*]*\*/\s*`)

	// numberAnnotation matches a /* N */ annotation anywhere on a line,
	// tolerating arbitrary internal whitespace, plus the whitespace after it.
	numberAnnotation = regexp.MustCompile(`/\*\s*\d+\s*\*/\s*`)
)

// isElementLine reports whether a body line holds one array element.
// Classification is purely line-local: blank lines never qualify, and a
// non-blank line qualifies when, after trimming trailing whitespace, it ends
// with a double quote optionally followed by a comma.
func isElementLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	return elementTerminator.MatchString(trimmed)
}

// leadingWhitespace returns the run of whitespace characters at the start of
// the line.
func leadingWhitespace(line string) string {
	for i, r := range line {
		if !unicode.IsSpace(r) {
			return line[:i]
		}
	}
	return line
}

// RenumberBody rewrites the annotations of every element line in body so
// they are sequential in document order: the first element line found gets
// /* 1 */, the second /* 2 */, and so on. Any existing annotation is
// stripped first regardless of its value. Leading whitespace is kept in
// front of the new annotation, and non-element lines (including blanks)
// pass through unchanged.
//
// Returns ErrNoElementLines when no line matches the terminator heuristic.
func (f *Formatter) RenumberBody(body string) (string, error) {
	lines := strings.Split(body, "\n")

	var positions []int
	for i, line := range lines {
		if isElementLine(line) {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		return "", ErrNoElementLines
	}

	for num, idx := range positions {
		line := lines[idx]
		indent := leadingWhitespace(line)
		rest := leadingAnnotation.ReplaceAllString(line[len(indent):], "")
		lines[idx] = fmt.Sprintf("%s/* %d */ %s", indent, num+1, rest)
	}

	return strings.Join(lines, "\n"), nil
}

// CleanBody removes every /* N */ annotation (and the whitespace following
// it) from each line of body. Blank lines are preserved as-is, and lines
// without annotations are untouched. This transform has no failure mode:
// absence of annotations is a no-op clean.
func (f *Formatter) CleanBody(body string) string {
	lines := strings.Split(body, "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = numberAnnotation.ReplaceAllString(line, "")
	}

	return strings.Join(lines, "\n")
}

// Renumber extracts the array literal from code, renumbers its element
// lines, and returns the reassembled literal wrapped in a tagged fenced
// block. Extraction failures surface as ErrArrayBoundsNotFound and an array
// with no element lines as ErrNoElementLines.
func (f *Formatter) Renumber(code string) (string, error) {
	parts, err := f.ExtractArrayParts(code)
	if err != nil {
		return "", err
	}

	body, err := f.RenumberBody(parts.Body)
	if err != nil {
		return "", err
	}

	return f.wrap(parts.Header, body, parts.Footer), nil
}

// Clean extracts the array literal from code, strips all /* N */
// annotations, and returns the reassembled literal wrapped in a tagged
// fenced block. It fails only when the array bounds cannot be located.
func (f *Formatter) Clean(code string) (string, error) {
	parts, err := f.ExtractArrayParts(code)
	if err != nil {
		return "", err
	}

	return f.wrap(parts.Header, f.CleanBody(parts.Body), parts.Footer), nil
}
