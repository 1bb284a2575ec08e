// Package formatter implements the deterministic verse-numbering transforms
// for Swift array literals. It locates an array literal inside arbitrary
// source text, classifies its element lines with a terminator heuristic, and
// rewrites or strips the leading /* N */ annotations while preserving the
// original formatting.
//
// The package intentionally uses line-level heuristics instead of parsing the
// embedded language: the convention it serves is one quoted string per line,
// terminated by a comma or the closing bracket. Multi-line string literals
// and escaped quotes can defeat the heuristic; such lines are misclassified
// rather than failing the whole operation.
package formatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for the extraction and transform pipeline.
var (
	// ErrExtractionFailed indicates no fenced block and no recognizable
	// declaration pattern was found in the input.
	ErrExtractionFailed = errors.New("no code block or array declaration found")

	// ErrArrayBoundsNotFound indicates code was found but no '['/']' pair
	// satisfying the ordering constraint exists.
	ErrArrayBoundsNotFound = errors.New("array brackets not found")

	// ErrNoElementLines indicates the array body was located but no line
	// matched the element-line terminator heuristic.
	ErrNoElementLines = errors.New("no element lines found in array body")
)

// Default declaration settings for Swift sources.
const (
	// DefaultDeclaration is the regex fragment matching the declaration
	// keyword sequence that introduces the array literal.
	DefaultDeclaration = `private\s+let`

	// DefaultLanguage is the fence tag recognized and emitted by default.
	DefaultLanguage = "swift"
)

// ArrayParts holds the three sections of a matched array literal.
// Header ends with the opening bracket, Footer starts at the closing one,
// and Header+Body+Footer reconstructs the matched region.
type ArrayParts struct {
	Header string
	Body   string
	Footer string
}

// Formatter locates array literals and applies the renumber and clean
// transforms. It is stateless after construction and safe for concurrent use.
type Formatter struct {
	lang string

	taggedFence  *regexp.Regexp
	genericFence *regexp.Regexp
	rawDecl      *regexp.Regexp
	arrayDecl    *regexp.Regexp
	literalDecl  *regexp.Regexp
}

// Option is a functional option for configuring a Formatter.
type Option func(*settings)

type settings struct {
	decl string
	lang string
}

// WithDeclaration overrides the declaration keyword regex fragment
// (e.g. `let` or `public\s+static\s+let`). The line-classification logic
// is unaffected by this setting.
func WithDeclaration(pattern string) Option {
	return func(s *settings) {
		if pattern != "" {
			s.decl = pattern
		}
	}
}

// WithLanguage overrides the fence language tag recognized on input and
// emitted on output.
func WithLanguage(tag string) Option {
	return func(s *settings) {
		if tag != "" {
			s.lang = tag
		}
	}
}

// New creates a Formatter for the configured declaration style.
func New(opts ...Option) *Formatter {
	s := &settings{
		decl: DefaultDeclaration,
		lang: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}

	return &Formatter{
		lang:         s.lang,
		taggedFence:  regexp.MustCompile(`(?s)` + "```" + s.lang + `\n(.*?)\n` + "```"),
		genericFence: regexp.MustCompile(`(?s)` + "```" + `\n(.*?)\n` + "```"),
		rawDecl:      regexp.MustCompile(`(?s)(` + s.decl + `.*?\])`),
		arrayDecl:    regexp.MustCompile(`(?s)(` + s.decl + `\s+\w+\s*=\s*\[)(.*?)(\n\])`),
		literalDecl:  regexp.MustCompile(`(?s)(` + s.decl + `\s+\w+\s*=\s*\[.*?\])`),
	}
}

// Language returns the configured fence language tag.
func (f *Formatter) Language() string {
	return f.lang
}

// extractStrategy is one tier of the code-location chain. It returns the
// extracted code and whether the tier matched.
type extractStrategy func(text string) (string, bool)

// ExtractCode locates a candidate code block in the input text.
//
// Strategies are tried in fixed priority order, reflecting decreasing
// confidence that the match is exactly the intended code:
//  1. fenced block tagged with the configured language
//  2. generic fenced block
//  3. raw declaration-and-bracket pattern
//
// Only the first match of the first succeeding tier is used. Returns
// ErrExtractionFailed when no tier matches.
func (f *Formatter) ExtractCode(text string) (string, error) {
	strategies := []extractStrategy{
		f.matchTaggedFence,
		f.matchGenericFence,
		f.matchRawDeclaration,
	}

	for _, strategy := range strategies {
		if code, ok := strategy(text); ok {
			return code, nil
		}
	}

	return "", ErrExtractionFailed
}

func (f *Formatter) matchTaggedFence(text string) (string, bool) {
	if m := f.taggedFence.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

func (f *Formatter) matchGenericFence(text string) (string, bool) {
	if m := f.genericFence.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

func (f *Formatter) matchRawDeclaration(text string) (string, bool) {
	if m := f.rawDecl.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// ExtractArrayParts splits code into the header, body, and footer of its
// array literal.
//
// The structured match anchors the footer to a closing bracket that starts
// its own line, which handles the common declaration style precisely. When
// it fails (access modifiers or type annotations the pattern does not know
// about), the bracket-scan fallback uses the first '[' and the last ']' so
// extraction degrades gracefully instead of failing outright. The last-']'
// scan assumes a single literal per input.
func (f *Formatter) ExtractArrayParts(code string) (ArrayParts, error) {
	if m := f.arrayDecl.FindStringSubmatch(code); m != nil {
		return ArrayParts{Header: m[1], Body: m[2], Footer: m[3]}, nil
	}

	start := strings.IndexByte(code, '[')
	end := strings.LastIndexByte(code, ']')
	if start == -1 || end == -1 || end <= start {
		return ArrayParts{}, ErrArrayBoundsNotFound
	}

	return ArrayParts{
		Header: code[:start+1],
		Body:   code[start+1 : end],
		Footer: code[end:],
	}, nil
}

// wrap reassembles transformed parts into a fenced code block. Callers may
// re-extract the result, so the output is always a complete tagged fence.
func (f *Formatter) wrap(header, body, footer string) string {
	return fmt.Sprintf("```%s\n%s\n%s\n%s\n```", f.lang, header, body, footer)
}
