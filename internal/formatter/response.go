// Package formatter implements the deterministic verse-numbering transforms.
package formatter

import "fmt"

// ExtractFromResponse normalizes provider output into the same fenced-block
// shape the deterministic transforms produce, so callers cannot tell
// AI-produced from locally-produced output by shape alone.
//
// Tiers mirror ExtractCode, with one extra: when nothing matches, the raw
// text is passed through unchanged rather than reported as a failure.
func (f *Formatter) ExtractFromResponse(text string) string {
	if m := f.taggedFence.FindStringSubmatch(text); m != nil {
		return f.fence(m[1])
	}

	if m := f.genericFence.FindStringSubmatch(text); m != nil {
		return f.fence(m[1])
	}

	if m := f.literalDecl.FindStringSubmatch(text); m != nil {
		return f.fence(m[1])
	}

	return text
}

// fence wraps code in a fenced block tagged with the configured language.
func (f *Formatter) fence(code string) string {
	return fmt.Sprintf("```%s\n%s\n```", f.lang, code)
}
