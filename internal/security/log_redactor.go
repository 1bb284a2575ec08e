// Package security keeps provider credentials out of log output.
package security

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// RedactedPlaceholder replaces any value that looks like a credential.
const RedactedPlaceholder = "[REDACTED]"

// credentialPatterns matches the key formats of the providers this router
// proxies to, plus generic shapes that tend to be secrets.
var credentialPatterns = []*regexp.Regexp{
	// OpenAI-style keys: sk-...
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),
	// Bearer tokens in header dumps
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]{16,}`),
	// Keys passed as query or form params
	regexp.MustCompile(`(?:api_?key|key|token)=[a-zA-Z0-9_-]{16,}`),
	// Mistral keys are bare 32-char alphanumerics; catch long opaque blobs
	regexp.MustCompile(`\b[a-zA-Z0-9]{32,}\b`),
}

// Redact replaces anything credential-shaped in s with the placeholder.
func Redact(s string) string {
	out := s
	for _, p := range credentialPatterns {
		out = p.ReplaceAllString(out, RedactedPlaceholder)
	}
	return out
}

// RedactingHandler wraps an slog.Handler and scrubs credentials from every
// record before it reaches the inner handler.
type RedactingHandler struct {
	inner slog.Handler
}

// NewRedactingHandler wraps inner with credential scrubbing.
func NewRedactingHandler(inner slog.Handler) *RedactingHandler {
	return &RedactingHandler{inner: inner}
}

// Enabled reports whether the inner handler handles records at the given level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle scrubs the message and attributes, then delegates to the inner handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.Record{
		Time:    r.Time,
		Message: Redact(r.Message),
		Level:   r.Level,
		PC:      r.PC,
	}

	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(scrubAttr(a))
		return true
	})

	return h.inner.Handle(ctx, clean)
}

// WithAttrs returns a handler whose added attributes are scrubbed up front.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = scrubAttr(a)
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(scrubbed)}
}

// WithGroup returns a handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name)}
}

// scrubAttr scrubs a single attribute. Attributes with a secret-bearing key
// are blanked outright regardless of value.
func scrubAttr(a slog.Attr) slog.Attr {
	if isSecretKey(strings.ToLower(a.Key)) {
		return slog.String(a.Key, RedactedPlaceholder)
	}

	switch v := a.Value.Any().(type) {
	case string:
		return slog.String(a.Key, Redact(v))
	case []string:
		scrubbed := make([]string, len(v))
		for i, s := range v {
			scrubbed[i] = Redact(s)
		}
		return slog.Any(a.Key, scrubbed)
	}

	return a
}

// secretKeyFragments are substrings that mark an attribute key as
// secret-bearing.
var secretKeyFragments = []string{
	"authorization",
	"api_key",
	"apikey",
	"api-key",
	"secret",
	"password",
	"token",
	"bearer",
	"credential",
}

func isSecretKey(key string) bool {
	for _, frag := range secretKeyFragments {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}
