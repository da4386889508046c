package logger

import (
	"io"
	"regexp"
)

// Redactor redacts key material and other secrets from log output.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor creates a redactor with the default pattern set. The
// patterns target what this process actually handles: hex-encoded ed25519
// seeds and private keys, explicit privateKey/secret fields, and generic
// bearer material.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*regexp.Regexp{
			// hex-encoded ed25519 seed or private key
			regexp.MustCompile(`\b[0-9a-fA-F]{64}\b`),
			regexp.MustCompile(`\b[0-9a-fA-F]{128}\b`),

			// explicit secret fields
			regexp.MustCompile(`privateKey["\s:=]+[^\s",}]+`),
			regexp.MustCompile(`private_key["\s:=]+[^\s",}]+`),
			regexp.MustCompile(`secret["\s:=]+[^\s",}]+`),
			regexp.MustCompile(`password["\s:=]+[^\s",}]+`),

			// bearer tokens
			regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`),
		},
	}
}

// AddPattern adds a custom redaction pattern
func (r *Redactor) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.patterns = append(r.patterns, re)
	return nil
}

// Redact redacts sensitive information from a string
func (r *Redactor) Redact(s string) string {
	result := s
	for _, pattern := range r.patterns {
		result = pattern.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// Wrap wraps an io.Writer to redact everything written through it.
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{writer: w, redactor: r}
}

type redactingWriter struct {
	writer   io.Writer
	redactor *Redactor
}

func (w *redactingWriter) Write(p []byte) (n int, err error) {
	redacted := w.redactor.Redact(string(p))
	if _, err := w.writer.Write([]byte(redacted)); err != nil {
		return 0, err
	}
	// Report the original length so zerolog does not treat the shrunken
	// write as an error.
	return len(p), nil
}
