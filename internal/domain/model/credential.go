package model

import "log/slog"

const redacted = "[REDACTED]"

// Credential holds the provider API key supplied at login. It lives only in
// process memory for the lifetime of the session and is never persisted.
// String and LogValue redact the value so it cannot leak through fmt or slog.
type Credential struct {
	value string
}

// NewCredential wraps a raw API key.
func NewCredential(raw string) Credential {
	return Credential{value: raw}
}

// Reveal returns the raw key. Only provider adapters should call it.
func (c Credential) Reveal() string {
	return c.value
}

// IsEmpty reports whether no key was supplied.
func (c Credential) IsEmpty() bool {
	return c.value == ""
}

// String implements fmt.Stringer.
func (c Credential) String() string {
	return redacted
}

// LogValue implements slog.LogValuer.
func (c Credential) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
