package server

import "github.com/google/uuid"

// ResolveThreadID picks the first non-empty of the header value and the body value,
// or generates a fresh id when both are empty.
func ResolveThreadID(header, body string) string {
	if header != "" {
		return header
	}
	if body != "" {
		return body
	}
	return uuid.NewString()
}
