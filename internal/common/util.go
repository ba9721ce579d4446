package common

import "strings"

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Use it to drop plaintext passwords read from a terminal once they have been
// sent.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// TokenFromHeader extracts a session token from an authorization value.
// Both the raw token and the "Bearer <token>" form are accepted.
func TokenFromHeader(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= len(BearerPrefix) && strings.EqualFold(v[:len(BearerPrefix)], BearerPrefix) {
		v = strings.TrimSpace(v[len(BearerPrefix):])
	}
	return v
}
