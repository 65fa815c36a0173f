// Package codec converts shared secrets to and from the RFC 4648 base32
// alphabet used by authenticator apps.
package codec

import (
	"encoding/base32"
	"strings"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeBase32 encodes b without padding.
func EncodeBase32(b []byte) string {
	return encoding.EncodeToString(b)
}

// DecodeBase32 decodes s case-insensitively, ignoring padding, spaces and
// dashes. Malformed input yields nil so callers fail closed.
func DecodeBase32(s string) []byte {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '=':
			return -1
		}
		return r
	}, strings.ToUpper(s))

	b, err := encoding.DecodeString(cleaned)
	if err != nil {
		return nil
	}
	return b
}
