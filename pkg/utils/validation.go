// Package utils provides validation and encoding helpers for the message board.
// It contains the checks applied to form input before anything is handed to the
// wallet: message normalization and decentralized identifier validation.
package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxMessageLength bounds a message in bytes. OP_RETURN outputs are not size
// limited on BSV, but the wallet rejects oversized descriptions long before that.
const MaxMessageLength = 1024

// didRegex validates decentralized identifiers of the form did:<method>:<id>.
// Pattern: lowercase alphanumeric method, id of unreserved characters and colons
var didRegex = regexp.MustCompile(`^did:[a-z0-9]+:[A-Za-z0-9._%-]+(?::[A-Za-z0-9._%-]+)*$`)

// IsValidDID checks if the provided string is a syntactically valid DID.
//
// Rules:
//   - Must start with "did:"
//   - Method must be lowercase letters or digits
//   - Method-specific id must be non-empty and may contain colon separated segments
//
// Examples:
//   - Valid: "did:bsv:alice", "did:web:example.com", "did:bsv:team:ops"
//   - Invalid: "bsv:alice", "did:BSV:alice", "did:bsv:", "did:bsv:a b"
func IsValidDID(did string) bool {
	if len(did) > 255 {
		return false
	}
	return didRegex.MatchString(did)
}

// NormalizeMessage strips control characters other than newlines and tabs,
// then trims surrounding whitespace. The returned string may be empty.
func NormalizeMessage(message string) string {
	message = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, message)
	return strings.TrimSpace(message)
}

// IsValidMessage reports whether a normalized message can be posted.
func IsValidMessage(message string) bool {
	return message != "" && len(message) <= MaxMessageLength && utf8.ValidString(message)
}
