// Package social holds the domain entities shared by the services, stores and HTTP boundary.
package social

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MinPasswordLen is the shortest password accepted at registration.
	MinPasswordLen = 4
	// MaxMessageTextLen is the exclusive upper bound on message text length, in characters.
	MaxMessageTextLen = 255
)

// Account is a registered user identity.
type Account struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	// Password is stored and compared as plain text.
	Password string `json:"password"`
}

// Message is a single text post authored by an account.
type Message struct {
	MessageID int64 `json:"message_id"`
	// PostedBy references the authoring Account. Checked on create only.
	PostedBy    int64  `json:"posted_by"`
	MessageText string `json:"message_text"`
	// TimePostedEpoch is carried through as given by the client.
	TimePostedEpoch int64 `json:"time_posted_epoch"`
}

// TextLen counts characters rather than bytes.
func TextLen(s string) int { return utf8.RuneCountInString(s) }

// IsBlank reports whether s is empty or made only of whitespace. Whitespace
// is the Unicode space, line and paragraph separators except the no-break
// spaces (U+00A0, U+2007, U+202F), plus the ASCII controls \t \n \v \f \r
// and the information separators U+001C..U+001F. U+0085 is not whitespace.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !isWhitespace(r) }) < 0
}

func isWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', 0x1C, 0x1D, 0x1E, 0x1F:
		return true
	case 0x00A0, 0x2007, 0x202F:
		return false
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}
