package inputval

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// ErrInvalidURL is matched by every error returned from ValidateURL.
var ErrInvalidURL = errors.New("invalid URL")

// MaxURLLength is the longest URL accepted, in characters.
const MaxURLLength = 2048

// urlPattern accepts http(s) URLs whose host is a dotted hostname,
// localhost, or a dotted-quad IPv4 address, with optional port and
// path/query.
var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?` +
	`|localhost` +
	`|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// URLError carries the user-facing reason a URL was rejected.
type URLError struct {
	Msg string
}

func (e *URLError) Error() string { return e.Msg }
func (e *URLError) Unwrap() error { return ErrInvalidURL }

// ValidateURL checks s and returns it unchanged when it is acceptable.
// No trimming, decoding, or canonicalization is performed.
func ValidateURL(s string) (string, error) {
	switch {
	case s == "":
		return "", &URLError{Msg: "URL is required"}
	case utf8.RuneCountInString(s) > MaxURLLength:
		return "", &URLError{Msg: "URL is too long"}
	case !urlPattern.MatchString(s):
		return "", &URLError{Msg: "Invalid URL format. Must start with http:// or https://"}
	}
	return s, nil
}

// IsValidHTTPURL reports whether ValidateURL accepts s.
func IsValidHTTPURL(s string) bool {
	_, err := ValidateURL(s)
	return err == nil
}
