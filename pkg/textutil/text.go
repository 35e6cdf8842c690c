package textutil

import (
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var whitespace = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace and trims the result.
func CleanText(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// CountWords counts word tokens in a Unicode-aware way. A token counts when
// it contains at least one Latin letter; CJK and Kana runs count one word
// per character, since those scripts do not delimit words with spaces.
func CountWords(text string) int {
	count := 0
	for _, field := range strings.Fields(text) {
		cjk := 0
		latin := false
		for _, r := range field {
			switch {
			case unicode.Is(unicode.Han, r), unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r), unicode.Is(unicode.Hangul, r):
				cjk++
			case unicode.IsLetter(r) || unicode.IsDigit(r):
				latin = true
			}
		}
		count += cjk
		if latin {
			count++
		}
	}
	return count
}

// ReadingTime estimates reading time in minutes at 200 words per minute,
// rounding up. Empty content reads in zero minutes.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(wordCount) / 200.0))
}

// NormalizeURL makes a raw user-supplied URL fetchable: infers https when
// the scheme is missing, lowercases the host, and drops the fragment. The
// path is left alone except that an empty path becomes "/".
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", &url.Error{Op: "parse", URL: raw, Err: errMissingHost}
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

var errMissingHost = errHost("missing host")

type errHost string

func (e errHost) Error() string { return string(e) }

// SameURL reports whether two URLs identify the same page, ignoring
// scheme-default ports, trailing slashes, and fragments. Used for
// canonical self-reference checks.
func SameURL(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	norm := func(u *url.URL) string {
		host := strings.ToLower(u.Hostname())
		path := strings.TrimSuffix(u.EscapedPath(), "/")
		if path == "" {
			path = "/"
		}
		return host + path + "?" + u.RawQuery
	}
	return norm(ua) == norm(ub)
}

// TruncateText shortens text to maxLength, preserving word boundaries.
func TruncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	truncated := text[:maxLength]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
