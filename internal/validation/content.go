// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Words that are rejected anywhere in user content, case-insensitively.
var bannedWords = []string{
	"死ね",
	"殺す",
	"バカ",
	"アホ",
}

// Patterns counted toward the spam score. Three or more distinct hits
// reject the content.
var spamPatterns = []string{
	"http://",
	"https://",
	"www.",
	".com",
	"儲かる",
	"稼げる",
	"クリック",
	"今すぐ",
}

const spamThreshold = 3

var (
	phoneRegex  = regexp.MustCompile(`\b\d{3}-\d{4}-\d{4}\b`)
	emailRegex  = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	postalRegex = regexp.MustCompile(`\b\d{3}-\d{4}\b`)
)

// ContentValidator screens user-submitted text before it is persisted.
// It is stateless and safe for concurrent use.
type ContentValidator struct {
	maxLength int
}

// NewContentValidator returns a validator enforcing the given maximum
// length in runes.
func NewContentValidator(maxLength int) *ContentValidator {
	return &ContentValidator{maxLength: maxLength}
}

// Validate checks text against every screening rule and returns the
// first failure. Rules: non-blank, length limit, banned words, spam
// score, personal information shapes.
func (v *ContentValidator) Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("content cannot be blank")
	}

	if utf8.RuneCountInString(text) > v.maxLength {
		return fmt.Errorf("content must not exceed %d characters", v.maxLength)
	}

	lowered := strings.ToLower(text)

	for _, w := range bannedWords {
		if strings.Contains(lowered, strings.ToLower(w)) {
			return fmt.Errorf("content contains prohibited language")
		}
	}

	hits := 0
	for _, p := range spamPatterns {
		if strings.Contains(lowered, strings.ToLower(p)) {
			hits++
		}
	}
	if hits >= spamThreshold {
		return fmt.Errorf("content looks like spam")
	}

	if phoneRegex.MatchString(text) || emailRegex.MatchString(text) || postalRegex.MatchString(text) {
		return fmt.Errorf("content appears to contain personal information")
	}

	return nil
}
