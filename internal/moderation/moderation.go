// Package moderation flags and cleans user submitted text.
package moderation

import (
	"html"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/microcosm-cc/bluemonday"
)

// Classifier flags profane text. The flag is stored next to the text; nothing is rejected.
type Classifier struct {
	detector *goaway.ProfanityDetector
}

func NewClassifier() *Classifier {
	return &Classifier{detector: goaway.NewProfanityDetector()}
}

func (c *Classifier) IsProfane(text string) bool {
	return c.detector.IsProfane(text)
}

// Sanitizer strips all markup from submitted text and keeps it as plain
// characters. Markdown survives; it only becomes HTML when rendered.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *Sanitizer) Sanitize(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}
