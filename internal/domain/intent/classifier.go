// Package intent decides whether a chat message is asking for an image to be
// generated. The classifier is an interface so the keyword heuristic can be
// swapped for a model-backed one without touching the orchestration layer.
package intent

import "strings"

// Classifier reports whether a message expresses image-generation intent.
type Classifier interface {
	WantsImage(message string) bool
}

// Keyword is a case-insensitive substring matcher. It is deliberately simple
// and negation-blind: "don't create an image" still matches. A false positive
// only costs a best-effort generation attempt.
type Keyword struct {
	keywords []string
}

// NewKeyword creates the default keyword classifier.
func NewKeyword() *Keyword {
	return &Keyword{
		keywords: []string{"generate", "create", "image", "picture", "make", "design"},
	}
}

// WantsImage reports whether any trigger keyword occurs in the message.
func (k *Keyword) WantsImage(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range k.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MentionsImage reports whether the message already names an image explicitly.
// Used when building generation prompts: messages that never say "image" or
// "picture" get a framing prefix so the image model has a subject.
func MentionsImage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "image") || strings.Contains(lower, "picture")
}
