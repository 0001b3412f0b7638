package gateway

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
)

// Chat-mode content is either a plain string or an array of typed blocks
// depending on the model; both shapes appear in the wild.

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// contentText flattens a message content field into plain text. Block arrays
// have their text blocks concatenated; unknown shapes yield "".
func contentText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var s string
	if err := sonic.Unmarshal(content, &s); err == nil {
		return s
	}

	var blocks []orContentBlock
	if err := sonic.Unmarshal(content, &blocks); err != nil {
		return ""
	}

	var sb strings.Builder
	for _, b := range blocks {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// extractImageURL pulls an image URL out of a chat-mode generation reply.
// Structured image_url blocks win; otherwise the first bare URL in the text
// is used.
func extractImageURL(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var blocks []orContentBlock
	if err := sonic.Unmarshal(content, &blocks); err == nil {
		for _, b := range blocks {
			if b.Type == "image_url" && b.ImageURL != nil && b.ImageURL.URL != "" {
				return b.ImageURL.URL
			}
		}
		for _, b := range blocks {
			if b.Type == "text" {
				if url := urlPattern.FindString(b.Text); url != "" {
					return url
				}
			}
		}
		return ""
	}

	var s string
	if err := sonic.Unmarshal(content, &s); err == nil {
		return urlPattern.FindString(s)
	}
	return ""
}

// rawString renders an error code that may arrive as a JSON string or number.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := sonic.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}
