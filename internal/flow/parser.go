package flow

import (
	"regexp"
	"strings"
)

// numberedItemPattern matches the "1. " / "1) " markers of a numbered list.
var numberedItemPattern = regexp.MustCompile(`\d+[.)]\s+`)

// ParseNumberedList extracts the items of a numbered list from free-form
// model output. The text is split on numbered markers and the fragment before
// the first marker is discarded. Returns nil when no items can be parsed;
// callers are expected to substitute their own fallback.
func ParseNumberedList(content string) []string {
	parts := numberedItemPattern.Split(content, -1)
	if len(parts) < 2 {
		return nil
	}

	var items []string
	for _, part := range parts[1:] {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// FallbackFollowupQuestions is used whenever follow-up parsing yields nothing
// usable.
var FallbackFollowupQuestions = []string{
	"What are the common symptoms of diabetes?",
	"How can I monitor my blood sugar at home?",
	"What lifestyle changes can help manage diabetes?",
}
