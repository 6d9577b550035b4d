package ai

import (
	"regexp"
	"strings"
)

var (
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	jsonArrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// stripCodeFences removes markdown code fence wrapping that models add
// despite being asked for raw JSON.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

// ExtractJSONObject locates the first JSON object in a semi-structured
// model response. Returns false when no object is present.
func ExtractJSONObject(text string) (string, bool) {
	cleaned := stripCodeFences(text)
	match := jsonObjectPattern.FindString(cleaned)
	if match == "" {
		return "", false
	}
	return match, true
}

// ExtractJSONArray locates the first JSON array in a semi-structured
// model response. Returns false when no array is present.
func ExtractJSONArray(text string) (string, bool) {
	cleaned := stripCodeFences(text)
	match := jsonArrayPattern.FindString(cleaned)
	if match == "" {
		return "", false
	}
	return match, true
}
