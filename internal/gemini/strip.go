package gemini

import (
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("```json\n?|\n?```")

// StripFences removes markdown code fences the model tends to wrap JSON
// output in, despite being told not to.
func StripFences(text string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
}
