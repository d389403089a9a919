package agent

import "strings"

// routePrefixes in stripping order. Punctuated variants come first so
// "law:" is removed as a whole rather than leaving ":" behind.
var routePrefixes = []string{
	"law!", "procedure!", "general!",
	"law:", "procedure:", "general:",
	"law", "procedure", "general",
}

// CleanRoutePrefix strips echoed routing labels from the front of a
// generated answer. Models occasionally parrot the supervisor's verdict
// before the real response.
func CleanRoutePrefix(text string) string {
	for _, prefix := range routePrefixes {
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, prefix) {
			text = strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	return text
}
