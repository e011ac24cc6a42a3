package core

import (
	"regexp"
	"strings"
)

// filenamePatterns maps filename shapes that identify a document type on
// their own. A hit here resolves the attachment without touching its bytes.
var filenamePatterns = []struct {
	pattern *regexp.Regexp
	tag     string
}{
	{regexp.MustCompile(`(?i)^(?:foto[- ]?3x4|foto|3x4)\.(?:png|jpe?g)$`), TagFoto3x4},
}

// MatchFilename reports the tag implied by the attachment filename alone.
// Matching is case-insensitive and ignores surrounding whitespace.
func MatchFilename(filename string) (string, bool) {
	name := strings.TrimSpace(filename)
	for _, p := range filenamePatterns {
		if p.pattern.MatchString(name) {
			return p.tag, true
		}
	}
	return "", false
}
