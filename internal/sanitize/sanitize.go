// Package sanitize cleans user-generated content before it is stored.
// Uses bluemonday to strip dangerous HTML (script tags, event handlers,
// javascript: URLs) so profile text is safe to render anywhere later.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy strips all markup -- profile text is plain text, not rich content.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all HTML from user-supplied text and trims surrounding
// whitespace. Must be called on profile text before it reaches the database.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(input))
}
