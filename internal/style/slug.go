package style

import "strings"

// Slugify lower-cases text, collapses every run of characters outside
// [a-z0-9] into a single hyphen and trims hyphens from both ends.
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingHyphen := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
