package catalog

import "strings"

// NormalizeTag lowercases a tag and strips one trailing plural 's', leaving
// single letters and "-ss" words ("glass") alone. It is idempotent and is
// used wherever tags are compared.
func NormalizeTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if len(t) > 1 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss") {
		t = t[:len(t)-1]
	}
	return t
}
