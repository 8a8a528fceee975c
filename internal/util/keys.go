package util

import "strings"

// Namespaced prefixes key with "ns:". An empty namespace leaves key untouched.
func Namespaced(ns, key string) string {
	if ns == "" {
		return key
	}
	return ns + ":" + key
}

// EscapeGlob quotes the glob metacharacters understood by Redis MATCH
// (* ? [ ] \) so s matches only itself.
func EscapeGlob(s string) string {
	if !strings.ContainsAny(s, `*?[]\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NamespacedPattern scopes a caller glob to ns. The namespace is escaped, the
// pattern is not.
func NamespacedPattern(ns, pattern string) string {
	if ns == "" {
		return pattern
	}
	return EscapeGlob(ns) + ":" + pattern
}
