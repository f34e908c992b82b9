package strings

import "strings"

// TrimPrefixAll removes repeated prefixes.
//
//	TrimPrefixAll("///api", "/")  // -> "api"
//	TrimPrefixAll("api", "/")     // -> "api"
func TrimPrefixAll(s, prefix string) string {
	if prefix == "" {
		return s
	}
	for strings.HasPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	return s
}

// SuppySuffix appends suffix unless text has it already.
func SuppySuffix(text, suffix string) string {
	if strings.HasSuffix(text, suffix) {
		return text
	}
	return text + suffix
}

// like strings.Split(s, sep), but return empty slice when s == ""
func SplitIfNotEmpty(s string, sep string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, sep)
}
