package util

import "strings"

// ContactSlug turns a contact address into a filename-safe slug.
// Empty input yields "anonymous".
func ContactSlug(contact string) string {
	s := strings.TrimSpace(contact)
	if s == "" || strings.Contains(s, "..") {
		return "anonymous"
	}
	s = strings.ReplaceAll(s, "@", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, " ", "-")
	return s
}
