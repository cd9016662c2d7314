package utils

import "strings"

// NormalizeHandle cleans up a username typed by a user: surrounding
// whitespace and a leading @ are dropped, Telegram usernames are
// case-insensitive so they are stored lowercased.
func NormalizeHandle(raw string) string {
	handle := strings.TrimSpace(raw)
	handle = strings.TrimPrefix(handle, "@")
	return strings.ToLower(handle)
}
