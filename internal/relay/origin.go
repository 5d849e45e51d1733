package relay

import "strings"

// NormalizeOrigin strips trailing slashes so "https://a.test/" and
// "https://a.test" build the same links and dedup keys.
func NormalizeOrigin(server string) string {
	return strings.TrimRight(server, "/")
}
