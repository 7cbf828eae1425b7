package git

import "strings"

// InjectCredentials inserts "username:token@" into an https URL that does
// not already embed credentials. URLs with embedded credentials, non-https
// URLs (including SSH shorthand), and calls without a token are returned
// unchanged, which also makes the transform idempotent.
func InjectCredentials(rawURL, username, token string) string {
	if token == "" {
		return rawURL
	}
	rest, ok := strings.CutPrefix(rawURL, "https://")
	if !ok {
		return rawURL
	}
	if strings.Contains(rest, "@") {
		return rawURL
	}
	return "https://" + username + ":" + token + "@" + rest
}
