package pr

import (
	"strings"

	"github.com/drydock-io/refit"
)

// ParseRepoURL extracts the owner and repository name from the three common
// remote URL forms:
//
//	https://host/owner/repo[.git]
//	http://host/owner/repo
//	git@host:owner/repo[.git]
//
// Anything else is rejected with a validation error.
func ParseRepoURL(rawURL string) (owner, name string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(rawURL), ".git")

	// SSH shorthand: git@host:owner/repo
	if strings.HasPrefix(trimmed, "git@") {
		_, path, ok := strings.Cut(trimmed, ":")
		if !ok {
			return "", "", refit.Validationf("unsupported repo url: %s", rawURL)
		}
		return splitOwnerRepo(rawURL, path)
	}

	rest, ok := strings.CutPrefix(trimmed, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(trimmed, "http://")
	}
	if !ok {
		return "", "", refit.Validationf("unsupported repo url: %s", rawURL)
	}

	// rest is host/owner/repo
	_, path, ok := strings.Cut(rest, "/")
	if !ok {
		return "", "", refit.Validationf("unsupported repo url: %s", rawURL)
	}
	return splitOwnerRepo(rawURL, path)
}

func splitOwnerRepo(rawURL, path string) (string, string, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", refit.Validationf("unsupported repo url: %s", rawURL)
	}
	return parts[0], parts[1], nil
}
