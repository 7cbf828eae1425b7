// Package pr is the primary-host transport: it opens pull requests against
// the canonical repository via the GitHub REST API.
//
// Core pieces:
//   - GitHubClient: implements refit.HostClient using go-github with an
//     oauth2 static token source; non-2xx responses map to
//     refit.TransportError carrying status and body
//   - ParseRepoURL: extracts owner/name from the three supported remote URL
//     forms (https, http, SSH shorthand)
//
// The mock counterpart lives in the root package as refit.MockHostClient.
package pr
