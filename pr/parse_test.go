package pr

import (
	"testing"

	"github.com/drydock-io/refit"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{name: "https with .git", url: "https://github.com/owner/repo.git", wantOwner: "owner", wantName: "repo"},
		{name: "https bare", url: "https://github.com/owner/repo", wantOwner: "owner", wantName: "repo"},
		{name: "http", url: "http://ghe.internal/team/service", wantOwner: "team", wantName: "service"},
		{name: "ssh shorthand", url: "git@github.com:owner/repo.git", wantOwner: "owner", wantName: "repo"},
		{name: "trailing slash", url: "https://github.com/owner/repo/", wantOwner: "owner", wantName: "repo"},
		{name: "missing repo", url: "https://github.com/owner", wantErr: true},
		{name: "extra segments", url: "https://github.com/a/b/c", wantErr: true},
		{name: "ssh without colon", url: "git@github.com", wantErr: true},
		{name: "unsupported scheme", url: "ftp://github.com/owner/repo", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRepoURL(%q) succeeded, want error", tt.url)
				}
				if !refit.IsValidation(err) {
					t.Errorf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepoURL(%q): %v", tt.url, err)
			}
			if owner != tt.wantOwner || name != tt.wantName {
				t.Errorf("ParseRepoURL(%q) = (%q, %q), want (%q, %q)",
					tt.url, owner, name, tt.wantOwner, tt.wantName)
			}
		})
	}
}
