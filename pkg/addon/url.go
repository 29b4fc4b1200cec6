package addon

import (
	"net/url"
	"strings"
)

// normalizeURL reduces a git remote to host/path so that the SSH and HTTPS
// spellings of the same repository compare equal. Hosts are case-folded,
// paths are not.
//
//   - https://github.com/org/repo.git → github.com/org/repo
//   - git@github.com:org/repo        → github.com/org/repo
//   - ssh://git@github.com/org/repo  → github.com/org/repo
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSuffix(strings.TrimSpace(rawURL), "/")
	rawURL = strings.TrimSuffix(rawURL, ".git")

	// scp-like syntax: user@host:path
	if strings.Contains(rawURL, "@") && strings.Contains(rawURL, ":") && !strings.Contains(rawURL, "://") {
		hostPath := strings.SplitN(rawURL, "@", 2)[1]
		host, path, _ := strings.Cut(hostPath, ":")
		return strings.ToLower(host) + "/" + strings.Trim(path, "/")
	}

	parsed, err := url.Parse(rawURL)
	if err == nil && parsed.Host != "" {
		switch parsed.Scheme {
		case "http", "https", "ssh", "git":
			return strings.ToLower(parsed.Hostname()) + strings.TrimSuffix(parsed.Path, "/")
		}
	}

	return rawURL
}
