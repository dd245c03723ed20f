package repo

import "strings"

// ParseGitHub extracts owner and repository name from a GitHub remote URL.
// It returns "", "" for any other URL.
func ParseGitHub(url string) (owner, name string) {
	var path string
	switch {
	case strings.HasPrefix(url, "https://github.com/"):
		path = url[len("https://github.com/"):]
	case strings.HasPrefix(url, "git@github.com:"):
		path = url[len("git@github.com:"):]
	case strings.HasPrefix(url, "ssh://git@github.com/"):
		path = url[len("ssh://git@github.com/"):]
	default:
		return "", ""
	}
	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", ""
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git")
}

// GitHubSlug is "owner/name" for a GitHub origin, else "".
func (i *Info) GitHubSlug() string {
	owner, name := ParseGitHub(i.RemoteURL)
	if owner == "" {
		return ""
	}
	return owner + "/" + name
}
