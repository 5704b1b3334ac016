package crawl

import (
	"net/url"
	"strings"
)

// NormalizeBase canonicalizes a user-supplied origin: missing schemes get
// https, one trailing slash is dropped. No further validation happens
// here; a hostname that cannot be fetched fails at fetch time instead.
func NormalizeBase(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return strings.TrimSuffix(raw, "/")
}

// SameDomain reports whether candidate and base share a host, treating a
// leading www. as noise on either side. Subdomains are distinct domains;
// the scheme is ignored entirely.
func SameDomain(candidate, base string) bool {
	return hostKey(candidate) != "" && hostKey(candidate) == hostKey(base)
}

func hostKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}
