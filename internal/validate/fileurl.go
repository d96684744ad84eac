package validate

import (
	"net"
	"net/url"
	"strings"
)

// Storage domains whose files the gateway is willing to fetch. Everything
// else is refused before a request leaves the process (SSRF defense).
var allowedHostSuffixes = []string{
	".blob.core.windows.net",
	".s3.amazonaws.com",
	".storage.googleapis.com",
}

// Hosts allowed for local development.
var allowedDevHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
}

// IsValidFileURL reports whether a file reference may be fetched. Only
// http(s) URLs pointing at a known storage domain or localhost pass; private
// IPs, other schemes, and anything unparsable are rejected.
func IsValidFileURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := u.Hostname()
	if host == "" {
		return false
	}
	if allowedDevHosts[strings.ToLower(host)] {
		return true
	}

	// Bare IPs are never storage domains; this also covers private ranges.
	if net.ParseIP(host) != nil {
		return false
	}

	lower := strings.ToLower(host)
	for _, suffix := range allowedHostSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
