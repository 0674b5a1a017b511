// Package hostkey derives the canonical host key shared by the blocked-site
// registry, the whitelist and the badge countdown.
package hostkey

import (
	"regexp"
	"strings"
)

// schemePrefix matches "scheme://" at the start of a URL.
var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// validHost matches a lowercased hostname with an optional numeric port.
var validHost = regexp.MustCompile(`^[a-z0-9_]([a-z0-9_.-]*[a-z0-9_])?(:[0-9]+)?$`)

// Canonical returns the canonical host key for a URL or bare domain:
// scheme, userinfo, path, query and fragment removed, lowercased, and
// every leading "www." stripped. The port is kept. Inputs that carry no usable
// host (about:blank, empty strings) return "".
func Canonical(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = schemePrefix.ReplaceAllString(s, "")

	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}

	s = strings.ToLower(s)
	s = strings.TrimSuffix(s, ".")
	for strings.HasPrefix(s, "www.") {
		s = s[len("www."):]
	}

	if !validHost.MatchString(s) {
		return ""
	}
	return s
}

// FirstOf returns the canonical key of the first URL in urls, mirroring a
// tab query that returns the active tab first. Empty input returns "".
func FirstOf(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return Canonical(urls[0])
}
