// Package links extracts and dissects URLs embedded in message text.
//
// Extraction is deliberately permissive: scam links are usually pasted bare
// ("bit.ly/win") rather than as well-formed URLs, so the pattern accepts
// scheme-less and www-less forms. Callers that already carry pre-extracted
// links can skip Extract and use the host helpers directly.
package links

import (
	"net"
	"regexp"
	"strings"
	"unicode"
)

// Precompiled patterns (compiled once at package init for performance)
var (
	reURL = regexp.MustCompile(`(?:https?://)?(?:www\.)?[\w.-]+\.[a-zA-Z]{2,}(?:[/\w.\-?=&%#]*)?`)
)

// Extract returns every distinct URL-looking token in text, in order of first
// appearance. Trailing sentence punctuation is stripped from each match.
func Extract(text string) []string {
	raw := reURL.FindAllString(text, -1)
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, m := range raw {
		m = strings.TrimRightFunc(m, func(r rune) bool {
			return r == '.' || r == ',' || r == ';' || r == ':' || r == ')' || r == '!' || r == '?'
		})
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Host isolates the lowercased host portion of a link: scheme, www prefix,
// port, path and query are all stripped.
func Host(link string) string {
	h := strings.ToLower(strings.TrimSpace(link))
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(h, scheme) {
			h = h[len(scheme):]
			break
		}
	}
	h = strings.TrimPrefix(h, "www.")
	if i := strings.IndexAny(h, "/?#"); i >= 0 {
		h = h[:i]
	}
	// Bracketed IPv6 hosts keep their colons; everything else loses the port.
	if strings.HasPrefix(h, "[") {
		if i := strings.Index(h, "]"); i >= 0 {
			h = h[1:i]
		}
	} else if i := strings.LastIndex(h, ":"); i >= 0 {
		h = h[:i]
	}
	return strings.TrimSuffix(h, ".")
}

// IsIPHost reports whether host is a raw IPv4 or IPv6 address.
func IsIPHost(host string) bool {
	return net.ParseIP(host) != nil
}

// DigitCount returns the number of decimal digits in s.
func DigitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// MatchesDomain reports whether host is domain itself or a subdomain of it.
func MatchesDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// HasSuffixAny reports whether host ends with any of the given suffixes.
// Suffixes are expected to include their leading dot (".tk", ".xyz").
func HasSuffixAny(host string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	return false
}
