// Package url resolves URLs handed to windows.create by extensions.
package url

import (
	"net/url"
	"strings"
)

// Resolve joins a hostless reference onto base. References with a host,
// opaque URLs such as about:blank and anything resolved against an empty
// base are returned unchanged. Query and fragment of the reference are kept.
func Resolve(base, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if !Hostless(ref) || base == "" {
		return raw, nil
	}
	b, err := url.Parse(EnsureTrailingSlash(base))
	if err != nil {
		return "", err
	}
	out := b.JoinPath(ref.Path)
	out.RawQuery = ref.RawQuery
	out.Fragment = ref.Fragment
	return out.String(), nil
}

// Hostless reports whether u must be resolved against an extension base:
// no host and not opaque. Both "popup.html" and "file:///x.html" qualify.
func Hostless(u *url.URL) bool {
	return u.Host == "" && u.Opaque == ""
}

// EnsureTrailingSlash appends "/" to s unless it already ends with one.
func EnsureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
