package tablestore

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoint is a parsed service address: scheme, host, port.
type Endpoint struct {
	Scheme string // "http" or "https"
	Host   string
	Port   int
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s:%d", e.Scheme, e.Host, e.Port)
}

// ParseEndpoint accepts "[http(s)://]host[:port][/]" per spec.md §6,
// defaulting scheme to http and port to 80/443. It rejects unknown
// schemes, an empty host, or any stray path component.
func ParseEndpoint(raw string) (Endpoint, error) {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return Endpoint{}, newClientError("", "malformed endpoint %q: %v", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return Endpoint{}, newClientError("", "unknown endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Endpoint{}, newClientError("", "endpoint %q has no host", raw)
	}
	if path := strings.Trim(u.Path, "/"); path != "" {
		return Endpoint{}, newClientError("", "endpoint %q has a stray path component %q", raw, u.Path)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return Endpoint{}, newClientError("", "endpoint %q has a stray query or fragment", raw)
	}

	host := u.Hostname()
	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &port); err != nil {
			return Endpoint{}, newClientError("", "endpoint %q has a malformed port %q", raw, p)
		}
	}
	return Endpoint{Scheme: u.Scheme, Host: host, Port: port}, nil
}
