package jar

import (
	"fmt"
	"net/url"
	"strings"
)

// domainWalk returns host followed by each parent domain obtained by
// stripping the leftmost label: a.b.example.com, b.example.com,
// example.com, com.
func domainWalk(host string) []string {
	walk := []string{host}
	for {
		_, rest, found := strings.Cut(host, ".")
		if !found {
			return walk
		}
		host = rest
		walk = append(walk, host)
	}
}

// CookiesForURL returns the unexpired cookies that apply to rawURL. A cookie
// applies when its domain is the URL host or one of its parents (naive suffix
// walk) and its path is "/" or a prefix of the URL path. Results are ordered
// by the domain walk, then by insertion order within each domain.
func (j *Jar) CookiesForURL(rawURL string) ([]URLCookie, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	var out []URLCookie
	for _, d := range domainWalk(u.Hostname()) {
		tbl := j.table(d, false)
		if tbl == nil {
			continue
		}
		for _, name := range tbl.keys {
			c, _ := tbl.Get(name)
			if c.Path != "/" && !strings.HasPrefix(u.Path, c.Path) {
				continue
			}
			if c.expired(now) {
				continue
			}
			v, err := j.codec.Open(c.Value)
			if err != nil {
				return nil, fmt.Errorf("open cookie %q: %w", name, err)
			}
			out = append(out, URLCookie{Name: name, Value: v, Domain: d, Path: c.Path})
		}
	}
	return out, nil
}

// CookieHeaderFor builds the Cookie request header value for rawURL.
// Format: "name1=val1; name2=val2".
func (j *Jar) CookieHeaderFor(rawURL string) (string, error) {
	cookies, err := j.CookiesForURL(rawURL)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.Name + "=" + c.Value
	}
	return strings.Join(parts, "; "), nil
}
