package jar

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ParseCookieString splits a raw Cookie header ("a=1; b; c=") into a map.
// Segments are split on the first '='; a segment without '=' maps to nil,
// which is distinct from a pointer to the empty string. Percent-escapes in
// values are decoded; an invalid escape is logged and the raw value kept.
// Empty segments are skipped. ParseCookieString never fails.
func (j *Jar) ParseCookieString(raw string) map[string]*string {
	out := make(map[string]*string)
	for _, seg := range strings.Split(raw, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		key, value, found := strings.Cut(seg, "=")
		key = strings.TrimSpace(key)
		if !found {
			out[key] = nil
			continue
		}
		v := j.unescape(key, strings.TrimSpace(value))
		out[key] = &v
	}
	return out
}

func (j *Jar) unescape(name, value string) string {
	v, err := url.PathUnescape(value)
	if err != nil {
		j.log.Warning("error parsing value of cookie %q: %v", name, err)
		return value
	}
	return v
}

// HandleSetCookieHeader stores the cookie described by a Set-Cookie header
// value received from domain. The first segment must be "name=value",
// otherwise the header is ignored. Attribute names are matched
// case-insensitively: Secure, HttpOnly, Expires, Max-Age, Domain and Path.
// Max-Age is converted to an absolute expiry; when both Expires and Max-Age
// are given, the later one wins. Malformed Expires or Max-Age values are
// logged and ignored. Domain and Path override the defaults (domain and "/").
// A leading dot on Domain is dropped, as Import does. Max-Age is clamped to
// the range of time.Duration.
//
// The returned error is ErrCookieRejected when the cookie fails
// ValidateCookie, or a codec error; malformed headers return nil.
func (j *Jar) HandleSetCookieHeader(header, domain string) error {
	parts := strings.Split(header, ";")
	name, value, found := strings.Cut(strings.TrimSpace(parts[0]), "=")
	if !found {
		j.log.Debug("ignoring Set-Cookie header without name=value pair")
		return nil
	}
	name = strings.TrimSpace(name)
	value = j.unescape(name, strings.TrimSpace(value))

	c := &Cookie{Name: name, Value: value, Path: "/"}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		attr, val, _ := strings.Cut(part, "=")
		switch strings.ToLower(attr) {
		case "secure":
			c.Secure = true
		case "httponly":
			c.HttpOnly = true
		case "expires":
			t, err := time.Parse(ExpiresLayout, val)
			if err != nil {
				j.log.Warning("invalid expires date in Set-Cookie header: %q", val)
				continue
			}
			c.Expires = t
		case "max-age":
			secs, err := strconv.Atoi(val)
			if err != nil {
				j.log.Warning("invalid max-age in Set-Cookie header: %q", part)
				continue
			}
			c.Expires = j.now().UTC().Add(time.Duration(clampMaxAge(secs)) * time.Second)
		case "domain":
			if d := strings.TrimPrefix(strings.ToLower(val), "."); d != "" {
				domain = d
			}
		case "path":
			c.Path = val
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.validate(c.Name, c.Value, domain) {
		return ErrCookieRejected
	}
	return j.store(domain, c)
}

// maxAgeLimit is the largest Max-Age in seconds that fits a time.Duration.
const maxAgeLimit = math.MaxInt64 / int64(time.Second)

func clampMaxAge(secs int) int64 {
	switch s := int64(secs); {
	case s > maxAgeLimit:
		return maxAgeLimit
	case s < -maxAgeLimit:
		return -maxAgeLimit
	default:
		return s
	}
}
