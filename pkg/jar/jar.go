package jar

import (
	"fmt"
	"sync"
	"time"

	"github.com/TypeDummying/AIuminum/pkg/logger"
)

// Jar is the cookie store. All methods are safe for concurrent use; each
// public call holds the jar lock for its whole duration.
type Jar struct {
	mu      sync.Mutex
	domains *orderedMap[*orderedMap[*Cookie]]

	maxCookieSize int
	maxPerDomain  int
	codec         Codec
	log           logger.Logger
	now           func() time.Time
}

// New creates an empty jar.
func New(opts *Options) *Jar {
	if opts == nil {
		opts = &Options{}
	}
	j := &Jar{
		domains:       newOrderedMap[*orderedMap[*Cookie]](),
		maxCookieSize: opts.MaxCookieSize,
		maxPerDomain:  opts.MaxCookiesPerDomain,
		codec:         opts.Codec,
		log:           logger.OrNop(opts.Logger),
		now:           opts.Now,
	}
	if j.maxCookieSize <= 0 {
		j.maxCookieSize = DefaultMaxCookieSize
	}
	if j.maxPerDomain <= 0 {
		j.maxPerDomain = DefaultMaxCookiesPerDomain
	}
	if j.codec == nil {
		j.codec = PlainCodec{}
	}
	if j.now == nil {
		j.now = time.Now
	}
	return j
}

// table returns the cookie table of domain, creating it when create is set.
func (j *Jar) table(domain string, create bool) *orderedMap[*Cookie] {
	tbl, ok := j.domains.Get(domain)
	if !ok && create {
		tbl = newOrderedMap[*Cookie]()
		j.domains.Set(domain, tbl)
	}
	return tbl
}

// ValidateCookie reports whether a cookie may be stored for domain. It
// rejects cookies whose name and value together exceed the size limit, and
// any cookie for a domain whose table is already at capacity.
func (j *Jar) ValidateCookie(name, value, domain string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.validate(name, value, domain)
}

func (j *Jar) validate(name, value, domain string) bool {
	if len(name)+len(value) > j.maxCookieSize {
		j.log.Warning("cookie %q exceeds maximum size for domain %q", name, domain)
		return false
	}
	if tbl := j.table(domain, false); tbl != nil && tbl.Len() >= j.maxPerDomain {
		j.log.Warning("maximum number of cookies reached for domain %q", domain)
		return false
	}
	return true
}

// SetCookie stores a cookie for domain, replacing any cookie with the same
// name. It returns ErrCookieRejected, leaving the jar unchanged, when the
// cookie fails ValidateCookie.
func (j *Jar) SetCookie(name, value, domain string, opts *SetCookieOpts) error {
	if opts == nil {
		opts = &SetCookieOpts{}
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.validate(name, value, domain) {
		return ErrCookieRejected
	}
	var expires time.Time
	if opts.Expires != "" {
		t, err := time.Parse(ExpiresLayout, opts.Expires)
		if err != nil {
			j.log.Error("invalid expiration date format for cookie %q: %q", name, opts.Expires)
		} else {
			expires = t
		}
	}
	return j.store(domain, &Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		Secure:   opts.Secure,
		HttpOnly: opts.HttpOnly,
		Expires:  expires,
	})
}

// store seals c.Value and inserts c. The caller holds the lock and has
// validated the cookie.
func (j *Jar) store(domain string, c *Cookie) error {
	if c.Path == "" {
		c.Path = "/"
	}
	sealed, err := j.codec.Seal(c.Value)
	if err != nil {
		return fmt.Errorf("seal cookie %q: %w", c.Name, err)
	}
	c.Value = sealed
	j.table(domain, true).Set(c.Name, c)
	j.log.Debug("cookie %q set for domain %q", c.Name, domain)
	return nil
}

// GetCookie returns the value of the named cookie. An expired cookie is
// removed as a side effect and reported as absent. The error is non-nil only
// when the codec fails to open the stored value.
func (j *Jar) GetCookie(name, domain string) (string, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	tbl := j.table(domain, false)
	if tbl == nil {
		return "", false, nil
	}
	c, ok := tbl.Get(name)
	if !ok {
		return "", false, nil
	}
	if c.expired(j.now()) {
		tbl.Delete(name)
		j.log.Info("expired cookie %q removed for domain %q", name, domain)
		return "", false, nil
	}
	v, err := j.codec.Open(c.Value)
	if err != nil {
		return "", false, fmt.Errorf("open cookie %q: %w", name, err)
	}
	return v, true, nil
}

// DeleteCookie removes the named cookie if present.
func (j *Jar) DeleteCookie(name, domain string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if tbl := j.table(domain, false); tbl != nil {
		if _, ok := tbl.Get(name); ok {
			tbl.Delete(name)
			j.log.Info("cookie %q deleted for domain %q", name, domain)
		}
	}
}

// ClearCookies removes every cookie of domain, or the whole jar when domain
// is empty.
func (j *Jar) ClearCookies(domain string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if domain == "" {
		j.domains.Clear()
		j.log.Info("all cookies cleared from the cookie jar")
		return
	}
	if _, ok := j.domains.Get(domain); ok {
		j.domains.Delete(domain)
		j.log.Info("all cookies cleared for domain %q", domain)
	}
}

// Domains lists the domains holding a cookie table, in insertion order.
func (j *Jar) Domains() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.domains.Keys()
}

// Len returns the total number of stored cookies, expired ones included.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, d := range j.domains.keys {
		tbl, _ := j.domains.Get(d)
		n += tbl.Len()
	}
	return n
}

// Cookies returns copies of the cookies stored for domain with their values
// opened, in insertion order. Expired cookies are included.
func (j *Jar) Cookies(domain string) ([]Cookie, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	tbl := j.table(domain, false)
	if tbl == nil {
		return nil, nil
	}
	out := make([]Cookie, 0, tbl.Len())
	for _, name := range tbl.keys {
		c, _ := tbl.Get(name)
		v, err := j.codec.Open(c.Value)
		if err != nil {
			return nil, fmt.Errorf("open cookie %q: %w", name, err)
		}
		cp := *c
		cp.Value = v
		out = append(out, cp)
	}
	return out, nil
}
