package jar

import "strings"

// IsThirdParty reports whether a cookie of cookieDomain is third-party for a
// request to requestDomain.
func IsThirdParty(cookieDomain, requestDomain string) bool {
	return !(cookieDomain == requestDomain || strings.HasSuffix(requestDomain, "."+cookieDomain))
}

// ApplyPolicy enforces p on the stored cookies. BlockAll empties the jar.
// BlockThirdParty drops every domain judged third-party; the check compares
// each domain with itself because no request domain is known here, so it
// currently drops nothing. A policy with no flag set is logged as a
// configuration warning.
func (j *Jar) ApplyPolicy(p Policy) {
	j.mu.Lock()
	defer j.mu.Unlock()

	switch {
	case p.BlockAll:
		j.domains.Clear()
		j.log.Info("all cookies blocked as per policy")
	case p.BlockThirdParty:
		for _, d := range j.domains.Keys() {
			if IsThirdParty(d, d) {
				j.domains.Delete(d)
				j.log.Info("third-party cookies for domain %q blocked as per policy", d)
			}
		}
	case !p.AcceptAll:
		j.log.Warning("invalid cookie policy configuration")
	}
}

// CleanupExpiredCookies removes every expired cookie and then every domain
// left without cookies. It returns the number of cookies removed.
func (j *Jar) CleanupExpiredCookies() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	removed := 0
	for _, d := range j.domains.Keys() {
		tbl, _ := j.domains.Get(d)
		for _, name := range tbl.Keys() {
			c, _ := tbl.Get(name)
			if c.expired(now) {
				tbl.Delete(name)
				removed++
				j.log.Info("expired cookie %q removed for domain %q", name, d)
			}
		}
		if tbl.Len() == 0 {
			j.domains.Delete(d)
			j.log.Info("empty domain %q removed from cookie jar", d)
		}
	}
	return removed
}

// Stats summarises the jar.
func (j *Jar) Stats() Stats {
	j.mu.Lock()
	defer j.mu.Unlock()

	var s Stats
	s.TotalDomains = j.domains.Len()
	for _, d := range j.domains.keys {
		tbl, _ := j.domains.Get(d)
		s.TotalCookies += tbl.Len()
	}
	if s.TotalDomains > 0 {
		s.AvgCookiesPerDomain = s.TotalCookies / s.TotalDomains
	}
	return s
}
