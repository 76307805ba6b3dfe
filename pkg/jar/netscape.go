package jar

import (
	"context"
	"fmt"
	"strings"

	"github.com/TypeDummying/AIuminum/internal/cookies"
)

// ExportNetscape writes every stored cookie to path in the Netscape cookie
// file format, one line per cookie in jar order. Cookies without an expiry
// are written with a far-future epoch.
func (j *Jar) ExportNetscape(ctx context.Context, path string) error {
	records, err := j.records()
	if err != nil {
		return err
	}
	if err := cookies.WriteNetscape(ctx, path, records); err != nil {
		return err
	}
	j.log.Info("exported %d cookies in Netscape format", len(records))
	return nil
}

func (j *Jar) records() ([]cookies.Cookie, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []cookies.Cookie
	for _, d := range j.domains.keys {
		tbl, _ := j.domains.Get(d)
		for _, name := range tbl.keys {
			c, _ := tbl.Get(name)
			v, err := j.codec.Open(c.Value)
			if err != nil {
				return nil, fmt.Errorf("open cookie %q: %w", name, err)
			}
			out = append(out, cookies.Cookie{
				Name:     name,
				Value:    v,
				Domain:   d,
				Path:     c.Path,
				Expiry:   c.Expires,
				Secure:   c.Secure,
				HttpOnly: c.HttpOnly,
			})
		}
	}
	return out, nil
}

// Import stores cookies read from a browser cookie store. A leading dot on
// the record domain is dropped since parent domains are matched by the
// domain walk anyway. Expired records and records rejected by the size or
// count policy are skipped. It returns the number of cookies stored.
func (j *Jar) Import(records []cookies.Cookie) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	n := 0
	for _, r := range records {
		c := &Cookie{
			Name:     r.Name,
			Value:    r.Value,
			Path:     r.Path,
			Secure:   r.Secure,
			HttpOnly: r.HttpOnly,
		}
		if r.Expiry.Unix() > 0 && r.Expiry.Unix() < cookies.NoExpiryEpoch {
			c.Expires = r.Expiry.UTC()
		}
		if c.expired(now) {
			continue
		}
		domain := strings.TrimPrefix(r.Domain, ".")
		if !j.validate(c.Name, c.Value, domain) {
			continue
		}
		if err := j.store(domain, c); err != nil {
			return n, err
		}
		n++
	}
	j.log.Info("imported %d of %d cookies", n, len(records))
	return n, nil
}
