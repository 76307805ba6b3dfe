package jar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// cookieRecord is the serialized form of a Cookie. Value is kept sealed.
type cookieRecord struct {
	Value    *string    `json:"value"`
	Path     string     `json:"path"`
	Secure   bool       `json:"secure"`
	HttpOnly bool       `json:"http_only"`
	Expires  *time.Time `json:"expires,omitempty"`
}

type stagedDomain struct {
	domain  string
	cookies []*Cookie
}

// Serialize encodes the jar as indented JSON:
//
//	{"example.com": {"sid": {"value": "...", "path": "/", "secure": false,
//	 "http_only": false, "expires": "2030-01-01T00:00:00Z"}}}
//
// Domains and cookies appear in insertion order. Values are written in their
// sealed form, so a jar with an encrypting codec serializes ciphertext.
func (j *Jar) Serialize() ([]byte, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range j.domains.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, d); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		tbl, _ := j.domains.Get(d)
		for k, name := range tbl.keys {
			if k > 0 {
				buf.WriteByte(',')
			}
			c, _ := tbl.Get(name)
			if err := writeKey(&buf, name); err != nil {
				return nil, err
			}
			rec := cookieRecord{
				Value:    &c.Value,
				Path:     c.Path,
				Secure:   c.Secure,
				HttpOnly: c.HttpOnly,
			}
			if !c.Expires.IsZero() {
				exp := c.Expires
				rec.Expires = &exp
			}
			raw, err := json.Marshal(rec)
			if err != nil {
				return nil, fmt.Errorf("encode cookie %q: %w", name, err)
			}
			buf.Write(raw)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	raw, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(raw)
	buf.WriteByte(':')
	return nil
}

// Deserialize merges a jar produced by Serialize into j: new domains are
// appended, existing cookies with the same name are replaced. The input is
// validated completely before anything is applied; on malformed input the
// error is logged, ErrMalformedJar is returned and the jar is unchanged.
// Cookies over the size limit, or new names beyond the per-domain limit, are
// logged and skipped.
func (j *Jar) Deserialize(data []byte) error {
	staged, err := parseJar(data)
	if err != nil {
		j.log.Error("error deserializing cookies: %v", err)
		return fmt.Errorf("%w: %v", ErrMalformedJar, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	staged, err = j.admit(staged)
	if err != nil {
		j.log.Error("error deserializing cookies: %v", err)
		return fmt.Errorf("%w: %w", ErrMalformedJar, err)
	}
	for _, sd := range staged {
		if len(sd.cookies) == 0 {
			continue
		}
		tbl := j.table(sd.domain, true)
		for _, c := range sd.cookies {
			tbl.Set(c.Name, c)
		}
	}
	j.log.Info("cookies successfully deserialized and loaded into the cookie jar")
	return nil
}

// admit applies the size and count limits to staged cookies, counting the
// names already stored for each domain. Overwrites of an existing name never
// count against the limit. The caller holds the lock.
func (j *Jar) admit(staged []stagedDomain) ([]stagedDomain, error) {
	out := make([]stagedDomain, 0, len(staged))
	for _, sd := range staged {
		tbl := j.table(sd.domain, false)
		count := 0
		if tbl != nil {
			count = tbl.Len()
		}
		added := make(map[string]bool)
		kept := sd.cookies[:0:0]
		for _, c := range sd.cookies {
			plain, err := j.codec.Open(c.Value)
			if err != nil {
				return nil, fmt.Errorf("domain %q: open cookie %q: %w", sd.domain, c.Name, err)
			}
			if len(c.Name)+len(plain) > j.maxCookieSize {
				j.log.Warning("cookie %q exceeds maximum size for domain %q, skipped", c.Name, sd.domain)
				continue
			}
			exists := added[c.Name]
			if !exists && tbl != nil {
				_, exists = tbl.Get(c.Name)
			}
			if !exists {
				if count >= j.maxPerDomain {
					j.log.Warning("maximum number of cookies reached for domain %q, cookie %q skipped", sd.domain, c.Name)
					continue
				}
				count++
				added[c.Name] = true
			}
			kept = append(kept, c)
		}
		out = append(out, stagedDomain{domain: sd.domain, cookies: kept})
	}
	return out, nil
}

// parseJar walks the document in order with gjson so that insertion order
// survives the round trip.
func parseJar(data []byte) ([]stagedDomain, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("expected a json object at top level")
	}

	var (
		staged []stagedDomain
		perr   error
	)
	root.ForEach(func(dk, dv gjson.Result) bool {
		if !dv.IsObject() {
			perr = fmt.Errorf("domain %q: expected an object", dk.String())
			return false
		}
		sd := stagedDomain{domain: dk.String()}
		dv.ForEach(func(ck, cv gjson.Result) bool {
			c, err := parseCookie(ck.String(), cv)
			if err != nil {
				perr = fmt.Errorf("domain %q: %w", sd.domain, err)
				return false
			}
			sd.cookies = append(sd.cookies, c)
			return true
		})
		if perr != nil {
			return false
		}
		staged = append(staged, sd)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return staged, nil
}

func parseCookie(name string, v gjson.Result) (*Cookie, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("cookie %q: expected an object", name)
	}
	var rec cookieRecord
	if err := json.Unmarshal([]byte(v.Raw), &rec); err != nil {
		return nil, fmt.Errorf("cookie %q: %w", name, err)
	}
	if rec.Value == nil {
		return nil, fmt.Errorf("cookie %q: missing value", name)
	}
	c := &Cookie{
		Name:     name,
		Value:    *rec.Value,
		Path:     rec.Path,
		Secure:   rec.Secure,
		HttpOnly: rec.HttpOnly,
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if rec.Expires != nil {
		c.Expires = *rec.Expires
	}
	return c, nil
}
