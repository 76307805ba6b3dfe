package cookies

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// NetscapeHeader is the first line of a Netscape cookie file.
	NetscapeHeader = "# Netscape HTTP Cookie File"

	// NoExpiryEpoch is written for cookies without an expiry:
	// 9999-12-31T23:59:59Z.
	NoExpiryEpoch int64 = 253402300799
)

// ParseNetscape reads cookies from a Netscape-format cookie text file.
// When domain is non-empty only cookies for domain or its subdomains are
// returned. Lines starting with # are skipped, except #HttpOnly_ which sets
// the HttpOnly flag. Malformed lines are skipped with a warning log.
func ParseNetscape(filePath string, domain string) ([]Cookie, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open Netscape cookie file: %w", err)
	}
	defer f.Close()

	now := time.Now()
	var cookies []Cookie

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, "#HttpOnly_") {
			httpOnly = true
			line = line[len("#HttpOnly_"):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			log.Printf("warning: skipping malformed Netscape cookie line for %q", fields[0])
			continue
		}

		// fields[1] is the subdomain flag, implied by the domain walk
		cookieDomain := fields[0]
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			log.Printf("warning: skipping cookie with invalid expiry: %q", fields[4])
			continue
		}
		if domain != "" && !matchesDomain(cookieDomain, domain) {
			continue
		}

		c := Cookie{
			Name:     fields[5],
			Value:    fields[6],
			Domain:   cookieDomain,
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			HttpOnly: httpOnly,
		}
		if expiry > 0 && expiry < NoExpiryEpoch {
			c.Expiry = time.Unix(expiry, 0)
			if c.Expiry.Before(now) {
				continue
			}
		}
		cookies = append(cookies, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read Netscape cookie file: %w", err)
	}
	return cookies, nil
}

// WriteNetscape writes cookies to filePath, replacing any existing file.
// Each line is domain, TRUE, path, SECURE, epoch, name, value separated by
// tabs. The file is created with mode 0600 since it holds cookie values.
func WriteNetscape(ctx context.Context, filePath string, cookies []Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot create Netscape cookie file: %w", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, NetscapeHeader)
	for i, c := range cookies {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				f.Close()
				return err
			}
		}
		expiry := NoExpiryEpoch
		if !c.Expiry.IsZero() {
			expiry = c.Expiry.Unix()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(w, "%s\tTRUE\t%s\t%s\t%d\t%s\t%s\n",
			c.Domain, path, boolField(c.Secure), expiry, c.Name, c.Value)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write Netscape cookie file: %w", err)
	}
	return f.Close()
}

func boolField(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// matchesDomain checks if a cookie domain matches the target domain:
// exact match, dot-prefix, or subdomain.
func matchesDomain(cookieDomain, domain string) bool {
	dotDomain := "." + domain
	return cookieDomain == domain || cookieDomain == dotDomain ||
		strings.HasSuffix(cookieDomain, dotDomain)
}
