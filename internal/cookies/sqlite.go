package cookies

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// chromeEpochOffsetSeconds is the number of seconds between the Windows NT epoch
// (1601-01-01 00:00:00 UTC) and the Unix epoch (1970-01-01 00:00:00 UTC).
const chromeEpochOffsetSeconds int64 = 11_644_473_600

func chromeToUnix(chromeUSec int64) int64 {
	return (chromeUSec / 1_000_000) - chromeEpochOffsetSeconds
}

func unixToChrome(unix int64) int64 {
	return (unix + chromeEpochOffsetSeconds) * 1_000_000
}

// sqliteSchema describes how to read one browser's cookie table.
type sqliteSchema struct {
	browser string
	// query selects name, value, host, path, expiry, secure, httponly and
	// takes the expiry threshold as its first argument.
	query      string
	hostColumn string
	// expiryThreshold converts the current unix time to the store's unit.
	expiryThreshold func(now int64) int64
	// toUnix converts a stored expiry to unix seconds.
	toUnix func(v int64) int64
}

var firefoxSchema = sqliteSchema{
	browser: "Firefox",
	query: `SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies WHERE expiry > ?`,
	hostColumn:      "host",
	expiryThreshold: func(now int64) int64 { return now },
	toUnix:          func(v int64) int64 { return v },
}

// Chrome stores encrypted cookies with an empty value; those are skipped.
var chromeSchema = sqliteSchema{
	browser: "Chrome",
	query: `SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies WHERE value != '' AND expires_utc > ?`,
	hostColumn:      "host_key",
	expiryThreshold: unixToChrome,
	toUnix:          chromeToUnix,
}

// ParseFirefox reads unexpired cookies from a Firefox cookies.sqlite file.
// An empty domain selects every cookie. The dbPath should point at a copied
// (not in-use) database.
func ParseFirefox(dbPath string, domain string) ([]Cookie, error) {
	return readSQLite(dbPath, domain, firefoxSchema)
}

// ParseChrome reads unexpired, unencrypted cookies from a Chrome Cookies
// file. An empty domain selects every cookie.
func ParseChrome(dbPath string, domain string) ([]Cookie, error) {
	return readSQLite(dbPath, domain, chromeSchema)
}

func readSQLite(dbPath, domain string, s sqliteSchema) ([]Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("cannot open %s cookie database: %w", s.browser, err)
	}
	defer db.Close()

	query := s.query
	args := []any{s.expiryThreshold(time.Now().Unix())}
	if domain != "" {
		query += fmt.Sprintf(" AND (%[1]s = ? OR %[1]s = ? OR %[1]s LIKE ?)", s.hostColumn)
		args = append(args, domain, "."+domain, "%."+domain)
	}
	query += " ORDER BY path DESC, name ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s cookies: %w", s.browser, err)
	}
	defer rows.Close()

	var cookies []Cookie
	for rows.Next() {
		var (
			name, value, host, path string
			expiry                  int64
			isSecure, isHttpOnly    int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &isSecure, &isHttpOnly); err != nil {
			return nil, fmt.Errorf("failed to scan %s cookie row: %w", s.browser, err)
		}
		cookies = append(cookies, Cookie{
			Name:     name,
			Value:    value,
			Domain:   host,
			Path:     path,
			Expiry:   time.Unix(s.toUnix(expiry), 0),
			Secure:   isSecure != 0,
			HttpOnly: isHttpOnly != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s cookie rows: %w", s.browser, err)
	}
	return cookies, nil
}
