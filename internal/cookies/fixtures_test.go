package cookies

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

type firefoxRow struct {
	Name       string
	Value      string
	Host       string
	Path       string
	Expiry     int64
	IsSecure   int
	IsHttpOnly int
}

type chromeRow struct {
	Name       string
	Value      string
	HostKey    string
	Path       string
	ExpiresUTC int64
	IsSecure   int
	IsHttpOnly int
}

func execAll(t *testing.T, dbPath, schema, insert string, rows [][]any) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	for _, r := range rows {
		if _, err := db.Exec(insert, r...); err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return dbPath
}

func createFirefoxFixture(t *testing.T, dir string, rows []firefoxRow) string {
	t.Helper()
	var args [][]any
	for _, r := range rows {
		args = append(args, []any{r.Name, r.Value, r.Host, r.Path, r.Expiry, r.IsSecure, r.IsHttpOnly})
	}
	return execAll(t, filepath.Join(dir, "cookies.sqlite"), `CREATE TABLE moz_cookies (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        host TEXT NOT NULL,
        path TEXT NOT NULL DEFAULT '/',
        expiry INTEGER NOT NULL DEFAULT 0,
        isSecure INTEGER NOT NULL DEFAULT 0,
        isHttpOnly INTEGER NOT NULL DEFAULT 0
    )`, `INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly) VALUES (?, ?, ?, ?, ?, ?, ?)`, args)
}

func createChromeFixture(t *testing.T, dir string, rows []chromeRow) string {
	t.Helper()
	var args [][]any
	for _, r := range rows {
		args = append(args, []any{r.HostKey, r.Name, r.Value, r.Path, r.ExpiresUTC, r.IsSecure, r.IsHttpOnly})
	}
	return execAll(t, filepath.Join(dir, "Cookies"), `CREATE TABLE cookies (
        creation_utc INTEGER NOT NULL DEFAULT 0,
        host_key TEXT NOT NULL,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        encrypted_value BLOB NOT NULL DEFAULT x'',
        path TEXT NOT NULL DEFAULT '/',
        expires_utc INTEGER NOT NULL DEFAULT 0,
        is_secure INTEGER NOT NULL DEFAULT 0,
        is_httponly INTEGER NOT NULL DEFAULT 0
    )`, `INSERT INTO cookies (host_key, name, value, path, expires_utc, is_secure, is_httponly) VALUES (?, ?, ?, ?, ?, ?, ?)`, args)
}

func writeNetscapeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "cookies.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write netscape file: %v", err)
	}
	return path
}

func names(cs []Cookie) map[string]Cookie {
	m := make(map[string]Cookie, len(cs))
	for _, c := range cs {
		m[c.Name] = c
	}
	return m
}
