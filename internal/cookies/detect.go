package cookies

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

var sqliteMagic = []byte("SQLite format 3\x00")

// DetectFormat determines the cookie store format of the file at path.
func DetectFormat(path string) (CookieFormat, error) {
	if err := checkStoreFile(path); err != nil {
		return FormatUnknown, err
	}
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("cannot open cookie file: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	n, err := io.ReadFull(f, header)
	if err == nil && string(header) == string(sqliteMagic) {
		return detectSQLiteFormat(path)
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("cannot read cookie file: %w", err)
	}

	// Not SQLite: the first line decides whether it is a Netscape file.
	r := bufio.NewReader(io.MultiReader(strings.NewReader(string(header[:n])), f))
	firstLine, _ := r.ReadString('\n')
	firstLine = strings.TrimRight(firstLine, "\r\n")
	if firstLine == NetscapeHeader || firstLine == "# HTTP Cookie File" {
		return FormatNetscape, nil
	}
	return FormatUnknown, fmt.Errorf("unsupported cookie store at %s", path)
}

// detectSQLiteFormat checks which cookie table the database holds.
func detectSQLiteFormat(path string) (CookieFormat, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("cannot open SQLite database: %w", err)
	}
	defer db.Close()

	for _, cand := range []struct {
		table  string
		format CookieFormat
	}{
		{"moz_cookies", FormatFirefox},
		{"cookies", FormatChrome},
	} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, cand.table).Scan(&name)
		if err == nil {
			return cand.format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unsupported cookie database schema at %s", path)
}
