package cookies

import (
	"fmt"
	"path/filepath"
)

// ImportCookies reads cookies from the browser cookie store at sourcePath.
// It detects the format, copies SQLite files aside so the owning browser's
// lock is not disturbed, and returns the cookies for domain (all cookies when
// domain is empty) together with the source metadata.
func ImportCookies(sourcePath string, domain string) ([]Cookie, *CookieSource, error) {
	format, err := DetectFormat(sourcePath)
	if err != nil {
		return nil, nil, err
	}
	source := &CookieSource{Path: sourcePath, Format: format}

	var cookies []Cookie
	switch format {
	case FormatFirefox:
		cookies, err = importSQLite(sourcePath, domain, ParseFirefox)
	case FormatChrome:
		cookies, err = importSQLite(sourcePath, domain, ParseChrome)
	case FormatNetscape:
		cookies, err = ParseNetscape(sourcePath, domain)
	default:
		return nil, nil, fmt.Errorf("unsupported cookie store at %s", sourcePath)
	}
	if err != nil {
		return nil, nil, err
	}
	return cookies, source, nil
}

func importSQLite(sourcePath, domain string, parser func(string, string) ([]Cookie, error)) ([]Cookie, error) {
	tempDir, cleanup, err := SafeCopy(sourcePath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return parser(filepath.Join(tempDir, filepath.Base(sourcePath)), domain)
}
