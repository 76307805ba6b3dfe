package cookies

import "time"

// CookieFormat identifies the format of a browser cookie store.
type CookieFormat int

const (
	FormatUnknown CookieFormat = iota
	// FormatFirefox is the Firefox moz_cookies SQLite schema.
	FormatFirefox
	// FormatChrome is the Chrome cookies SQLite schema. Only unencrypted
	// cookies (value != '') are usable.
	FormatChrome
	// FormatNetscape is the Netscape tab-separated text format.
	FormatNetscape
)

func (f CookieFormat) String() string {
	switch f {
	case FormatFirefox:
		return "Firefox"
	case FormatChrome:
		return "Chrome"
	case FormatNetscape:
		return "Netscape"
	default:
		return "unknown"
	}
}

// Cookie is a single cookie record read from or written to a browser store.
// Value is SENSITIVE and must never be logged.
type Cookie struct {
	Name  string
	Value string
	// Domain may carry a leading dot for subdomain-inclusive cookies.
	Domain string
	Path   string
	// Expiry is the zero time for session cookies.
	Expiry   time.Time
	Secure   bool
	HttpOnly bool
}

// CookieSource describes where cookies were imported from.
type CookieSource struct {
	Path   string
	Format CookieFormat
}
