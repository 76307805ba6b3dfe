package jar

import (
	"errors"
	"time"

	"github.com/TypeDummying/AIuminum/pkg/logger"
)

const (
	// DefaultMaxCookieSize bounds len(name)+len(value) in bytes.
	DefaultMaxCookieSize = 4096
	// DefaultMaxCookiesPerDomain bounds the number of cookies in one domain table.
	DefaultMaxCookiesPerDomain = 50

	// ExpiresLayout is the RFC 1123 date layout accepted for cookie expiry.
	ExpiresLayout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

var (
	ErrCookieRejected = errors.New("cookie rejected by size or count policy")
	ErrMalformedJar   = errors.New("serialized cookie jar is malformed")
	ErrInvalidURL     = errors.New("invalid url")
)

// Cookie is a stored cookie. Value holds the codec-sealed form.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Secure   bool
	HttpOnly bool
	// Expires is the absolute expiry; the zero time means a session cookie.
	Expires time.Time
}

func (c *Cookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && c.Expires.Before(now)
}

// URLCookie is a cookie selected for an outgoing request. Value is plaintext.
type URLCookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}

// SetCookieOpts contains optional parameters for SetCookie.
type SetCookieOpts struct {
	// Expires is an RFC 1123 date ("Wed, 21 Oct 2015 07:28:00 GMT").
	// An unparseable value is logged and the cookie is stored without expiry.
	Expires  string
	Path     string
	Secure   bool
	HttpOnly bool
}

// Policy selects which cookies the jar keeps. See Jar.ApplyPolicy.
type Policy struct {
	AcceptAll       bool `yaml:"accept_all"`
	BlockThirdParty bool `yaml:"block_third_party"`
	BlockAll        bool `yaml:"block_all"`
}

// Stats summarises the jar contents.
type Stats struct {
	TotalCookies        int
	TotalDomains        int
	AvgCookiesPerDomain int
}

// Options configures a Jar. A nil *Options or zero fields select defaults.
type Options struct {
	MaxCookieSize       int
	MaxCookiesPerDomain int
	Codec               Codec
	Logger              logger.Logger
	// Now is the clock used for expiry decisions.
	Now func() time.Time
}
