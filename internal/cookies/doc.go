// Package cookies reads and writes the cookie stores of other browsers so
// that the Aluminum jar can import from and export to them. It supports
// Firefox (moz_cookies SQLite), Chrome (cookies SQLite, unencrypted values
// only) and the Netscape tab-separated text format.
//
// Cookie values are never logged or formatted into error messages.
package cookies
