package incognito

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

var suspiciousSuffixes = []string{".xyz", ".tk", ".pw", ".cc", ".ru"}

var blockedExtensions = map[string]bool{
	"exe": true,
	"bat": true,
	"sh":  true,
	"py":  true,
}

// IsURLSafe reports whether rawURL uses https and its host does not end in
// one of a fixed set of suspicious top-level domains. Internationalised
// hosts are compared in their ASCII form.
func IsURLSafe(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" {
		return false
	}
	host := strings.TrimSuffix(u.Hostname(), ".")
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	host = strings.ToLower(host)
	for _, suffix := range suspiciousSuffixes {
		if strings.HasSuffix(host, suffix) {
			return false
		}
	}
	return true
}

// SanitizeDownloadFilename reduces name to a safe base name: directory
// components are dropped, the rest is NFC-normalised and anything but
// letters, digits, '.', '_', '-' and space is removed. An empty result or a
// blocked executable extension is replaced with safe_<random>.txt.
func SanitizeDownloadFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = norm.NFC.String(name)

	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._- ", r) {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	ext := clean[strings.LastIndex(clean, ".")+1:]
	if clean == "" || clean == "." || clean == ".." || blockedExtensions[strings.ToLower(ext)] {
		return safeFilename()
	}
	return clean
}

func safeFilename() string {
	suffix, err := randomString(10)
	if err != nil {
		suffix = "0000000000"
	}
	return "safe_" + suffix + ".txt"
}
