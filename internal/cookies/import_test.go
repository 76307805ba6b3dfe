package cookies

import (
	"testing"
	"time"
)

func TestImportCookies(t *testing.T) {
	future := time.Now().Add(time.Hour)
	dir := t.TempDir()
	ff := createFirefoxFixture(t, mkdir(t, dir, "ff"), []firefoxRow{
		{"sid", "f", ".example.com", "/", future.Unix(), 0, 0},
		{"x", "y", "other.org", "/", future.Unix(), 0, 0},
	})
	ch := createChromeFixture(t, mkdir(t, dir, "ch"), []chromeRow{
		{"sid", "c", ".example.com", "/", unixToChrome(future.Unix()), 0, 0},
	})
	ns := writeNetscapeFile(t, mkdir(t, dir, "ns"),
		NetscapeHeader+"\n.example.com\tTRUE\t/\tFALSE\t0\tsid\tn\n")

	tests := []struct {
		path   string
		format CookieFormat
		value  string
	}{
		{ff, FormatFirefox, "f"},
		{ch, FormatChrome, "c"},
		{ns, FormatNetscape, "n"},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			cookies, src, err := ImportCookies(tt.path, "example.com")
			if err != nil {
				t.Fatalf("ImportCookies: %v", err)
			}
			if src.Format != tt.format || src.Path != tt.path {
				t.Errorf("source = %+v", src)
			}
			if len(cookies) != 1 || cookies[0].Value != tt.value {
				t.Errorf("cookies = %+v", cookies)
			}
		})
	}

	all, _, err := ImportCookies(ff, "")
	if err != nil {
		t.Fatalf("ImportCookies: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("empty domain should import every cookie, got %d", len(all))
	}
}

func TestImportCookies_Errors(t *testing.T) {
	if _, _, err := ImportCookies("/nonexistent/file", "example.com"); err == nil {
		t.Error("expected error for missing file")
	}
	path := writeNetscapeFile(t, t.TempDir(), "")
	if _, _, err := ImportCookies(path, "example.com"); err == nil {
		t.Error("expected error for empty file")
	}
}
