package incognito

import (
	"regexp"
	"strings"
	"testing"
)

func TestIsURLSafe(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/path", true},
		{"https://EXAMPLE.com", true},
		{"http://example.com", false},
		{"ftp://example.com", false},
		{"https://evil.xyz", false},
		{"https://shop.example.TK/", false},
		{"https://a.ru:8443/x", false},
		{"https://münchen.de", true},
		{"https://example.ru.com", true},
		{"not a url", false},
		{"https://[::1", false},
	}
	for _, tt := range tests {
		if got := IsURLSafe(tt.url); got != tt.want {
			t.Errorf("IsURLSafe(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

var safeName = regexp.MustCompile(`^safe_[A-Za-z0-9]{10}\.txt$`)

func TestSanitizeDownloadFilename(t *testing.T) {
	keep := map[string]string{
		"report.pdf":          "report.pdf",
		"my file (1).txt":     "my file 1.txt",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\doc.txt`: "doc.txt",
		"résumé.doc":          "résumé.doc",
		"e\u0301.txt":         "\u00e9.txt",
	}
	for in, want := range keep {
		if got := SanitizeDownloadFilename(in); got != want {
			t.Errorf("SanitizeDownloadFilename(%q) = %q, want %q", in, got, want)
		}
	}

	for _, in := range []string{"virus.exe", "RUN.BAT", "install.sh", "x.py", "", "???", "../", "exe"} {
		got := SanitizeDownloadFilename(in)
		if !safeName.MatchString(got) {
			t.Errorf("SanitizeDownloadFilename(%q) = %q, want a generated safe name", in, got)
		}
	}

	got := SanitizeDownloadFilename("../../etc/passwd")
	if strings.ContainsAny(got, `/\`) || got == "../../etc/passwd" {
		t.Errorf("traversal not stripped: %q", got)
	}
	if SanitizeDownloadFilename("a.exe") == SanitizeDownloadFilename("a.exe") {
		t.Error("generated names should be random")
	}
}
