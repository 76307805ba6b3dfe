package cookies

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDetectFormat(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	dir := t.TempDir()
	ff := createFirefoxFixture(t, filepath.Join(mkdir(t, dir, "ff")), []firefoxRow{{"a", "1", "x.com", "/", future, 0, 0}})
	ch := createChromeFixture(t, mkdir(t, dir, "ch"), nil)
	ns := writeNetscapeFile(t, mkdir(t, dir, "ns"), NetscapeHeader+"\n")
	alt := writeNetscapeFile(t, mkdir(t, dir, "alt"), "# HTTP Cookie File\n")
	other := writeNetscapeFile(t, mkdir(t, dir, "other"), "hello world\n")
	unknownDB := execAll(t, filepath.Join(dir, "other.sqlite"), `CREATE TABLE stuff (id INTEGER)`, "", nil)

	tests := []struct {
		name    string
		path    string
		want    CookieFormat
		wantErr bool
	}{
		{"firefox", ff, FormatFirefox, false},
		{"chrome", ch, FormatChrome, false},
		{"netscape", ns, FormatNetscape, false},
		{"netscape alt header", alt, FormatNetscape, false},
		{"unknown text", other, FormatUnknown, true},
		{"unknown schema", unknownDB, FormatUnknown, true},
		{"missing", filepath.Join(dir, "missing"), FormatUnknown, true},
		{"directory", dir, FormatUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("format = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormat_EmptyFile(t *testing.T) {
	path := writeNetscapeFile(t, t.TempDir(), "")
	if _, err := DetectFormat(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestCookieFormat_String(t *testing.T) {
	if FormatChrome.String() != "Chrome" || CookieFormat(42).String() != "unknown" {
		t.Errorf("unexpected format names: %s %s", FormatChrome, CookieFormat(42))
	}
}

func mkdir(t *testing.T, parent, name string) string {
	t.Helper()
	p := filepath.Join(parent, name)
	if err := os.MkdirAll(p, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return p
}
