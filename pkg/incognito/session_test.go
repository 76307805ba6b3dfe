package incognito

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/TypeDummying/AIuminum/pkg/credman/encryption"
	"github.com/TypeDummying/AIuminum/pkg/jar"
	"github.com/TypeDummying/AIuminum/pkg/logger"
	"github.com/spf13/afero"
)

func newMemSession(t *testing.T) (*Session, afero.Fs, *logger.MockLogger) {
	t.Helper()
	fs := afero.NewMemMapFs()
	log := logger.NewMockLogger()
	s, err := New("test", &Options{Fs: fs, TempDir: "/tmp", Logger: log})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, fs, log
}

func TestNew(t *testing.T) {
	s, fs, _ := newMemSession(t)
	dir := s.ScratchDir()
	if !strings.HasPrefix(filepath.Base(dir), "test_incognito_") || filepath.Dir(dir) != "/tmp" {
		t.Errorf("scratch dir = %q", dir)
	}
	if ok, _ := afero.DirExists(fs, dir); !ok {
		t.Error("scratch dir should exist")
	}
	if len(s.key) != encryption.KeySize {
		t.Errorf("key length = %d", len(s.key))
	}
	if s.ID() == "" || s.CreatedAt().IsZero() {
		t.Error("session should have an id and start time")
	}

	other, _, _ := newMemSession(t)
	if string(other.key) == string(s.key) {
		t.Error("sessions must not share keys")
	}
}

func TestNew_LabelWithSeparator(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := New("a/b", &Options{Fs: fs, TempDir: "/tmp"})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(s.ScratchDir()) != "/tmp" {
		t.Errorf("scratch dir escaped its parent: %q", s.ScratchDir())
	}
}

func TestEncryptDecrypt(t *testing.T) {
	s, _, _ := newMemSession(t)
	for _, v := range []string{"", "hello", "héllo wörld ✓ 日本語", strings.Repeat("x", 10000)} {
		ct, err := s.Encrypt(v)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", v, err)
		}
		got, err := s.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if got != v {
			t.Errorf("round trip = %q, want %q", got, v)
		}
	}
}

func TestDecrypt_Tamper(t *testing.T) {
	s, _, _ := newMemSession(t)
	ct, err := s.Encrypt("secret")
	if err != nil {
		t.Fatal(err)
	}
	for i := range ct {
		bad := append(EncryptedValue(nil), ct...)
		bad[i] ^= 0x01
		_, err := s.Decrypt(bad)
		var ce *CryptoError
		if !errors.As(err, &ce) {
			t.Fatalf("byte %d: err = %v, want *CryptoError", i, err)
		}
	}

	var ce *CryptoError
	if _, err := s.Decrypt(ct[:10]); !errors.As(err, &ce) {
		t.Errorf("truncated: %v", err)
	}
	other, _, _ := newMemSession(t)
	if _, err := other.Decrypt(ct); !errors.As(err, &ce) || !errors.Is(err, encryption.ErrAuthentication) {
		t.Errorf("foreign key: %v", err)
	}
}

func TestHistory(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, err := New("h", &Options{Fs: afero.NewMemMapFs(), TempDir: "/tmp", Now: func() time.Time { return now }})
	if err != nil {
		t.Fatal(err)
	}
	s.AddToHistory("https://a.example/")
	s.AddToHistory("https://b.example/")
	h, err := s.History()
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 2 || h[0].URL != "https://a.example/" || !h[1].Time.Equal(now) {
		t.Errorf("history = %+v", h)
	}
	if strings.Contains(string(s.history[0].URL), "a.example") {
		t.Error("history must be stored encrypted")
	}
	s.ClearHistory()
	if h, _ := s.History(); len(h) != 0 {
		t.Error("ClearHistory should empty the history")
	}
}

func TestCookies(t *testing.T) {
	s, _, _ := newMemSession(t)
	if err := s.SetCookie("x.com", "sid", "s3cret"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.GetCookie("x.com", "sid")
	if err != nil || !ok || v != "s3cret" {
		t.Fatalf("GetCookie = %q, %v, %v", v, ok, err)
	}
	if _, ok, err := s.GetCookie("x.com", "nope"); ok || err != nil {
		t.Errorf("missing cookie = %v, %v", ok, err)
	}

	data, _ := s.cookies.Serialize()
	if strings.Contains(string(data), "s3cret") {
		t.Error("session cookies must be stored encrypted")
	}

	if err := s.HandleSetCookieHeader("lang=en; Path=/", "www.x.com"); err != nil {
		t.Fatal(err)
	}
	h, err := s.CookieHeaderFor("https://www.x.com/")
	if err != nil {
		t.Fatal(err)
	}
	if h != "lang=en; sid=s3cret" {
		t.Errorf("header = %q", h)
	}
	if st := s.CookieStats(); st.TotalCookies != 2 {
		t.Errorf("stats = %+v", st)
	}
	s.ClearCookies()
	if st := s.CookieStats(); st.TotalCookies != 0 {
		t.Error("ClearCookies should empty the jar")
	}
}

func TestCookies_Limits(t *testing.T) {
	s, err := New("l", &Options{Fs: afero.NewMemMapFs(), TempDir: "/tmp", Jar: &jar.Options{MaxCookiesPerDomain: 1}})
	if err != nil {
		t.Fatal(err)
	}
	s.SetCookie("x.com", "a", "1")
	if err := s.SetCookie("x.com", "b", "2"); !errors.Is(err, jar.ErrCookieRejected) {
		t.Errorf("err = %v, want ErrCookieRejected", err)
	}
}

func TestDownloads(t *testing.T) {
	s, fs, log := newMemSession(t)
	afero.WriteFile(fs, "/dl/a.bin", []byte("aaa"), 0600)
	s.AddDownload("https://x.com/a.bin", "/dl/a.bin")
	s.AddDownload("https://x.com/gone.bin", "/dl/gone.bin")

	d, err := s.Downloads()
	if err != nil {
		t.Fatal(err)
	}
	if len(d) != 2 || d[0].Path != "/dl/a.bin" || d[1].URL != "https://x.com/gone.bin" {
		t.Errorf("downloads = %+v", d)
	}
	if err := s.ClearDownloads(); err != nil {
		t.Fatalf("ClearDownloads: %v", err)
	}
	if ok, _ := afero.Exists(fs, "/dl/a.bin"); ok {
		t.Error("downloaded file should be removed")
	}
	if d, _ := s.Downloads(); len(d) != 0 {
		t.Error("records should be cleared")
	}
	if len(log.WarningCalls) != 0 {
		t.Errorf("an already missing file is not a failure: %v", log.WarningCalls)
	}
}

func TestClearDownloads_DecryptFailureRemovesNothing(t *testing.T) {
	s, fs, _ := newMemSession(t)
	afero.WriteFile(fs, "/dl/a.bin", []byte("aaa"), 0600)
	s.AddDownload("https://x.com/a.bin", "/dl/a.bin")
	s.AddDownload("https://x.com/b.bin", "/dl/b.bin")
	s.downloads[1].Path[0] ^= 0xff

	var ce *CryptoError
	if err := s.ClearDownloads(); !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CryptoError", err)
	}
	if ok, _ := afero.Exists(fs, "/dl/a.bin"); !ok {
		t.Error("no file may be removed when a path fails to decrypt")
	}
	if len(s.downloads) != 2 {
		t.Error("records must be kept")
	}
}

func TestSessionData(t *testing.T) {
	s, _, _ := newMemSession(t)
	type prefs struct {
		Zoom  float64           `json:"zoom"`
		Tabs  []string          `json:"tabs"`
		Extra map[string]string `json:"extra"`
	}
	in := prefs{Zoom: 1.25, Tabs: []string{"a", "ü"}, Extra: map[string]string{"k": "v"}}
	if err := s.SetSessionData("prefs", in); err != nil {
		t.Fatal(err)
	}
	var out prefs
	ok, err := s.GetSessionData("prefs", &out)
	if err != nil || !ok {
		t.Fatalf("GetSessionData = %v, %v", ok, err)
	}
	if out.Zoom != in.Zoom || len(out.Tabs) != 2 || out.Tabs[1] != "ü" || out.Extra["k"] != "v" {
		t.Errorf("round trip = %+v", out)
	}
	if ok, err := s.GetSessionData("missing", &out); ok || err != nil {
		t.Errorf("missing key = %v, %v", ok, err)
	}
	if err := s.SetSessionData("bad", make(chan int)); err == nil {
		t.Error("unencodable value should fail")
	}
	s.ClearSessionData()
	if ok, _ := s.GetSessionData("prefs", &out); ok {
		t.Error("ClearSessionData should drop every key")
	}
}

func TestEndSession(t *testing.T) {
	s, fs, log := newMemSession(t)
	dir := s.ScratchDir()
	fs.MkdirAll(filepath.Join(dir, "cache"), 0700)
	afero.WriteFile(fs, filepath.Join(dir, "cache", "page.html"), []byte("<html>"), 0600)
	afero.WriteFile(fs, "/dl/file.zip", []byte("zip"), 0600)
	s.AddToHistory("https://x.com")
	s.SetCookie("x.com", "a", "1")
	s.AddDownload("https://x.com/file.zip", "/dl/file.zip")
	s.SetSessionData("k", 1)

	if err := s.EndSession(context.Background()); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if ok, _ := afero.Exists(fs, dir); ok {
		t.Error("scratch dir should be gone")
	}
	if ok, _ := afero.Exists(fs, "/dl/file.zip"); ok {
		t.Error("downloads should be removed")
	}
	if len(s.history) != 0 || s.cookies.Len() != 0 || len(s.downloads) != 0 || len(s.data) != 0 {
		t.Error("all tables should be empty")
	}
	if s.key != nil || !s.Ended() || s.ScratchDir() != "" {
		t.Error("session should hold no key after teardown")
	}

	for _, err := range []error{
		s.AddToHistory("x"),
		s.SetCookie("x.com", "a", "1"),
		s.AddDownload("u", "p"),
		s.SetSessionData("k", 1),
	} {
		if !errors.Is(err, ErrSessionEnded) {
			t.Errorf("err = %v, want ErrSessionEnded", err)
		}
	}
	if _, err := s.Encrypt("x"); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("Encrypt after end: %v", err)
	}
	if err := s.EndSession(context.Background()); err != nil {
		t.Errorf("second EndSession should be a no-op: %v", err)
	}

	for _, m := range log.All() {
		if strings.Contains(m, dir) {
			t.Errorf("log leaks scratch path: %q", m)
		}
	}
}

func TestEndSession_OsFs(t *testing.T) {
	parent := t.TempDir()
	s, err := New("os", &Options{TempDir: parent})
	if err != nil {
		t.Fatal(err)
	}
	dir := s.ScratchDir()
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(filepath.Join(dir, "a", "b"), 0700); err != nil {
		t.Fatal(err)
	}
	afero.WriteFile(fs, filepath.Join(dir, "a", "b", "c.txt"), []byte(strings.Repeat("x", 100000)), 0600)
	if err := s.EndSession(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ok, _ := afero.Exists(fs, dir); ok {
		t.Error("scratch dir should be removed from disk")
	}
}

func TestEndSession_Canceled(t *testing.T) {
	s, fs, _ := newMemSession(t)
	dir := s.ScratchDir()
	afero.WriteFile(fs, filepath.Join(dir, "f"), []byte("data"), 0600)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.EndSession(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if ok, _ := afero.Exists(fs, dir); ok {
		t.Error("scratch dir must be removed even when canceled")
	}
	if !s.Ended() {
		t.Error("session should be ended")
	}
}

func TestReport(t *testing.T) {
	s, _, _ := newMemSession(t)
	s.AddToHistory("https://a")
	s.SetCookie("x.com", "a", "1")
	r := s.Report()
	for _, want := range []string{"test Incognito Session Report", "Session ID: " + s.ID(), "Number of Visited Sites: 1", "Number of Cookies: 1", "Number of Downloads: 0"} {
		if !strings.Contains(r, want) {
			t.Errorf("report missing %q:\n%s", want, r)
		}
	}
	if strings.Contains(r, s.ScratchDir()) {
		t.Error("report must not include the scratch dir")
	}
}

func TestDuration(t *testing.T) {
	now := time.Unix(1000, 0)
	s, err := New("d", &Options{Fs: afero.NewMemMapFs(), TempDir: "/tmp", Now: func() time.Time { return now }})
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(90 * time.Second)
	if d := s.Duration(); d != 90*time.Second {
		t.Errorf("Duration = %v", d)
	}
	s.EndSession(context.Background())
	now = now.Add(time.Hour)
	if d := s.Duration(); d != 90*time.Second {
		t.Errorf("Duration after end = %v", d)
	}
}

func TestScratchGlob(t *testing.T) {
	s, _, _ := newMemSession(t)
	ok, err := filepath.Match(ScratchGlob("test"), filepath.Base(s.ScratchDir()))
	if err != nil || !ok {
		t.Fatalf("ScratchGlob(%q) does not match %q", "test", filepath.Base(s.ScratchDir()))
	}
	if got := ScratchGlob(""); got != DefaultLabel+"_incognito_*" {
		t.Errorf("ScratchGlob(\"\") = %q", got)
	}
	if got := ScratchGlob(`a/b\c`); got != "a_b_c_incognito_*" {
		t.Errorf("separators kept: %q", got)
	}
}
