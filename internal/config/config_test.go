package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TypeDummying/AIuminum/common"
	"github.com/TypeDummying/AIuminum/pkg/jar"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
jar:
  path: /var/lib/aluminum/jar
  max_cookies_per_domain: 10
  policy:
    block_third_party: true
private:
  scratch_parent: /dev/shm
debug: true
event_log: true
`)
	cf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cf.Jar.Path != "/var/lib/aluminum/jar" || cf.Jar.MaxCookiesPerDomain != 10 {
		t.Errorf("jar = %+v", cf.Jar)
	}
	if cf.Jar.MaxCookieSize != jar.DefaultMaxCookieSize {
		t.Errorf("unset field should keep its default, got %d", cf.Jar.MaxCookieSize)
	}
	if !cf.Jar.Policy.BlockThirdParty || !cf.Debug || cf.Private.ScratchParent != "/dev/shm" {
		t.Errorf("config = %+v", cf)
	}
	if !cf.EventLog {
		t.Error("event_log not loaded")
	}
	if cf.Private.Label != "Aluminum" {
		t.Errorf("label default lost: %q", cf.Private.Label)
	}

	o := cf.JarOptions(nil)
	if o.MaxCookiesPerDomain != 10 || o.MaxCookieSize != jar.DefaultMaxCookieSize {
		t.Errorf("jar options = %+v", o)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := Load(writeConfig(t, "jar: [oops")); err == nil {
		t.Error("bad yaml should fail")
	}
	if _, err := Load(writeConfig(t, "jar:\n  max_cookie_size: -1\n")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative limit: %v", err)
	}
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cf, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !cf.Jar.Policy.AcceptAll || !strings.HasSuffix(cf.Jar.Path, filepath.Join(AppName, DefaultJarFile)) {
		t.Errorf("defaults = %+v", cf)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv(common.ConfigEnv, "")
	if got := FindConfigFile("/explicit.yaml"); got != "/explicit.yaml" {
		t.Errorf("explicit path = %q", got)
	}
	t.Setenv(common.ConfigEnv, "/from/env.yaml")
	if got := FindConfigFile(""); got != "/from/env.yaml" {
		t.Errorf("env path = %q", got)
	}
}
