package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TypeDummying/AIuminum/common"
	"github.com/TypeDummying/AIuminum/pkg/credman/keyring"
)

// testKeyHex is a fixed 32-byte jar key.
var testKeyHex = strings.Repeat("ab", 32)

type testPaths struct {
	dir     string
	config  string
	jar     string
	scratch string
}

// setupCLI writes a config file pointing the jar and the scratch parent
// into a temp dir and pins the jar key through the environment.
func setupCLI(t *testing.T) testPaths {
	t.Helper()
	dir := t.TempDir()
	p := testPaths{
		dir:     dir,
		config:  filepath.Join(dir, "config.yaml"),
		jar:     filepath.Join(dir, "data", "cookies.jar"),
		scratch: filepath.Join(dir, "scratch"),
	}
	cfg := "jar:\n  path: '" + p.jar + "'\nprivate:\n  scratch_parent: '" + p.scratch + "'\n  label: Test\n"
	if err := os.WriteFile(p.config, []byte(cfg), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(common.CookieKeyEnv, testKeyHex)
	return p
}

// runCLI runs the app with args and returns what the commands wrote to
// stdout.
func runCLI(t *testing.T, p testPaths, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &buf, io.Discard
	defer func() { stdout, stderr = oldOut, oldErr }()

	full := append([]string{"aluminum", "--config", p.config}, args...)
	err := Execute(full, BuildArgs{Version: "test", BuildType: "dev", Date: "today", Commit: "abc"})
	return buf.String(), err
}

func mustRun(t *testing.T, p testPaths, args ...string) string {
	t.Helper()
	out, err := runCLI(t, p, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

type memKeyStore struct {
	key  []byte
	sets int
}

func (m *memKeyStore) SetKey() ([]byte, error) {
	m.key = bytes.Repeat([]byte{7}, keyring.KeySize)
	m.sets++
	return m.key, nil
}

func (m *memKeyStore) GetKey() ([]byte, error) {
	if m.key == nil {
		return nil, keyring.ErrKeyNotFound
	}
	return m.key, nil
}

func (m *memKeyStore) DeleteKey() error {
	m.key = nil
	return nil
}
