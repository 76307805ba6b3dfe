package cmd

import (
	"strings"
	"testing"

	cmdcommon "github.com/TypeDummying/AIuminum/cmd/common"
)

func TestExecute_Version(t *testing.T) {
	p := setupCLI(t)
	if _, err := runCLI(t, p, "version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(cmdcommon.VersionCmdStr, "aluminum test (") {
		t.Fatalf("VersionCmdStr = %q", cmdcommon.VersionCmdStr)
	}
	if !strings.Contains(cmdcommon.VersionCmdStr, "Build: today=abc") {
		t.Fatalf("VersionCmdStr = %q", cmdcommon.VersionCmdStr)
	}
}

func TestExecute_BadConfig(t *testing.T) {
	p := setupCLI(t)
	p.config = p.config + ".missing"
	if _, err := runCLI(t, p, "cookies", "stats"); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestPolicyFlagsRegistered(t *testing.T) {
	cmd := cookiesCommand()
	names := map[string]bool{}
	for _, sub := range cmd.Subcommands {
		names[sub.Name] = true
	}
	for _, want := range []string{"set", "get", "delete", "clear", "header", "cleanup", "stats", "policy", "export", "import"} {
		if !names[want] {
			t.Errorf("cookies %s not registered", want)
		}
	}
}
