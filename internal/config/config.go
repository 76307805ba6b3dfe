// Package config loads the optional YAML configuration file and resolves
// the XDG directories used by the CLI.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/TypeDummying/AIuminum/pkg/jar"
	"github.com/TypeDummying/AIuminum/pkg/logger"
	"github.com/adrg/xdg"
)

const (
	// AppName names the per-user config and data directories.
	AppName = "aluminum"
	// DefaultConfigFile is the config file name inside ConfigDir.
	DefaultConfigFile = "config.yaml"
	// DefaultJarFile is the jar file name inside DataDir.
	DefaultJarFile = "cookies.jar"
)

// ErrInvalidConfig is returned when a loaded file fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// File is the on-disk configuration.
//
//	jar:
//	  path: ~/.local/share/aluminum/cookies.jar
//	  max_cookie_size: 4096
//	  max_cookies_per_domain: 50
//	  policy:
//	    block_third_party: true
//	private:
//	  scratch_parent: /dev/shm
//	  label: Aluminum
//	debug: false
//	event_log: false
type File struct {
	Jar     JarConfig     `yaml:"jar"`
	Private PrivateConfig `yaml:"private"`
	Debug   bool          `yaml:"debug"`
	// EventLog also sends log output to the Windows Event Log.
	EventLog bool `yaml:"event_log"`
}

type JarConfig struct {
	Path                string     `yaml:"path"`
	MaxCookieSize       int        `yaml:"max_cookie_size"`
	MaxCookiesPerDomain int        `yaml:"max_cookies_per_domain"`
	Policy              jar.Policy `yaml:"policy"`
}

type PrivateConfig struct {
	// ScratchParent is the directory under which session scratch
	// directories are created. Empty means the system temp dir.
	ScratchParent string `yaml:"scratch_parent"`
	Label         string `yaml:"label"`
}

// Default returns the configuration used when no file exists.
func Default() *File {
	return &File{
		Jar: JarConfig{
			Path:                DefaultJarPath(),
			MaxCookieSize:       jar.DefaultMaxCookieSize,
			MaxCookiesPerDomain: jar.DefaultMaxCookiesPerDomain,
			Policy:              jar.Policy{AcceptAll: true},
		},
		Private: PrivateConfig{Label: "Aluminum"},
	}
}

// Validate rejects negative limits.
func (f *File) Validate() error {
	if f.Jar.MaxCookieSize < 0 {
		return fmt.Errorf("%w: jar.max_cookie_size must not be negative", ErrInvalidConfig)
	}
	if f.Jar.MaxCookiesPerDomain < 0 {
		return fmt.Errorf("%w: jar.max_cookies_per_domain must not be negative", ErrInvalidConfig)
	}
	return nil
}

// JarOptions builds jar options from the configured limits.
func (f *File) JarOptions(l logger.Logger) *jar.Options {
	return &jar.Options{
		MaxCookieSize:       f.Jar.MaxCookieSize,
		MaxCookiesPerDomain: f.Jar.MaxCookiesPerDomain,
		Logger:              l,
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/aluminum.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DataDir returns $XDG_DATA_HOME/aluminum.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultJarPath returns the default location of the persistent jar.
func DefaultJarPath() string {
	return filepath.Join(DataDir(), DefaultJarFile)
}
