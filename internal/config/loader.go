package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/TypeDummying/AIuminum/common"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// FindConfigFile returns the configuration file to load, checking in order
// the explicit path, $ALUMINUM_CONFIG and ConfigDir()/config.yaml. An
// explicit or environment path is returned even when missing so that Load
// can report it; the default location is only returned when it exists.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(common.ConfigEnv); env != "" {
		return env
	}
	def := filepath.Join(ConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(def); err == nil {
		return def
	}
	return ""
}

// Load reads the YAML file at path over the defaults. Fields missing from
// the file keep their default values.
func Load(path string) (*File, error) {
	cf := Default()
	if path == "" {
		return cf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cf); err != nil {
		return nil, err
	}
	if cf.Jar.Path == "" {
		cf.Jar.Path = DefaultJarPath()
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}
