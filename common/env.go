// Package common holds names shared by the CLI and the libraries.
package common

// Environment variable names for configuration.
const (
	// CookieKeyEnv holds a hex-encoded 32-byte key for the persistent
	// cookie jar. It takes precedence over the OS keyring.
	CookieKeyEnv = "ALUMINUM_COOKIE_KEY"

	// ConfigEnv is the path of the YAML configuration file.
	ConfigEnv = "ALUMINUM_CONFIG"

	// DebugEnv enables debug logging.
	DebugEnv = "ALUMINUM_DEBUG"
)
