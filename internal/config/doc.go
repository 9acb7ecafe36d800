// Package config loads, validates, and normalizes stemsplit configuration.
//
// Configuration is TOML with built-in defaults; every path is expanded to an
// absolute form before the rest of the system sees it. External tool names
// resolve from PATH unless configured explicitly.
package config
