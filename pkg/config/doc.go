/*
Package config loads and validates sysmonlint's own configuration.

Configuration is a YAML file with defaults applied for every omitted
field, overridable by SYSMONLINT_* environment variables. Loading follows
a fixed sequence: read YAML, apply defaults, apply environment overrides,
validate. A validated *Config is stored as a process-wide singleton via
Initialize/GetConfig for the CLI commands; tests use SetConfig with
explicit instances instead.

This is the tool's configuration, not the Sysmon configuration being
validated; the latter is handled by pkg/sysmon.
*/
package config
