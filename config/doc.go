// Package config loads the leadguard TOML configuration.
//
// Load starts from Default, applies an optional .env file to the process
// environment, decodes the TOML file over the defaults, expands ${VAR} and
// secretref: references in every credential field, and validates the
// result. Unknown keys are rejected so typos do not silently fall back to
// defaults.
package config
