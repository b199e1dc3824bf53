// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists the tutorun application configuration.
// Configuration lives in a TOML file under the platform config directory
// and is merged over built-in defaults with viper.
package config
