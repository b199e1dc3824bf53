// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects ConfigDir, letting tests write and read
// config files in a scratch directory. os.UserHomeDir does not reliably
// honor a HOME override on every platform, so tests cannot just fake HOME.
var configDirOverride string

// SetConfigDirOverride points ConfigDir at dir until Reset is called.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset restores the platform config directory lookup.
func Reset() {
	configDirOverride = ""
}
