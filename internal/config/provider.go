// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions names the sources a load may draw from. Zero values fall
// back to the platform config directory.
type LoadOptions struct {
	// ConfigFilePath loads exactly this file; it must exist.
	ConfigFilePath string
	// ConfigDirPath looks for the config file in this directory instead
	// of the platform one.
	ConfigDirPath string
}

// Provider loads the tutorun configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

// NewProvider returns the file-backed provider used by the CLI.
func NewProvider() Provider {
	return &fileProvider{}
}

type fileProvider struct{}

func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
