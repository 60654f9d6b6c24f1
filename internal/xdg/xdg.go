// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

// Package xdg resolves XDG Base Directory paths for Librarium.
package xdg

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const (
	appName        = "librarium"
	configFileName = "config.yaml"
)

// ConfigDir returns the librarium config directory.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// FindConfigFile returns ConfigFile when it exists and "" when it does not.
func FindConfigFile() (string, error) {
	path := ConfigFile()
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", oops.Code("CONFIG_FILE_STAT_FAILED").With("path", path).Wrap(err)
	}
	if info.IsDir() {
		return "", oops.Code("CONFIG_FILE_IS_DIR").With("path", path).Errorf("%s is a directory", path)
	}
	return path, nil
}
