// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config carries every startup knob the server needs. It is read once in
// main and handed to the components at construction; nothing in the core
// reads the environment after that.
type Config struct {
	// StorageRoot is the absolute directory every request is sandboxed to.
	StorageRoot string

	// BaseDirectory is the subtree of the storage root that is shared,
	// expressed as a site path ("/" shares the whole root).
	BaseDirectory string

	// ProtectedRoutes lists site path prefixes guarded by a .password file.
	ProtectedRoutes []string

	// RecursiveSizes selects the folder-size mode reported by listings:
	// true sums every descendant, false reports the nominal constant for
	// child directories.
	RecursiveSizes bool

	Port     int
	LogLevel int
}

// Load builds the configuration from defaults, an optional config.yaml and
// environment overrides.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("storage.root", "./file_storage")
	v.SetDefault("storage.base_directory", "/")
	v.SetDefault("storage.recursive_sizes", false)
	v.SetDefault("storage.protected_routes", []string{})
	v.SetDefault("server.port", 28080)
	v.SetDefault("server.log_level", 6)

	// Environment variables
	v.AutomaticEnv()
	_ = v.BindEnv("storage.root", "FILE_DIRECTORY")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.log_level", "INDEXD_LOG_LEVEL")
	_ = v.BindEnv("storage.protected_routes", "INDEXD_PROTECTED_ROUTES")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configPaths := []string{
		".",
		"$HOME/.indexd",
		"/etc/indexd",
	}
	for _, path := range configPaths {
		v.AddConfigPath(os.ExpandEnv(path))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; use defaults and environment only
	}

	root, err := filepath.Abs(v.GetString("storage.root"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}

	cfg := &Config{
		StorageRoot:     root,
		BaseDirectory:   v.GetString("storage.base_directory"),
		ProtectedRoutes: v.GetStringSlice("storage.protected_routes"),
		RecursiveSizes:  v.GetBool("storage.recursive_sizes"),
		Port:            v.GetInt("server.port"),
		LogLevel:        v.GetInt("server.log_level"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Port)
	}

	return cfg, nil
}
