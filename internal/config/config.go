// Package config handles clinfo configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"

	"github.com/wattfource/clinfo/internal/clrt"
)

// Config holds clinfo settings
type Config struct {
	Backend      string // "opencl", "wgpu" or "fixture"
	Fixture      string // Path of a fixture description
	ImageFormats bool   // List supported image formats per device
	ImageAccess  string // "read-only", "write-only" or "read-write"
	ImageType    string // "2d" or "3d"
	LogLevel     string // "debug", "info", "warn" or "error"
	LogFile      string // Empty uses the default log path
}

const (
	keyBackend      = "CLINFO_BACKEND"
	keyFixture      = "CLINFO_FIXTURE"
	keyImageFormats = "CLINFO_IMAGE_FORMATS"
	keyImageAccess  = "CLINFO_IMAGE_ACCESS"
	keyImageType    = "CLINFO_IMAGE_TYPE"
	keyLogLevel     = "CLINFO_LOG_LEVEL"
	keyLogFile      = "CLINFO_LOG_FILE"
)

// Keys lists every configuration key in file order
func Keys() []string {
	return []string{keyBackend, keyFixture, keyImageFormats, keyImageAccess, keyImageType, keyLogLevel, keyLogFile}
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Backend:     "opencl",
		ImageAccess: "read-only",
		ImageType:   "2d",
		LogLevel:    "info",
	}
}

// Paths returns the config directory and file paths
func Paths() (dir string, file string) {
	home, _ := os.UserHomeDir()
	dir = filepath.Join(home, ".config", "clinfo")
	file = filepath.Join(dir, "config")
	return
}

// Load reads the configuration from the default path and applies
// environment overrides
func Load() (*Config, error) {
	_, configFile := Paths()
	return LoadFile(configFile)
}

// LoadFile reads the configuration from path and applies environment
// overrides. A missing file yields the defaults
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	values, err := godotenv.Read(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		values = map[string]string{}
	}
	for _, key := range Keys() {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}
	cfg.apply(values)

	return cfg, cfg.Validate()
}

func (cfg *Config) apply(values map[string]string) {
	for key, value := range values {
		value = strings.TrimSpace(value)
		switch key {
		case keyBackend:
			cfg.Backend = value
		case keyFixture:
			cfg.Fixture = value
		case keyImageFormats:
			cfg.ImageFormats = value == "on"
		case keyImageAccess:
			cfg.ImageAccess = value
		case keyImageType:
			cfg.ImageType = value
		case keyLogLevel:
			cfg.LogLevel = value
		case keyLogFile:
			cfg.LogFile = value
		}
	}
}

// Validate checks the enumerated settings
func (cfg *Config) Validate() error {
	if !slices.Contains(ImageAccessOptions(), cfg.ImageAccess) {
		return fmt.Errorf("invalid image access %q (want one of %s)", cfg.ImageAccess, strings.Join(ImageAccessOptions(), ", "))
	}
	if !slices.Contains(ImageTypeOptions(), cfg.ImageType) {
		return fmt.Errorf("invalid image type %q (want one of %s)", cfg.ImageType, strings.Join(ImageTypeOptions(), ", "))
	}
	return nil
}

// Values renders the configuration as key/value pairs
func (cfg *Config) Values() map[string]string {
	formats := "off"
	if cfg.ImageFormats {
		formats = "on"
	}
	return map[string]string{
		keyBackend:      cfg.Backend,
		keyFixture:      cfg.Fixture,
		keyImageFormats: formats,
		keyImageAccess:  cfg.ImageAccess,
		keyImageType:    cfg.ImageType,
		keyLogLevel:     cfg.LogLevel,
		keyLogFile:      cfg.LogFile,
	}
}

// Save writes the configuration to the default path
func Save(cfg *Config) error {
	_, configFile := Paths()
	return SaveFile(cfg, configFile)
}

// SaveFile writes the configuration to path
func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return godotenv.Write(cfg.Values(), path)
}

// MemFlags maps ImageAccess to runtime memory flags
func (cfg *Config) MemFlags() clrt.MemFlags {
	switch cfg.ImageAccess {
	case "write-only":
		return clrt.MemWriteOnly
	case "read-write":
		return clrt.MemReadWrite
	}
	return clrt.MemReadOnly
}

// MemObjectType maps ImageType to a runtime image kind
func (cfg *Config) MemObjectType() clrt.MemObjectType {
	if cfg.ImageType == "3d" {
		return clrt.MemObjectImage3D
	}
	return clrt.MemObjectImage2D
}

// ImageAccessOptions returns available image access modes
func ImageAccessOptions() []string {
	return []string{"read-only", "write-only", "read-write"}
}

// ImageTypeOptions returns available image kinds
func ImageTypeOptions() []string {
	return []string{"2d", "3d"}
}
