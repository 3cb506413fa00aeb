// Package config provides XML-based configuration management for the dashboard server.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/gommon/bytes"
)

// FileName is the config file created next to the executable.
const FileName = "TindaPayDashboard.config"

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"TindaPayDashboard"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Upload processing
	Processing ProcessingConfig `xml:"Processing"`

	// Chart selection and rendering
	Charts ChartsConfig `xml:"Charts"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port                  int    `xml:"Port"`
	BindAddress           string `xml:"BindAddress"`
	EnableCORS            bool   `xml:"EnableCORS"`
	AllowOrigins          string `xml:"AllowOrigins"`
	ReadTimeout           int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout          int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout           int    `xml:"IdleTimeoutSeconds"`
	RequestTimeoutSeconds int    `xml:"RequestTimeoutSeconds"`
	BodyLimit             string `xml:"BodyLimit"`
}

// ProcessingConfig contains batch processing settings
type ProcessingConfig struct {
	MaxFileSize            string `xml:"MaxFileSize"`
	MaxFilesPerBatch       int    `xml:"MaxFilesPerBatch"`
	BatchErrorPolicy       string `xml:"BatchErrorPolicy"`
	ResultTTLMinutes       int    `xml:"ResultTTLMinutes"`
	CleanupIntervalMinutes int    `xml:"CleanupIntervalMinutes"`
	MaxStoredResults       int    `xml:"MaxStoredResults"`
}

// ChartsConfig contains chart settings
type ChartsConfig struct {
	InteractiveUsage bool `xml:"InteractiveUsage"`
	RenderWidth      int  `xml:"RenderWidth"`
	RenderHeight     int  `xml:"RenderHeight"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	CatalogPath          string `xml:"CatalogPath"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:                  8050,
			BindAddress:           "0.0.0.0",
			EnableCORS:            true,
			AllowOrigins:          "*",
			ReadTimeout:           30,
			WriteTimeout:          30,
			IdleTimeout:           120,
			RequestTimeoutSeconds: 60,
			BodyLimit:             "100M",
		},
		Processing: ProcessingConfig{
			MaxFileSize:            "20M",
			MaxFilesPerBatch:       20,
			BatchErrorPolicy:       "isolate",
			ResultTTLMinutes:       30,
			CleanupIntervalMinutes: 5,
			MaxStoredResults:       50,
		},
		Charts: ChartsConfig{
			InteractiveUsage: true,
			RenderWidth:      800,
			RenderHeight:     450,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &AppConfig{}
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- TindaPay Dashboard Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}

	if policy := os.Getenv("TINDAPAY_BATCH_POLICY"); policy != "" {
		c.Processing.BatchErrorPolicy = policy
	}

	if catalog := os.Getenv("TINDAPAY_CATALOG"); catalog != "" {
		c.Advanced.CatalogPath = catalog
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Advanced.CatalogPath != "" && !filepath.IsAbs(c.Advanced.CatalogPath) {
		c.Advanced.CatalogPath = filepath.Join(configDir, c.Advanced.CatalogPath)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// GetMaxFileSize returns the per-file size cap in bytes.
func (c *AppConfig) GetMaxFileSize() (int64, error) {
	if c.Processing.MaxFileSize == "" {
		return 0, nil
	}
	n, err := bytes.Parse(c.Processing.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("invalid MaxFileSize %q: %w", c.Processing.MaxFileSize, err)
	}
	return n, nil
}

// GetResultTTL returns how long an idle batch result is kept.
func (c *AppConfig) GetResultTTL() time.Duration {
	return time.Duration(c.Processing.ResultTTLMinutes) * time.Minute
}

// GetCleanupInterval returns the result cleanup period, at least one minute.
func (c *AppConfig) GetCleanupInterval() time.Duration {
	if c.Processing.CleanupIntervalMinutes <= 0 {
		return time.Minute
	}
	return time.Duration(c.Processing.CleanupIntervalMinutes) * time.Minute
}

// GetRequestTimeout returns the per-request timeout, zero when disabled.
func (c *AppConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}
