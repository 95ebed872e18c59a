package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/zealot"
	ConfigFileName    = "zealot.yml"
)

// Storage backends for uploaded app assets
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// ValidLogLevels is the list of accepted log_level values
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ZealotConfig holds all Zealot configuration settings
type ZealotConfig struct {
	// GuestMode lets unauthenticated visitors browse apps
	GuestMode bool `yaml:"guest_mode" json:"guest_mode"`

	// UploadsRoot is the directory holding uploaded binaries and icons
	UploadsRoot string `yaml:"uploads_root" json:"uploads_root"`

	// StorageBackend selects where app assets live (local or s3)
	StorageBackend string `yaml:"storage_backend" json:"storage_backend"`

	// S3Bucket is the bucket used when StorageBackend is s3
	S3Bucket string `yaml:"s3_bucket" json:"s3_bucket"`

	// S3Region is the AWS region of the bucket
	S3Region string `yaml:"s3_region" json:"s3_region"`

	// S3Endpoint overrides the S3 endpoint (minio and friends)
	S3Endpoint string `yaml:"s3_endpoint" json:"s3_endpoint"`

	// DefaultLocale is used when the request does not negotiate one
	DefaultLocale string `yaml:"default_locale" json:"default_locale"`

	// TokenTTL is the lifetime of issued access tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// LogLevel is the application log level
	LogLevel string `yaml:"log_level" json:"log_level"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *ZealotConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *ZealotConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	set(cfg)
	return nil
}

func set(cfg *ZealotConfig) {
	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
}

// newDefault returns a config with default values
func newDefault() *ZealotConfig {
	return &ZealotConfig{
		GuestMode:      false,
		UploadsRoot:    filepath.Join("public", "uploads"),
		StorageBackend: StorageLocal,
		DefaultLocale:  "en",
		TokenTTL:       7 * 24 * 3600,
		TrustedProxies: []string{},
		LogLevel:       "info",
		sources:        make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*ZealotConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("ZEALOT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig ZealotConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"guest_mode", "uploads_root", "storage_backend",
		"s3_bucket", "s3_region", "s3_endpoint",
		"default_locale", "token_ttl", "trusted_proxies", "log_level",
	}
}

func (c *ZealotConfig) applyFileConfig(file *ZealotConfig) {
	if file.GuestMode {
		c.GuestMode = true
		c.sources["guest_mode"] = "file"
	}
	if file.UploadsRoot != "" {
		c.UploadsRoot = file.UploadsRoot
		c.sources["uploads_root"] = "file"
	}
	if file.StorageBackend != "" {
		c.StorageBackend = file.StorageBackend
		c.sources["storage_backend"] = "file"
	}
	if file.S3Bucket != "" {
		c.S3Bucket = file.S3Bucket
		c.sources["s3_bucket"] = "file"
	}
	if file.S3Region != "" {
		c.S3Region = file.S3Region
		c.sources["s3_region"] = "file"
	}
	if file.S3Endpoint != "" {
		c.S3Endpoint = file.S3Endpoint
		c.sources["s3_endpoint"] = "file"
	}
	if file.DefaultLocale != "" {
		c.DefaultLocale = file.DefaultLocale
		c.sources["default_locale"] = "file"
	}
	if file.TokenTTL != 0 {
		c.TokenTTL = file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
}

func (c *ZealotConfig) applyEnvConfig() {
	if val := os.Getenv("ZEALOT_GUEST_MODE"); val != "" {
		c.GuestMode = val == "true" || val == "1"
		c.sources["guest_mode"] = "environment"
	}
	if val := os.Getenv("ZEALOT_UPLOADS_ROOT"); val != "" {
		c.UploadsRoot = val
		c.sources["uploads_root"] = "environment"
	}
	if val := os.Getenv("ZEALOT_STORAGE_BACKEND"); val != "" {
		c.StorageBackend = val
		c.sources["storage_backend"] = "environment"
	}
	if val := os.Getenv("ZEALOT_S3_BUCKET"); val != "" {
		c.S3Bucket = val
		c.sources["s3_bucket"] = "environment"
	}
	if val := os.Getenv("ZEALOT_S3_REGION"); val != "" {
		c.S3Region = val
		c.sources["s3_region"] = "environment"
	}
	if val := os.Getenv("ZEALOT_S3_ENDPOINT"); val != "" {
		c.S3Endpoint = val
		c.sources["s3_endpoint"] = "environment"
	}
	if val := os.Getenv("ZEALOT_DEFAULT_LOCALE"); val != "" {
		c.DefaultLocale = val
		c.sources["default_locale"] = "environment"
	}
	if val := os.Getenv("ZEALOT_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.TokenTTL = i
			c.sources["token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("ZEALOT_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("ZEALOT_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
		c.sources["log_level"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *ZealotConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *ZealotConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenLifetime returns the access token TTL as a duration
func (c *ZealotConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *ZealotConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *ZealotConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	switch c.StorageBackend {
	case StorageLocal:
		if c.UploadsRoot == "" {
			return fmt.Errorf("uploads_root is required for the local storage backend")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3_bucket is required for the s3 storage backend")
		}
	default:
		return fmt.Errorf("invalid storage_backend: %s", c.StorageBackend)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %d", c.TokenTTL)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.LogLevel == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *ZealotConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "guest_mode", Value: strconv.FormatBool(c.GuestMode), Source: c.Source("guest_mode")},
		{Name: "uploads_root", Value: c.UploadsRoot, Source: c.Source("uploads_root")},
		{Name: "storage_backend", Value: c.StorageBackend, Source: c.Source("storage_backend")},
		{Name: "s3_bucket", Value: c.S3Bucket, Source: c.Source("s3_bucket")},
		{Name: "s3_region", Value: c.S3Region, Source: c.Source("s3_region")},
		{Name: "s3_endpoint", Value: c.S3Endpoint, Source: c.Source("s3_endpoint")},
		{Name: "default_locale", Value: c.DefaultLocale, Source: c.Source("default_locale")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
	}
}

// FormatText returns a text representation of the configuration
func (c *ZealotConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *ZealotConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
