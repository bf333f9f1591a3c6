package config

import (
	"encoding/json"
	"fmt"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/coresecurity"
	ConfigFileName    = "coresecurity.yml"
	EnvPrefix         = "CORESEC"
)

// Attribute sources
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// Config holds all coresecurity settings
type Config struct {
	// TrustedProxies is a list of CIDR ranges whose X-Forwarded-For is honoured
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// AccessIPCheckEnabled rejects clients missing from the IP allow-list
	AccessIPCheckEnabled bool `yaml:"access_ip_check_enabled" json:"access_ip_check_enabled"`

	// SeedOnStartup runs the bootstrap seeder when the server is ready
	SeedOnStartup bool `yaml:"seed_on_startup" json:"seed_on_startup"`

	// SeedFile is a YAML rule table replacing the built-in defaults
	SeedFile string `yaml:"seed_file" json:"seed_file"`

	// SeedAccessIPs are the addresses written to the allow-list
	SeedAccessIPs []string `yaml:"seed_access_ips" json:"seed_access_ips"`

	// BcryptCost is the work factor for seeded user passwords
	BcryptCost int `yaml:"bcrypt_cost" json:"bcrypt_cost"`

	sources        map[string]string
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// overrides is decoded from both the config file and the environment.
// A nil field means the layer does not set that attribute.
type overrides struct {
	TrustedProxies       *[]string `yaml:"trusted_proxies" envconfig:"TRUSTED_PROXIES"`
	AccessIPCheckEnabled *bool     `yaml:"access_ip_check_enabled" envconfig:"ACCESS_IP_CHECK_ENABLED"`
	SeedOnStartup        *bool     `yaml:"seed_on_startup" envconfig:"SEED_ON_STARTUP"`
	SeedFile             *string   `yaml:"seed_file" envconfig:"SEED_FILE"`
	SeedAccessIPs        *[]string `yaml:"seed_access_ips" envconfig:"SEED_ACCESS_IPS"`
	BcryptCost           *int      `yaml:"bcrypt_cost" envconfig:"BCRYPT_COST"`
}

// newDefault returns a config with default values
func newDefault() *Config {
	c := &Config{
		TrustedProxies:       []string{},
		AccessIPCheckEnabled: false,
		SeedOnStartup:        true,
		SeedFile:             "",
		SeedAccessIPs:        []string{"127.0.0.1"},
		BcryptCost:           bcrypt.DefaultCost,
		sources:              make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	configPath := os.Getenv(EnvPrefix + "_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file overrides
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.apply(file, SourceFile)
	}

	var env overrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	config.apply(env, SourceEnvironment)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func attributeNames() []string {
	return []string{
		"trusted_proxies", "access_ip_check_enabled", "seed_on_startup",
		"seed_file", "seed_access_ips", "bcrypt_cost",
	}
}

func (c *Config) apply(o overrides, source string) {
	if o.TrustedProxies != nil {
		c.TrustedProxies = trimAll(*o.TrustedProxies)
		c.sources["trusted_proxies"] = source
	}
	if o.AccessIPCheckEnabled != nil {
		c.AccessIPCheckEnabled = *o.AccessIPCheckEnabled
		c.sources["access_ip_check_enabled"] = source
	}
	if o.SeedOnStartup != nil {
		c.SeedOnStartup = *o.SeedOnStartup
		c.sources["seed_on_startup"] = source
	}
	if o.SeedFile != nil {
		c.SeedFile = *o.SeedFile
		c.sources["seed_file"] = source
	}
	if o.SeedAccessIPs != nil {
		c.SeedAccessIPs = trimAll(*o.SeedAccessIPs)
		c.sources["seed_access_ips"] = source
	}
	if o.BcryptCost != nil {
		c.BcryptCost = *o.BcryptCost
		c.sources["bcrypt_cost"] = source
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
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
			if trusted := net.ParseIP(cidr); trusted != nil && trusted.Equal(parsedIP) {
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
func (c *Config) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	for _, addr := range c.SeedAccessIPs {
		if _, err := netip.ParseAddr(addr); err != nil {
			return fmt.Errorf("invalid seed_access_ips value: %s", addr)
		}
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("invalid bcrypt_cost %d: must be between %d and %d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "access_ip_check_enabled", Value: strconv.FormatBool(c.AccessIPCheckEnabled), Source: c.Source("access_ip_check_enabled")},
		{Name: "seed_on_startup", Value: strconv.FormatBool(c.SeedOnStartup), Source: c.Source("seed_on_startup")},
		{Name: "seed_file", Value: c.SeedFile, Source: c.Source("seed_file")},
		{Name: "seed_access_ips", Value: strings.Join(c.SeedAccessIPs, ","), Source: c.Source("seed_access_ips")},
		{Name: "bcrypt_cost", Value: strconv.Itoa(c.BcryptCost), Source: c.Source("bcrypt_cost")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-28s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-28s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-28s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
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

func trimAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
