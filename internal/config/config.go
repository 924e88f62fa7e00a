package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the generator settings. Command-line flags map onto the
// same fields and take precedence over a config file.
type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Encrypt    bool   `yaml:"encrypt"`
	Directory  string `yaml:"directory"`
	Prefix     string `yaml:"prefix"`
	Verbose    bool   `yaml:"verbose"`
	AdminURL   bool   `yaml:"admin_url"`
	Log        string `yaml:"log"`
	MaxLogSize int64  `yaml:"max_log_size"`
}

func Default() Config {
	return Config{
		Port:       631,
		Prefix:     "AirPrint-",
		Log:        "stderr",
		MaxLogSize: 1 << 20,
	}
}

// LoadFile returns the defaults overlaid with the YAML file at path.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxLogSize < 0 {
		return fmt.Errorf("max_log_size must not be negative")
	}
	return nil
}
