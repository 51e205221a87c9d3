// Package config is used to load the configuration file
package config

import (
	"fmt"
	"strings"

	"github.com/blacktop/segdump/pkg/macho"
	"github.com/spf13/viper"
)

// Config is the configuration struct
type Config struct {
	Verbose bool   `mapstructure:"verbose"`
	Color   bool   `mapstructure:"color"`
	JSON    bool   `mapstructure:"json"`
	Legacy  bool   `mapstructure:"legacy"`
	Arch    string `mapstructure:"arch"`
}

func (c *Config) verify() error {
	if c.Arch == "" {
		return nil
	}
	c.Arch = strings.ToLower(c.Arch)
	if _, ok := macho.LookupCPU(c.Arch); !ok {
		return fmt.Errorf("config: unsupported arch '%s'; must be one of: %s", c.Arch, strings.Join(macho.CPUNames(), ", "))
	}
	return nil
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return &c, nil
}
