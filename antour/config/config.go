// Package config loads the antour service configuration from YAML.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/radekwlsk/go-antour/antour/antourservice"
	"github.com/radekwlsk/go-antour/antour/antourservice/ants"
	"github.com/radekwlsk/go-antour/utils/str"
)

const DefaultHTTPAddr = ":8080"

type HTTP struct {
	Addr      string  `yaml:"addr"`
	// RateLimit is the number of solve requests allowed per second, 0 disables limiting.
	RateLimit float64 `yaml:"rateLimit"`
	Burst     int     `yaml:"burst"`

	// AllowedOrigins may open the run stream besides the serving host, "*" allows any.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type Cache struct {
	Enabled bool `yaml:"enabled"`

	// Size is the most solutions kept, the oldest are dropped first.
	Size int `yaml:"size"`
}

// Defaults mirrors ants.Parameters with the deposit policy given by name.
type Defaults struct {
	ants.Parameters `yaml:",inline"`
	Deposit         string `yaml:"deposit"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Workers  int      `yaml:"workers"`
	Cache    Cache    `yaml:"cache"`
	Defaults Defaults `yaml:"defaults"`
}

func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:      DefaultHTTPAddr,
			RateLimit: 5,
			Burst:     10,
		},
		Workers: runtime.GOMAXPROCS(0),
		Cache:   Cache{Enabled: true, Size: antourservice.DefaultCacheSize},
		Defaults: Defaults{
			Parameters: ants.DefaultParameters(),
			Deposit:    ants.DepositAll.String(),
		},
	}
}

// Load overlays the YAML file at path on Default. An empty path yields Default.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, c.Validate()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	return c, c.Validate()
}

// Validate normalizes c and checks the default parameters.
func (c *Config) Validate() error {
	c.HTTP.Addr = str.EmptyDefault(c.HTTP.Addr, DefaultHTTPAddr)
	if c.Workers < 1 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rateLimit must not be negative, got %v", c.HTTP.RateLimit)
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.Burst < 1 {
		c.HTTP.Burst = 1
	}
	if c.Cache.Size < 1 {
		c.Cache.Size = antourservice.DefaultCacheSize
	}
	deposit, err := ants.ParseDepositPolicy(c.Defaults.Deposit)
	if err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	c.Defaults.Parameters.Deposit = deposit
	if err := c.Defaults.Parameters.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

func (c Config) ServiceOptions() antourservice.Options {
	return antourservice.Options{
		Defaults:  c.Defaults.Parameters,
		Workers:   c.Workers,
		Cache:     c.Cache.Enabled,
		CacheSize: c.Cache.Size,
	}
}
