package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Load reads, parses and validates a YAML config file.
func Load(path string) (Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(file)
}

// Parse parses and validates raw YAML config data. Unknown keys are
// rejected so that typos in scenario files fail fast.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, err
	}
	c.applyDefaults()
	if err := validator.New().Struct(c); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Control.Episodes == 0 {
		c.Control.Episodes = 1
	}
	if len(c.Control.Metrics) == 0 {
		c.Control.Metrics = []string{"headway_std", "schedule_deviation", "hold_time", "queueing_delay"}
	}
	if c.Scenario.RouteID == "" {
		c.Scenario.RouteID = "R1"
	}
	if c.Agent.Name == "" {
		c.Agent.Name = "do_nothing"
	}
}

// HasMetric reports whether the named metric was requested.
func (c ControlConfig) HasMetric(name string) bool {
	for _, m := range c.Metrics {
		if m == name {
			return true
		}
	}
	return false
}
