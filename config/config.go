package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/aguepe1/Fleet-Simulator/core/factory"
	"github.com/aguepe1/Fleet-Simulator/core/metrics"
	"github.com/aguepe1/Fleet-Simulator/core/model"
	"github.com/aguepe1/Fleet-Simulator/infra/logger"
	"github.com/aguepe1/Fleet-Simulator/infra/monitoring"
	"github.com/aguepe1/Fleet-Simulator/infra/mqtt"
)

// EnvPrefix marks environment variables that override file settings.
// Nested keys are separated by a double underscore, for example
// FLEETSIM_SIMULATION__REQUIRED_OPERATIONAL=20.
const EnvPrefix = "FLEETSIM_"

// Config is the full application configuration.
type Config struct {
	Simulation model.SimulationConfig `json:"simulation"`
	Search     SearchConfig           `json:"search"`
	Logging    logger.Config          `json:"logging"`
	Store      factory.ModuleConfig   `json:"store"`
	Metrics    metrics.Config         `json:"metrics"`
	MQTT       mqtt.Config            `json:"mqtt"`
	Server     ServerConfig           `json:"server"`
	Monitoring monitoring.Config      `json:"monitoring"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{Simulation: model.DefaultSimulationConfig()}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills optional fields of every section.
func (c *Config) SetDefaults() {
	c.Simulation.SetDefaults()
	c.Search.SetDefaults()
	c.Logging.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
	c.Server.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}

// Load reads the configuration at path, applies environment overrides and
// validates the result. An empty path starts from Default and only applies
// the environment. Settings missing from the file keep their default.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	// Lists given in the file replace the defaults instead of merging into them.
	if k.Exists("simulation.hourly_demand") {
		cfg.Simulation.HourlyDemand = nil
	}
	if k.Exists("simulation.maintenance_policy") {
		cfg.Simulation.MaintenancePolicy = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
