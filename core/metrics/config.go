package metrics

import "github.com/aguepe1/Fleet-Simulator/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// Namespace prefixes every exported metric name.
	Namespace string `json:"namespace"`
}

// SetDefaults fills optional fields.
func (c *Config) SetDefaults() {
	if c.Namespace == "" {
		c.Namespace = "fleetsim"
	}
}
