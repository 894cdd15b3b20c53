package config

import "errors"

// ServerConfig configures `fleetsim serve`.
type ServerConfig struct {
	Addr string `json:"addr"`
	// AuthToken protects /api endpoints with a bearer token when set.
	AuthToken      string   `json:"auth_token"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// SetDefaults fills optional fields.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("server.addr is required")
	}
	return nil
}
