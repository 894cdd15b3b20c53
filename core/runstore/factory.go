package runstore

import "github.com/aguepe1/Fleet-Simulator/core/factory"

var storeRegistry = factory.NewRegistry[RunStore]()

// RegisterRunStore adds a store factory identified by name.
func RegisterRunStore(name string, f factory.Factory[RunStore]) error {
	return storeRegistry.Register(name, f)
}

// New creates the store described by cfg. An empty type selects an
// in-memory store.
func New(cfg factory.ModuleConfig) (RunStore, error) {
	if cfg.Type == "" {
		return NewMemoryStore(), nil
	}
	return storeRegistry.Create(cfg)
}

func init() {
	_ = RegisterRunStore("memory", func(map[string]any) (RunStore, error) {
		return NewMemoryStore(), nil
	})
	_ = RegisterRunStore("jsonl", func(conf map[string]any) (RunStore, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "runs.jsonl"
		}
		return NewJSONLStore(c.Path)
	})
	_ = RegisterRunStore("jsonl_rotating", func(conf map[string]any) (RunStore, error) {
		c := struct {
			Path       string `json:"path"`
			MaxSizeMB  int    `json:"max_size_mb"`
			MaxBackups int    `json:"max_backups"`
			MaxAgeDays int    `json:"max_age_days"`
		}{Path: "runs/runs.jsonl", MaxSizeMB: 50, MaxBackups: 5, MaxAgeDays: 30}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	_ = RegisterRunStore("sqlite", func(conf map[string]any) (RunStore, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "runs.db"
		}
		return NewSQLiteStore(c.Path)
	})
}
