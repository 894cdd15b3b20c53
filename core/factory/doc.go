// Package factory is a small generic registry used to build pluggable
// modules (metrics sinks, run stores) from configuration. A module is named
// by a type string and carries a map of raw settings that its factory decodes
// into a typed struct.
//
//	reg := factory.NewRegistry[runstore.RunStore]()
//	_ = reg.Register("jsonl", func(conf map[string]any) (runstore.RunStore, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return runstore.NewJSONLStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "runs.jsonl"}})
package factory
