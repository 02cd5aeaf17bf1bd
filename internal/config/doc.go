// Package config provides the configuration system for rearrange.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Arguments  │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← REARRANGE_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .rearrange.toml / .rearrange.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - layer: Layer management and merging
//   - schema: Validation of configuration files against the embedded schema
//
// # Basic Usage
//
//	cfg := config.New(config.WithPath(".rearrange.toml"))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//
//	settings, err := cfg.Settings("java", scripts)
//
// # Configuration Files
//
//	[logging]
//	level = "debug"
//
//	[engine]
//	strategy = "marker"
//	scripts = ["order.lua"]
//
//	[[languages.java.sections]]
//	name = "constants"
//	start = "// Constants"
//
//	[[languages.java.sections.rules]]
//	types = ["field"]
//	modifiers = ["static", "final"]
//	order = "by_name"
//
// A file may pull in others with an "@include" list. Included files are
// merged first so the including file wins. The merged file is validated
// before use; unknown keys and out-of-range values are errors.
//
// # Thread Safety
//
// All Config methods are safe for concurrent use.
package config
