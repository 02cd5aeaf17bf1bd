package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/dshills/rearrange/internal/config/layer"
	"github.com/dshills/rearrange/internal/config/loader"
	"github.com/dshills/rearrange/internal/config/schema"
)

// DefaultFileNames are searched in the working directory when no config
// file is given.
var DefaultFileNames = []string{".rearrange.toml", ".rearrange.yaml", ".rearrange.yml"}

// maxIncludeDepth bounds nested @include directives.
const maxIncludeDepth = 8

// Config provides unified access to the rearrange configuration.
// Values come from layers: built-in defaults, the config file, the
// environment and command-line flags, in increasing priority.
type Config struct {
	mu sync.RWMutex

	layers *layer.Manager

	fs        loader.FileSystem
	path      string
	dir       string
	envPrefix string
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets the configuration file. Missing files are an error.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithDir sets the directory searched for DefaultFileNames.
func WithDir(dir string) Option {
	return func(c *Config) {
		c.dir = dir
	}
}

// WithFS sets the file system configuration files are read from.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvPrefix sets the prefix of environment variables read by Load.
// An empty prefix disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// New creates a new Config instance holding the built-in defaults.
func New(opts ...Option) *Config {
	c := &Config{
		layers:    layer.NewManager(),
		fs:        loader.DefaultFS(),
		dir:       ".",
		envPrefix: loader.EnvPrefix,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.layers.AddLayer(layer.NewLayer(layer.SourceBuiltin, defaultConfig()))
	return c
}

// Load reads the configuration file and the environment. It may be called
// again to pick up changes.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadFile(); err != nil {
		return err
	}
	return c.loadEnvironment()
}

// Path returns the configuration file in use, or "" if none was found.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if l := c.layers.GetLayer(layer.SourceFile.String()); l != nil {
		return l.Path
	}
	return ""
}

func (c *Config) loadFile() error {
	path := c.path
	if path == "" {
		for _, name := range DefaultFileNames {
			candidate := filepath.Join(c.dir, name)
			if _, err := c.fs.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		c.layers.RemoveLayer(layer.SourceFile.String())
		return nil
	}

	data, err := includeLoader(loader.ForPath(c.fs, path)).LoadWithIncludes(path, maxIncludeDepth)
	if err != nil {
		return err
	}
	if data == nil {
		if c.path != "" {
			return fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return nil
	}

	if err := validate(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	l := layer.NewLayer(layer.SourceFile, data)
	l.Path = path
	c.layers.AddLayer(l)
	return nil
}

// validate checks file data against the embedded schema. Unknown keys
// are errors.
func validate(data map[string]any) error {
	s, err := schema.LoadEmbedded()
	if err != nil {
		return err
	}
	return schema.NewValidator(s).WithStrictMode(true).Validate(data)
}

type withIncludes interface {
	LoadWithIncludes(path string, maxDepth int) (map[string]any, error)
}

func includeLoader(l loader.FileLoader) withIncludes {
	return l.(withIncludes)
}

func (c *Config) loadEnvironment() error {
	if c.envPrefix == "" {
		return nil
	}
	data, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return err
	}

	if len(data) > 0 {
		c.layers.AddLayer(layer.NewLayer(layer.SourceEnv, data))
	} else {
		c.layers.RemoveLayer(layer.SourceEnv.String())
	}
	return nil
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return layer.GetByPath(c.layers.Merge(), path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	n, ok := toInt(v)
	if !ok {
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
	return n, nil
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetStringSlice returns a string slice at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	s, ok := toStringSlice(v)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
	return s, nil
}

// Set overrides a value in the command-line layer.
func (c *Config) Set(path string, value any) error {
	if path == "" {
		return ErrInvalidPath
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.layers.Set(layer.SourceArgs, path, value)
	return nil
}

// Merged returns the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Merge()
}

// IsNotFound reports whether err means a setting is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSettingNotFound) || errors.Is(err, fs.ErrNotExist)
}

func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	}
	return 0, false
}

func toStringSlice(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return val, true
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			result[i] = s
		}
		return result, true
	case string:
		return []string{val}, true
	}
	return nil, false
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
