package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rearrange/internal/arrange"
	"github.com/dshills/rearrange/internal/logging"
)

// Engine loads scripts and resolves their functions as comparators and
// matchers.
//
// Comparators and matchers cannot return errors to the ranking code. A
// failing call counts as "equal" or "no match"; the first failure is kept
// and reported by Err.
type Engine struct {
	state *State
	log   *logging.Logger
	dir   string

	mu  sync.Mutex
	err error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithDir sets the directory relative script paths are resolved in.
func WithDir(dir string) Option {
	return func(e *Engine) {
		e.dir = dir
	}
}

// WithStateOptions configures the underlying Lua state.
func WithStateOptions(opts ...StateOption) Option {
	return func(e *Engine) {
		e.state = NewState(opts...)
	}
}

// New creates an engine with an empty sandboxed state.
func New(opts ...Option) *Engine {
	e := &Engine{log: logging.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.state == nil {
		e.state = NewState()
	}
	e.log = e.log.WithComponent("script")
	return e
}

// Load executes script files in order. Later scripts may redefine
// functions of earlier ones.
func (e *Engine) Load(paths ...string) error {
	for _, p := range paths {
		if e.dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(e.dir, p)
		}
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("load script: %w", err)
		}
		if err := e.state.DoFile(p); err != nil {
			return fmt.Errorf("load script %s: %w", p, err)
		}
		e.log.Debug("loaded %s", p)
	}
	return nil
}

// LoadString executes script source.
func (e *Engine) LoadString(code string) error {
	return e.state.DoString(code)
}

// Comparator returns the comparator defined by the global function name.
func (e *Engine) Comparator(name string) (arrange.Comparator, error) {
	if !e.state.HasFunction(name) {
		return nil, fmt.Errorf("comparator %q: %w", name, ErrFunctionNotFound)
	}
	return func(a, b *arrange.Entry) int {
		v, err := e.call(name, a, b)
		if err != nil {
			return 0
		}
		switch r := v.(type) {
		case lua.LNumber:
			return sign(r)
		case lua.LBool:
			if r {
				return -1
			}
			// false only says a does not sort before b.
			if rv, err := e.call(name, b, a); err == nil && rv == lua.LTrue {
				return 1
			}
			return 0
		}
		e.fail(name, fmt.Errorf("comparator returned %s, want number or boolean", v.Type()))
		return 0
	}, nil
}

// Matcher returns the matcher defined by the global function name.
func (e *Engine) Matcher(name string) (arrange.Matcher, error) {
	if !e.state.HasFunction(name) {
		return nil, fmt.Errorf("matcher %q: %w", name, ErrFunctionNotFound)
	}
	return arrange.MatcherFunc(func(entry *arrange.Entry) bool {
		v, err := e.call(name, entry)
		if err != nil {
			return false
		}
		return lua.LVAsBool(v)
	}), nil
}

func (e *Engine) call(name string, entries ...*arrange.Entry) (lua.LValue, error) {
	v, err := e.state.Call(name, func(L *lua.LState) []lua.LValue {
		args := make([]lua.LValue, len(entries))
		for i, entry := range entries {
			args[i] = entryTable(L, entry)
		}
		return args
	})
	if err != nil {
		e.fail(name, err)
	}
	return v, err
}

func (e *Engine) fail(name string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err == nil {
		e.err = fmt.Errorf("script %s: %w", name, err)
		e.log.Warn("%v", e.err)
	}
}

// Err returns the first call failure since the last Reset.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Reset clears the recorded failure.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = nil
}

// Close releases the Lua state.
func (e *Engine) Close() error {
	return e.state.Close()
}
