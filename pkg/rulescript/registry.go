package rulescript

import (
	"os"
	"strings"
	"sync"
)

// Factory constructs a fresh Script handle. Called once per worker: the
// bridge is not thread-safe, so every worker owns its own handle.
type Factory func() Script

var (
	mu       sync.Mutex
	registry = map[string]Factory{}
)

// Register installs a named rule script factory. Rule scripts register
// themselves from an init() function; see pkg/rulescript/chess and
// pkg/rulescript/toy1d.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	registry[name] = factory
}

// New looks up a registered rule script by name and returns a fresh handle.
func New(name string) (Script, error) {
	mu.Lock()
	factory, ok := registry[name]
	mu.Unlock()

	if !ok {
		return nil, newScriptError("unknown rule script %q", name)
	}
	return factory(), nil
}

// Load stands in for an out-of-scope script host: it reads a
// script "file" whose content is the name of a registered rule script, and
// constructs a fresh handle for it. A real host would instead parse and
// execute an arbitrary script; this repository only specifies the interface
// such a host must expose (Script), not its implementation.
func Load(path string) (Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ScriptError{Kind: KindScript, Message: "failed to load rule script " + path, Cause: err}
	}

	name := strings.TrimSpace(string(raw))
	if name == "" {
		return nil, newScriptError("empty rule script %q", path)
	}

	script, err := New(name)
	if err != nil {
		return nil, &ScriptError{Kind: KindScript, Message: "failed to execute rule script " + path, Cause: err}
	}
	return script, nil
}
