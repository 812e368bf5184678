package apifunc

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ir"
)

// Method is a function imported onto a type.
type Method struct {
	*Function

	// Instance is true when the first declared argument has the receiver's
	// type, so a wrapper value can be bound to it.
	Instance bool
}

// Bind builds an invocation node for the method. For instance methods the
// receiver becomes the first argument.
func (m Method) Bind(receiver any, args ...any) (*computed.Node, error) {
	if m.Instance {
		return m.Call(append([]any{receiver}, args...)...)
	}
	return m.Call(args...)
}

// MethodSet maps bare method names ("advance") to imported methods.
type MethodSet map[string]Method

// Names returns the method names in sorted order.
func (ms MethodSet) Names() []string {
	return sortedKeys(ms)
}

// Registry maps remote operation names to their signatures and records
// which types have imported which method sets.
// Thread-safety: all methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]*Function
	bound map[string]MethodSet
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]*Function),
		bound: make(map[string]MethodSet),
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	if err := r.Register(Builtins()...); err != nil {
		panic(fmt.Sprintf("apifunc: invalid builtin signatures: %v", err))
	}
	return r
})

// Default returns the process-wide registry, seeded with Builtins.
func Default() *Registry {
	return defaultRegistry()
}

// Register validates and adds signatures. A signature whose name is
// already registered replaces the old one. Nothing is registered when any
// signature is invalid; the returned error lists every problem.
func (r *Registry) Register(sigs ...ir.FunctionSig) error {
	var result *multierror.Error
	for _, sig := range sigs {
		for _, verr := range sig.Validate() {
			result = multierror.Append(result, fmt.Errorf("%s: %w", sig.Name, verr))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sig := range sigs {
		r.funcs[sig.Name] = New(sig)
	}
	slog.Debug("registered function signatures", "count", len(sigs), "total", len(r.funcs))
	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (*Function, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &CallError{
			Code:     ErrCodeUnknownFunction,
			Function: name,
			Message:  "unknown function",
		}
	}
	return fn, nil
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.funcs)
}

// Signatures returns all registered signatures ordered by name.
func (r *Registry) Signatures() []ir.FunctionSig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sigs := make([]ir.FunctionSig, 0, len(r.funcs))
	for _, name := range sortedKeys(r.funcs) {
		sigs = append(sigs, r.funcs[name].Signature())
	}
	return sigs
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.funcs)
}

// ImportAPI collects every function named "<prefix>.<method>" into a method
// set for typeName and records it as bound. Importing again replaces the
// previous set with identical data.
func (r *Registry) ImportAPI(typeName, prefix string) MethodSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	methods := make(MethodSet)
	lead := prefix + "."
	for name, fn := range r.funcs {
		method, ok := strings.CutPrefix(name, lead)
		if !ok || method == "" || strings.Contains(method, ".") {
			continue
		}
		args := fn.sig.Args
		methods[method] = Method{
			Function: fn,
			Instance: len(args) > 0 && args[0].Type == typeName,
		}
	}
	r.bound[typeName] = methods

	slog.Debug("imported api methods", "type", typeName, "prefix", prefix, "count", len(methods))
	return methods
}

// ClearAPI removes the method set bound to typeName.
func (r *Registry) ClearAPI(typeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bound, typeName)
	slog.Debug("cleared api methods", "type", typeName)
}

// Imported returns the method set bound to typeName.
func (r *Registry) Imported(typeName string) (MethodSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ms, ok := r.bound[typeName]
	return ms, ok
}

// Method looks up one imported method of typeName.
func (r *Registry) Method(typeName, method string) (Method, error) {
	ms, ok := r.Imported(typeName)
	if ok {
		if m, ok := ms[method]; ok {
			return m, nil
		}
	}
	return Method{}, &CallError{
		Code:     ErrCodeUnknownMethod,
		Function: typeName + "." + method,
		Message:  fmt.Sprintf("type %s has no imported method %q", typeName, method),
	}
}
