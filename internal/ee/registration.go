package ee

import (
	"log/slog"
	"sync"

	"github.com/roach88/eegraph/internal/apifunc"
)

// typeRegistration is the process-wide state for one wrapper type: the
// methods imported from the registry and the constructor function.
// initialize runs at most once until reset.
type typeRegistration struct {
	name   string
	prefix string

	mu          sync.Mutex
	initialized bool
	methods     apifunc.MethodSet
	constructor *apifunc.Function
}

var (
	dateType = &typeRegistration{name: apifunc.TypeDate, prefix: "Date"}
	listType = &typeRegistration{name: apifunc.TypeList, prefix: "List"}

	registryMu sync.RWMutex
	registry   *apifunc.Registry
)

// activeRegistry returns the registry the types import from.
func activeRegistry() *apifunc.Registry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if registry == nil {
		return apifunc.Default()
	}
	return registry
}

// UseRegistry resets every type and makes later initialization import from
// r. A nil r selects apifunc.Default().
func UseRegistry(r *apifunc.Registry) {
	Reset()
	registryMu.Lock()
	registry = r
	registryMu.Unlock()
}

// ensure initializes the type if needed and returns its state under lock.
func (tr *typeRegistration) ensure() (apifunc.MethodSet, *apifunc.Function) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if !tr.initialized {
		tr.initializeLocked()
	}
	return tr.methods, tr.constructor
}

func (tr *typeRegistration) initialize() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if !tr.initialized {
		tr.initializeLocked()
	}
}

func (tr *typeRegistration) initializeLocked() {
	reg := activeRegistry()
	tr.methods = reg.ImportAPI(tr.name, tr.prefix)

	// The constructor comes from the registry when it has one, so a catalog
	// can redeclare it; otherwise the builtin signature is used.
	if fn, err := reg.Lookup(tr.prefix); err == nil {
		tr.constructor = fn
	} else {
		tr.constructor = builtinFunction(tr.prefix)
	}
	tr.initialized = true
	slog.Debug("initialized type", "type", tr.name, "methods", len(tr.methods))
}

func (tr *typeRegistration) reset() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	activeRegistry().ClearAPI(tr.name)
	tr.methods = nil
	tr.constructor = nil
	tr.initialized = false
	slog.Debug("reset type", "type", tr.name)
}

func (tr *typeRegistration) method(name string) (apifunc.Method, error) {
	methods, _ := tr.ensure()
	if m, ok := methods[name]; ok {
		return m, nil
	}
	return apifunc.Method{}, &apifunc.CallError{
		Code:     apifunc.ErrCodeUnknownMethod,
		Function: tr.prefix + "." + name,
		Message:  "type " + tr.name + " has no imported method " + name,
	}
}

func (tr *typeRegistration) isInitialized() bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.initialized
}

// builtinFunction returns the builtin function for name, or nil for types
// that have no remote constructor (List).
func builtinFunction(name string) *apifunc.Function {
	for _, sig := range apifunc.Builtins() {
		if sig.Name == name {
			return apifunc.New(sig)
		}
	}
	return nil
}

// InitializeDate imports the Date methods. Safe to call repeatedly.
func InitializeDate() { dateType.initialize() }

// ResetDate removes the imported Date methods.
func ResetDate() { dateType.reset() }

// InitializeList imports the List methods. Safe to call repeatedly.
func InitializeList() { listType.initialize() }

// ResetList removes the imported List methods.
func ResetList() { listType.reset() }

// Initialize imports the methods of every type.
func Initialize() {
	InitializeDate()
	InitializeList()
}

// Reset removes the imported methods of every type.
func Reset() {
	ResetDate()
	ResetList()
}
