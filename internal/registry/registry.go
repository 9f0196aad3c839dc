package registry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/pixel"
)

var (
	ErrUnknownKind   = errors.New("unknown block kind")
	ErrInvalidParams = errors.New("invalid block parameters")
	// ErrInputNotReady is returned by process functions that cannot run yet,
	// typically because an upstream block holds no image.
	ErrInputNotReady = errors.New("input not ready")
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered block kinds for a single application instance.
type Registry struct {
	kinds    map[string]*RegisteredKind
	order    []string
	validate *validator.Validate
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	v := validator.New()
	if err := v.RegisterValidation("kernel_shape", validKernel); err != nil {
		panic(fmt.Sprintf("failed to register kernel_shape validation: %v", err))
	}
	return &Registry{
		kinds:    make(map[string]*RegisteredKind),
		validate: v,
	}
}

// validKernel accepts an absent kernel or a square, odd-sized one.
func validKernel(fl validator.FieldLevel) bool {
	k, ok := fl.Field().Interface().([][]float64)
	if !ok {
		return false
	}
	return len(k) == 0 || pixel.Kernel(k).Validate() == nil
}

// RegisterKind adds a block kind. Registering the same name twice is a
// programming error and panics.
func (r *Registry) RegisterKind(k *RegisteredKind) {
	if _, exists := r.kinds[k.Name]; exists {
		panic(fmt.Sprintf("block kind with name '%s' already registered", k.Name))
	}
	slog.Debug("Registering block kind.", "name", k.Name, "inputs", len(k.Inputs), "outputs", len(k.Outputs))
	r.kinds[k.Name] = k
	r.order = append(r.order, k.Name)
}

// Kind returns a registered kind by name.
func (r *Registry) Kind(name string) (*RegisteredKind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Kinds returns every registered kind in registration order.
func (r *Registry) Kinds() []*RegisteredKind {
	out := make([]*RegisteredKind, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.kinds[name])
	}
	return out
}

// Names returns the registered kind names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// NewBlock instantiates a block of the named kind at (x, y) with the kind's
// fixed ports and default parameters.
func (r *Registry) NewBlock(name string, x, y float64) (*node.Block, error) {
	k, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	params, err := r.Normalize(k, nil)
	if err != nil {
		return nil, err
	}
	b := node.NewBlock(k.Name, k.Inputs, k.Outputs, params)
	b.X, b.Y = x, y
	return b, nil
}
