package container

import (
	"errors"

	"github.com/KOMKZ/go-yogan-calcul/errcode"
)

// ModuleCode container error module code
const ModuleCode = 10

const moduleName = "container"

// Process exit codes of resolution failures
const (
	ExitResolution = 2
	ExitCycle      = 3
)

var (
	// ErrResolution a constructor failed while producing a capability
	ErrResolution = errcode.Register(errcode.New(ModuleCode, 1, moduleName,
		"error.container.resolution", "capability resolution failed", ExitResolution))

	// ErrCyclicDependency the wiring graph contains a cycle reachable from the requested capability
	ErrCyclicDependency = errcode.Register(errcode.New(ModuleCode, 2, moduleName,
		"error.container.cyclic_dependency", "cyclic dependency", ExitCycle))

	// ErrUnbound no binding exists for the requested capability
	ErrUnbound = errcode.Register(errcode.New(ModuleCode, 3, moduleName,
		"error.container.unbound", "capability has no binding", ExitResolution))

	// ErrTypeMismatch the resolved instance does not satisfy the requested type
	ErrTypeMismatch = errcode.Register(errcode.New(ModuleCode, 4, moduleName,
		"error.container.type_mismatch", "capability type mismatch", ExitResolution))

	// ErrDuplicateBinding the capability is already bound
	ErrDuplicateBinding = errcode.Register(errcode.New(ModuleCode, 5, moduleName,
		"error.container.duplicate_binding", "capability already bound"))

	// ErrSealed bindings cannot change after bootstrap
	ErrSealed = errcode.Register(errcode.New(ModuleCode, 6, moduleName,
		"error.container.sealed", "container is sealed"))

	// ErrInvalidBinding empty capability name or missing constructor
	ErrInvalidBinding = errcode.Register(errcode.New(ModuleCode, 7, moduleName,
		"error.container.invalid_binding", "invalid binding"))
)

// IsResolutionError reports whether err is of the resolution kind:
// an unbound capability, a failed constructor or a type mismatch.
// Cycles have their own kind, see ErrCyclicDependency.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrResolution) ||
		errors.Is(err, ErrUnbound) ||
		errors.Is(err, ErrTypeMismatch)
}

// IsCyclicDependency reports whether err is a cycle error
func IsCyclicDependency(err error) bool {
	return errors.Is(err, ErrCyclicDependency)
}

// fromContainer reports whether err already originates from a container
func fromContainer(err error) bool {
	var layered *errcode.LayeredError
	return errors.As(err, &layered) && layered.Module() == moduleName
}
