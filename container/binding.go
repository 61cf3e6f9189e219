package container

import (
	"context"
	"fmt"
)

// Resolver resolves capabilities; constructors receive it to pull their dependencies
type Resolver interface {
	Resolve(ctx context.Context, capability string) (any, error)
}

// Provider builds the instance of one capability
type Provider func(ctx context.Context, r Resolver) (any, error)

// Binding maps a capability name to its constructor
type Binding struct {
	Capability string
	Provide    Provider
	// Type is the declared instance type, informational only
	Type string
}

// Bind builds a typed binding. T is the abstract type the capability stands for.
//
//	container.Bind[metier.Calculator]("metier", func(ctx context.Context, r container.Resolver) (metier.Calculator, error) {
//	    ds, err := container.Resolve[dao.DataSource](ctx, r, "dao")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return metier.NewCalculator(ds), nil
//	})
func Bind[T any](capability string, provide func(ctx context.Context, r Resolver) (T, error)) Binding {
	var provider Provider
	if provide != nil {
		provider = func(ctx context.Context, r Resolver) (any, error) {
			return provide(ctx, r)
		}
	}
	return Binding{
		Capability: capability,
		Provide:    provider,
		Type:       typeName[T](),
	}
}

// Value binds an already built instance
func Value[T any](capability string, instance T) Binding {
	return Bind[T](capability, func(context.Context, Resolver) (T, error) {
		return instance, nil
	})
}

// Resolve resolves a capability and asserts its type
func Resolve[T any](ctx context.Context, r Resolver, capability string) (T, error) {
	var zero T

	instance, err := r.Resolve(ctx, capability)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch.
			WithMsgf("capability %q is %T, not %s", capability, instance, typeName[T]()).
			WithFields(map[string]interface{}{
				"capability": capability,
				"expected":   typeName[T](),
				"actual":     fmt.Sprintf("%T", instance),
			})
	}
	return typed, nil
}

// MustResolve resolves a capability or panics
func MustResolve[T any](ctx context.Context, r Resolver, capability string) T {
	typed, err := Resolve[T](ctx, r, capability)
	if err != nil {
		panic(fmt.Sprintf("resolve %q: %v", capability, err))
	}
	return typed
}

// typeName gives the name of T, including interface types
func typeName[T any]() string {
	return fmt.Sprintf("%T", (*T)(nil))[1:]
}
