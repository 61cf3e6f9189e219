// Package container 能力容器：把能力名映射到构造函数，注入依赖，每个能力只创建一个实例
//
// Bindings are declared explicitly up front. Bootstrap resolves all of them
// eagerly in declaration order and seals the container; after that the wiring
// cannot change. A capability requested while it is still being constructed
// is a cycle and fails with ErrCyclicDependency instead of recursing.
//
// The container is single-threaded by contract and holds no locks.
package container

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/KOMKZ/go-yogan-calcul/errcode"
	"github.com/KOMKZ/go-yogan-calcul/logger"
	"go.uber.org/zap"
)

type entry struct {
	binding  Binding
	state    State
	instance any
}

// Container capability container
type Container struct {
	entries map[string]*entry
	order   []string // declaration order
	chain   []string // capabilities currently Resolving, outermost first
	sealed  bool
	logger  logger.Logger // optional
}

// Option configures a Container
type Option func(*Container)

// WithLogger sets the logger used for resolution traces
func WithLogger(l logger.Logger) Option {
	return func(c *Container) {
		c.logger = l
	}
}

// New creates an empty container
func New(opts ...Option) *Container {
	c := &Container{
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind declares a binding
func (c *Container) Bind(b Binding) error {
	if c.sealed {
		return ErrSealed.WithMsgf("cannot bind %q after bootstrap", b.Capability).
			WithData("capability", b.Capability)
	}
	if b.Capability == "" {
		return ErrInvalidBinding.WithMsg("capability name cannot be empty")
	}
	if b.Provide == nil {
		return ErrInvalidBinding.WithMsgf("capability %q has no constructor", b.Capability).
			WithData("capability", b.Capability)
	}
	if _, exists := c.entries[b.Capability]; exists {
		return ErrDuplicateBinding.WithMsgf("capability %q is already bound", b.Capability).
			WithData("capability", b.Capability)
	}

	c.entries[b.Capability] = &entry{binding: b, state: Unresolved}
	c.order = append(c.order, b.Capability)
	return nil
}

// BindAll declares several bindings, stopping at the first error
func (c *Container) BindAll(bindings ...Binding) error {
	for _, b := range bindings {
		if err := c.Bind(b); err != nil {
			return err
		}
	}
	return nil
}

// MustBind declares a binding or panics (fail fast for fixed wiring)
func (c *Container) MustBind(b Binding) {
	if err := c.Bind(b); err != nil {
		panic(fmt.Sprintf("bind %q: %v", b.Capability, err))
	}
}

// Resolve returns the single instance of a capability, constructing it and
// its dependencies on first use
func (c *Container) Resolve(ctx context.Context, capability string) (any, error) {
	e, ok := c.entries[capability]
	if !ok {
		err := ErrUnbound.WithMsgf("capability %q has no binding", capability).
			WithData("capability", capability)
		if len(c.chain) > 0 {
			err = err.WithData("required_by", c.chain[len(c.chain)-1])
		}
		return nil, err
	}

	switch e.state {
	case Resolved:
		return e.instance, nil
	case Resolving:
		cycle := c.cycleFrom(capability)
		c.logWarn(ctx, "检测到循环依赖", zap.Strings("chain", cycle))
		return nil, ErrCyclicDependency.
			WithMsgf("cyclic dependency: %s", strings.Join(cycle, " -> ")).
			WithFields(map[string]interface{}{
				"capability": capability,
				"chain":      cycle,
			})
	}

	if err := ctx.Err(); err != nil {
		return nil, ErrResolution.Wrapf(err, "resolve capability %q", capability).
			WithData("capability", capability)
	}

	return c.construct(ctx, capability, e)
}

// construct runs the constructor of an Unresolved entry
func (c *Container) construct(ctx context.Context, capability string, e *entry) (any, error) {
	start := time.Now()
	e.state = Resolving
	c.chain = append(c.chain, capability)
	c.logDebug(ctx, "resolving capability", zap.String("capability", capability), zap.Int("depth", len(c.chain)))

	instance, err := e.binding.Provide(ctx, c)

	c.chain = c.chain[:len(c.chain)-1]

	if err != nil {
		e.state = Unresolved
		if fromContainer(err) {
			return nil, err
		}
		wrapped := ErrResolution.Wrapf(err, "resolve capability %q", capability).
			WithData("capability", capability)
		// a domain error keeps its own exit code (e.g. invalid configuration)
		if code := errcode.ExitCode(err); code != errcode.ExitFailure {
			wrapped = wrapped.WithExitCode(code)
		}
		c.logDebug(ctx, "capability construction failed", zap.String("capability", capability), zap.Error(err))
		return nil, wrapped
	}

	e.instance = instance
	e.state = Resolved
	c.logDebug(ctx, "capability resolved",
		zap.String("capability", capability),
		zap.String("type", fmt.Sprintf("%T", instance)),
		zap.Duration("elapsed", time.Since(start)))
	return instance, nil
}

// cycleFrom builds "a -> b -> a" from the resolving chain
func (c *Container) cycleFrom(capability string) []string {
	start := 0
	for i, name := range c.chain {
		if name == capability {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(c.chain)-start+1)
	cycle = append(cycle, c.chain[start:]...)
	return append(cycle, capability)
}

// Bootstrap seals the container and eagerly resolves every binding in
// declaration order. It fails fast with the first error. Calling it again
// after a successful run is a no-op.
func (c *Container) Bootstrap(ctx context.Context) error {
	c.sealed = true

	start := time.Now()
	for _, capability := range c.order {
		if _, err := c.Resolve(ctx, capability); err != nil {
			c.logError(ctx, "容器启动失败", zap.String("capability", capability), zap.Error(err))
			return err
		}
	}

	c.logInfo(ctx, "✅ container bootstrapped",
		zap.Strings("capabilities", c.order),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// State returns the state of a capability; unknown capabilities are Unresolved
func (c *Container) State(capability string) State {
	if e, ok := c.entries[capability]; ok {
		return e.state
	}
	return Unresolved
}

// Has reports whether a capability is bound
func (c *Container) Has(capability string) bool {
	_, ok := c.entries[capability]
	return ok
}

// Capabilities lists bound capabilities in declaration order
func (c *Container) Capabilities() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Sealed reports whether Bootstrap has run
func (c *Container) Sealed() bool {
	return c.sealed
}

// logInfo 安全的日志记录（未设置 Logger 时静默忽略）
func (c *Container) logInfo(ctx context.Context, msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.InfoCtx(ctx, msg, fields...)
	}
}

func (c *Container) logDebug(ctx context.Context, msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.DebugCtx(ctx, msg, fields...)
	}
}

func (c *Container) logWarn(ctx context.Context, msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.WarnCtx(ctx, msg, fields...)
	}
}

func (c *Container) logError(ctx context.Context, msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.ErrorCtx(ctx, msg, fields...)
	}
}
