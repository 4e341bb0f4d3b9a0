package wolfssl

import (
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/logging"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
)

// Observer receives lifecycle events. Implementations must be safe for
// concurrent use; release events are delivered while the handle's lock is
// held, so they must not call back into the Context or Session.
type Observer interface {
	ContextBuilt(m Method)
	ContextReleased(m Method)
	SessionCreated(m Method)
	SessionReleased(m Method)
	StepFailed(m Method, step Step, err error)
}

type nopObserver struct{}

func (nopObserver) ContextBuilt(Method)            {}
func (nopObserver) ContextReleased(Method)         {}
func (nopObserver) SessionCreated(Method)          {}
func (nopObserver) SessionReleased(Method)         {}
func (nopObserver) StepFailed(Method, Step, error) {}

// Observers fans events out to each non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) ContextBuilt(method Method) {
	for _, o := range m {
		o.ContextBuilt(method)
	}
}

func (m multiObserver) ContextReleased(method Method) {
	for _, o := range m {
		o.ContextReleased(method)
	}
}

func (m multiObserver) SessionCreated(method Method) {
	for _, o := range m {
		o.SessionCreated(method)
	}
}

func (m multiObserver) SessionReleased(method Method) {
	for _, o := range m {
		o.SessionReleased(method)
	}
}

func (m multiObserver) StepFailed(method Method, step Step, err error) {
	for _, o := range m {
		o.StepFailed(method, step, err)
	}
}

// env is shared by a builder, the Context it produces, every clone of that
// Context and every Session created from it.
type env struct {
	engine   native.Engine
	logger   logging.Logger
	observer Observer
}

// Option configures NewContextBuilder.
type Option func(*env)

// WithEngine selects the engine. The default is DefaultEngine(), which
// requires the native bindings.
func WithEngine(e native.Engine) Option {
	return func(c *env) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithLogger sets the logger. The default writes to slog.Default().
func WithLogger(l logging.Logger) Option {
	return func(c *env) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers lifecycle hooks, for example a metrics collector.
func WithObserver(o Observer) Option {
	return func(c *env) {
		if o != nil {
			c.observer = o
		}
	}
}

func newEnv(opts []Option) (*env, error) {
	c := &env{
		logger:   logging.New(nil),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		e, err := DefaultEngine()
		if err != nil {
			return nil, err
		}
		c.engine = e
	}
	return c, nil
}
