package wolfssl_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coinbase/wolfssl-go/internal/testcerts"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/logging"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/softssl"
)

var certs = sync.OnceValue(func() *testcerts.Set {
	return testcerts.MustNew("wolfssl.test")
})

type fixture struct {
	engine *softssl.Engine
	events *recorder
	opts   []wolfssl.Option
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{engine: softssl.New(), events: &recorder{}}
	f.opts = []wolfssl.Option{
		wolfssl.WithEngine(f.engine),
		wolfssl.WithLogger(logging.Discard()),
		wolfssl.WithObserver(f.events),
	}
	return f
}

func (f *fixture) builder(t *testing.T, m wolfssl.Method) *wolfssl.ContextBuilder {
	t.Helper()
	b, err := wolfssl.NewContextBuilder(m, f.opts...)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}

func (f *fixture) requireClean(t *testing.T) {
	t.Helper()
	st := f.engine.Stats()
	require.True(t, st.Clean(), "engine accounting: %+v", st)
	require.Zero(t, st.ContextsLive(), "contexts leaked: %+v", st)
	require.Zero(t, st.SessionsLive(), "sessions leaked: %+v", st)
}

type counts struct {
	built            int
	ctxReleased      int
	sessionsCreated  int
	sessionsReleased int
	failures         []wolfssl.Step
}

type recorder struct {
	mu sync.Mutex
	c  counts
}

func (r *recorder) ContextBuilt(wolfssl.Method) {
	r.mu.Lock()
	r.c.built++
	r.mu.Unlock()
}

func (r *recorder) ContextReleased(wolfssl.Method) {
	r.mu.Lock()
	r.c.ctxReleased++
	r.mu.Unlock()
}

func (r *recorder) SessionCreated(wolfssl.Method) {
	r.mu.Lock()
	r.c.sessionsCreated++
	r.mu.Unlock()
}

func (r *recorder) SessionReleased(wolfssl.Method) {
	r.mu.Lock()
	r.c.sessionsReleased++
	r.mu.Unlock()
}

func (r *recorder) StepFailed(_ wolfssl.Method, step wolfssl.Step, _ error) {
	r.mu.Lock()
	r.c.failures = append(r.c.failures, step)
	r.mu.Unlock()
}

func (r *recorder) snapshot() counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.c
	c.failures = append([]wolfssl.Step(nil), r.c.failures...)
	return c
}
