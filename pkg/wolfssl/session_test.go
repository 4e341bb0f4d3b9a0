package wolfssl_test

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/native"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/softssl"
)

func TestNewSession(t *testing.T) {
	f := newFixture(t)
	ctx := f.builder(t, wolfssl.DTLSClient).Build()

	s, err := ctx.NewSession()
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, wolfssl.DTLSClient, s.Method())
	_, err = uuid.Parse(s.ID())
	require.NoError(t, err)

	owner, ok := f.engine.SessionContext(wolfssl.SessionHandle(s))
	require.True(t, ok)
	require.Equal(t, wolfssl.ContextHandle(ctx), owner)
	require.Equal(t, 2, wolfssl.ContextRefs(ctx))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.True(t, s.Closed())
	require.Equal(t, 1, wolfssl.ContextRefs(ctx))

	require.NoError(t, ctx.Close())
	f.requireClean(t)

	ev := f.events.snapshot()
	assert.Equal(t, 1, ev.sessionsCreated)
	assert.Equal(t, 1, ev.sessionsReleased)
}

func TestSessionKeepsContextAlive(t *testing.T) {
	f := newFixture(t)
	ctx := f.builder(t, wolfssl.TLSServer).Build()
	clone, err := ctx.Clone()
	require.NoError(t, err)

	s, err := ctx.NewSession()
	require.NoError(t, err)

	require.NoError(t, ctx.Close())
	require.NoError(t, clone.Close())

	st := f.engine.Stats()
	require.Equal(t, 1, st.ContextsLive())
	require.Equal(t, 1, st.SessionsLive())

	parent, err := s.Context()
	require.NoError(t, err)
	require.Equal(t, wolfssl.TLSServer, parent.Method())
	require.NoError(t, parent.Close())

	require.NoError(t, s.Close())
	f.requireClean(t)

	_, err = s.Context()
	require.ErrorIs(t, err, wolfssl.ErrSessionClosed)
}

func TestNewSessionAllocationFailure(t *testing.T) {
	f := newFixture(t)
	ctx := f.builder(t, wolfssl.TLSClient).Build()
	f.engine.FailNext(softssl.OpSSLNew, native.StatusFailure)

	s, err := ctx.NewSession()
	require.ErrorIs(t, err, wolfssl.ErrSessionAllocation)
	require.Nil(t, s)
	require.Equal(t, 1, wolfssl.ContextRefs(ctx))

	// The context is still usable after a failed allocation.
	s, err = ctx.NewSession()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, ctx.Close())
	f.requireClean(t)
	require.Equal(t, []wolfssl.Step{wolfssl.StepNewSession}, f.events.snapshot().failures)
}

func TestConcurrentCloneAndClose(t *testing.T) {
	f := newFixture(t)
	root := f.builder(t, wolfssl.TLSServer).Build()

	const workers = 32
	const rounds = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				c, err := root.Clone()
				if !assert.NoError(t, err) {
					return
				}
				if j%5 == 0 {
					s, err := c.NewSession()
					if assert.NoError(t, err) {
						assert.NoError(t, s.Close())
					}
				}
				assert.NoError(t, c.Close())
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wolfssl.ContextRefs(root))
	require.NoError(t, root.Close())
	f.requireClean(t)
	require.Equal(t, 1, f.engine.Stats().ContextsFreed)
}

func TestConcurrentSessionsOutliveContext(t *testing.T) {
	f := newFixture(t)
	ctx := f.builder(t, wolfssl.DTLSServerV1_2).Build()

	sessions := make([]*wolfssl.Session, 16)
	for i := range sessions {
		s, err := ctx.NewSession()
		require.NoError(t, err)
		sessions[i] = s
	}
	require.NoError(t, ctx.Close())

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *wolfssl.Session) {
			defer wg.Done()
			assert.NoError(t, s.Close())
		}(s)
	}
	wg.Wait()
	f.requireClean(t)
}

func TestUnreachableValuesAreReleasedByFinalizers(t *testing.T) {
	f := newFixture(t)
	func() {
		ctx := f.builder(t, wolfssl.TLSClient).Build()
		_, err := ctx.NewSession()
		require.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		st := f.engine.Stats()
		return st.ContextsLive() == 0 && st.SessionsLive() == 0
	}, 5*time.Second, 10*time.Millisecond)
	require.True(t, f.engine.Stats().Clean(), "%+v", f.engine.Stats())
}
