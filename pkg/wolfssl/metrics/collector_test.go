package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/logging"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/metrics"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/softssl"
)

func TestCollectorCountsLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector("test", reg)
	opts := []wolfssl.Option{
		wolfssl.WithEngine(softssl.New()),
		wolfssl.WithLogger(logging.Discard()),
		wolfssl.WithObserver(c),
	}

	b, err := wolfssl.NewContextBuilder(wolfssl.TLSServer, opts...)
	require.NoError(t, err)
	ctx := b.Build()
	s, err := ctx.NewSession()
	require.NoError(t, err)

	assertSeries(t, reg, "test_contexts_built_total", 1)
	assertSeries(t, reg, "test_sessions_active", 1)

	require.NoError(t, s.Close())
	require.NoError(t, ctx.Close())

	bad, err := wolfssl.NewContextBuilder(wolfssl.TLSClient, opts...)
	require.NoError(t, err)
	_, err = bad.WithCipherList("NOPE")
	require.Error(t, err)

	assertSeries(t, reg, "test_step_failures_total", 1)
	assertSeries(t, reg, "test_contexts_released_total", 2)

	c.Reloaded(nil)
	c.Reloaded(errors.New("boom"))
	assertSeries(t, reg, "test_reloads_total", 2)
}

func assertSeries(t *testing.T, reg prometheus.Gatherer, name string, want int) {
	t.Helper()
	n, err := testutil.GatherAndCount(reg, name)
	require.NoError(t, err)
	assert.Equal(t, want, n, name)
}

func TestCollectorValues(t *testing.T) {
	c := metrics.NewCollector("", nil)
	c.SessionCreated(wolfssl.DTLSClient)
	c.SessionCreated(wolfssl.DTLSClient)
	c.SessionReleased(wolfssl.DTLSClient)
	c.StepFailed(wolfssl.TLSClient, wolfssl.StepCipherList, wolfssl.ErrCipherList)

	expected := `
# HELP wolfssl_sessions_active Sessions currently allocated.
# TYPE wolfssl_sessions_active gauge
wolfssl_sessions_active{method="DTLSClient"} 1
# HELP wolfssl_step_failures_total Failed builder steps and session allocations.
# TYPE wolfssl_step_failures_total counter
wolfssl_step_failures_total{method="TLSClient",step="cipher_list"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), stringsReader(expected),
		"wolfssl_sessions_active", "wolfssl_step_failures_total"))
}

func TestCollectorHandler(t *testing.T) {
	c := metrics.NewCollector("", nil)
	c.ContextBuilt(wolfssl.TLSClient)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `wolfssl_contexts_built_total{method="TLSClient"} 1`)
}
