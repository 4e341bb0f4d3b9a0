package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	pionlogging "github.com/pion/logging"
	"github.com/stretchr/testify/assert"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl/logging"
)

func newBufferLogger(buf *bytes.Buffer) logging.Logger {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.New(slog.New(h))
}

func TestRedactedHidesValue(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	l.Info(context.Background(), "key loaded", logging.Redacted("key"))

	assert.Contains(t, buf.String(), `key=[redacted]`)
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestWithCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf).With("method", "TLSClient")

	l.Warn(context.Background(), "renegotiation ignored")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "method=TLSClient")
}

func TestPionFactoryWritesThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	factory := logging.NewPionFactory(newBufferLogger(&buf))

	lg := factory.NewLogger("dtls")
	lg.Infof("flight %d sent", 3)
	lg.Trace("trace maps to debug")

	out := buf.String()
	assert.Contains(t, out, "scope=dtls")
	assert.Contains(t, out, `msg="flight 3 sent"`)
	assert.Contains(t, out, "level=DEBUG")
}

func TestDiscardDropsRecords(t *testing.T) {
	l := logging.Discard()
	// Must not panic and must return a usable child.
	l.With("a", 1).Error(context.Background(), "dropped")
}

func TestFromPionFormatsAttributes(t *testing.T) {
	var buf bytes.Buffer
	factory := &pionlogging.DefaultLoggerFactory{
		Writer:          &buf,
		DefaultLogLevel: pionlogging.LogLevelDebug,
		ScopeLevels:     map[string]pionlogging.LogLevel{},
	}
	l := logging.FromPion(factory.NewLogger("wolfssl")).With("method", "TLSClient")

	l.Debug(context.Background(), "context built", "engine", "softssl")
	l.Warn(context.Background(), "private key loaded", logging.Redacted("key"))

	out := buf.String()
	assert.Contains(t, out, "context built method=TLSClient engine=softssl")
	assert.Contains(t, out, "key=[redacted]")
}
