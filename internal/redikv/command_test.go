package redikv

import (
	"testing"
	"time"

	"redikv/internal/redikv/errors"
	"redikv/internal/redikv/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, options ...StoreOption) (*Executor, *Metrics) {
	t.Helper()

	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	return NewExecutor(NewRedikvDB(options...), metrics), metrics
}

func execute(t *testing.T, executor *Executor, words ...string) string {
	t.Helper()

	command, err := Parse(multiBulk(words...))
	require.NoError(t, err)
	return string(executor.Execute(command))
}

func TestExecutor_Scenarios(t *testing.T) {
	executor, _ := newTestExecutor(t)

	assert.Equal(t, "+PONG\r\n", execute(t, executor, "PING"))
	assert.Equal(t, "$5\r\nhello\r\n", execute(t, executor, "ECHO", "hello"))
	assert.Equal(t, "$-1\r\n", execute(t, executor, "GET", "foo"))
	assert.Equal(t, "+OK\r\n", execute(t, executor, "SET", "foo", "bar"))
	assert.Equal(t, "$3\r\nbar\r\n", execute(t, executor, "GET", "foo"))
}

func TestExecutor_SetWithPxExpires(t *testing.T) {
	clock := newFakeClock()
	executor, _ := newTestExecutor(t, WithClock(clock.Now))

	assert.Equal(t, "+OK\r\n", execute(t, executor, "SET", "foo", "bar", "px", "1"))
	clock.Advance(5 * time.Millisecond)

	assert.Equal(t, "$-1\r\n", execute(t, executor, "GET", "foo"))
}

func TestExecutor_RecordsMetrics(t *testing.T) {
	executor, metrics := newTestExecutor(t)

	execute(t, executor, "SET", "k", "v")
	execute(t, executor, "GET", "k")
	execute(t, executor, "GET", "missing")
	execute(t, executor, "PING")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.KeyspaceHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.KeyspaceMisses))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("get")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("set")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("ping")))
}

func TestExecutor_WorksWithoutMetrics(t *testing.T) {
	executor := NewExecutor(NewShardedDB(4), nil)

	assert.Equal(t, "+OK\r\n", string(executor.Execute(types.Set{Key: "k", Value: "v"})))
	assert.Equal(t, "$1\r\nv\r\n", string(executor.Execute(types.Get{Key: "k"})))
}

func TestMetrics_ParseErrorsByKind(t *testing.T) {
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	metrics.ObserveParseError(errors.NewWrongArityError("get"))
	metrics.ObserveParseError(errors.NewWrongArityError("echo"))
	metrics.ObserveParseError(errors.NewSyntaxError())
	metrics.ObserveParseError(errors.NewProtocolError("empty request"))

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.CommandErrorsTotal.WithLabelValues("wrong_arity")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CommandErrorsTotal.WithLabelValues("syntax")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CommandErrorsTotal.WithLabelValues("protocol")))
}

func TestNewMetrics_RejectsDoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	_, err := NewMetrics(registry)
	require.NoError(t, err)

	_, err = NewMetrics(registry)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var metrics *Metrics

	assert.NotPanics(t, func() {
		metrics.ObserveCommand("get")
		metrics.ObserveLookup(true)
		metrics.ObserveParseError(errors.NewSyntaxError())
		metrics.ObserveExpired(3)
		metrics.ClientConnected()
		metrics.ClientDisconnected()
	})
}
