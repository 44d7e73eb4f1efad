package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyPool fails the first failures calls with err, then succeeds.
type flakyPool struct {
	failures int
	err      error
	calls    int
	pings    int
}

func (f *flakyPool) attempt() error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flakyPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, f.attempt()
}

func (f *flakyPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, f.attempt()
}

func (f *flakyPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, f.attempt()
}

func (f *flakyPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (f *flakyPool) PingContext(ctx context.Context) error {
	f.pings++
	return nil
}

func newTestPool(inner connPool) *RetryPool {
	return &RetryPool{inner: inner, sleep: func(time.Duration) {}}
}

func TestRetryPoolRecoversFromTransientError(t *testing.T) {
	inner := &flakyPool{failures: 3, err: errors.New("invalid connection")}
	pool := newTestPool(inner)

	_, err := pool.ExecContext(context.Background(), "UPDATE bookings SET status = ?")
	require.NoError(t, err)
	assert.Equal(t, 4, inner.calls)
	assert.Equal(t, 3, inner.pings)
}

func TestRetryPoolRecognizesDriverBadConn(t *testing.T) {
	inner := &flakyPool{failures: 1, err: driver.ErrBadConn}
	pool := newTestPool(inner)

	_, err := pool.QueryContext(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestRetryPoolPropagatesNonTransientError(t *testing.T) {
	wrong := errors.New("Error 1064: You have an error in your SQL syntax")
	inner := &flakyPool{failures: 10, err: wrong}
	pool := newTestPool(inner)

	_, err := pool.ExecContext(context.Background(), "NOT SQL")
	require.Error(t, err)
	assert.Equal(t, wrong, err)
	assert.Equal(t, 1, inner.calls, "non-transient errors must not be retried")
}

func TestRetryPoolExhaustsBudget(t *testing.T) {
	gone := errors.New("MySQL server has gone away")
	inner := &flakyPool{failures: 1000, err: gone}
	pool := newTestPool(inner)

	_, err := pool.ExecContext(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Equal(t, gone, err)
	assert.Equal(t, maxRetries+1, inner.calls)
}

func TestIsTransientSignatures(t *testing.T) {
	assert.True(t, isTransient(errors.New("Broken Pipe")))
	assert.True(t, isTransient(errors.New("dial tcp: connection refused")))
	assert.True(t, isTransient(errors.New("MySQL Connection not available.")))
	assert.False(t, isTransient(errors.New("Error 1062: Duplicate entry")))
}
