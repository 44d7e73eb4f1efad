package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// maxRetries bounds how many times a single statement is re-issued after a
// transient connectivity failure.
const maxRetries = 20

// reconnectErrors are the lowercase signatures of MySQL errors that indicate
// a dropped or unusable connection rather than a bad statement.
var reconnectErrors = []string{
	"invalid connection",
	"bad connection",
	"broken pipe",
	"connection refused",
	"connection reset by peer",
	"mysql server has gone away",
	"connection not available",
}

// connPool is the slice of *sql.DB the adapter needs. Narrowed to an
// interface so tests can inject a flaky fake.
type connPool interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	PingContext(ctx context.Context) error
}

// RetryPool wraps the SQL connection pool so that transient connectivity
// errors are retried transparently with linearly increasing backoff
// (attempt/10 seconds). Non-transient errors, and transient ones after the
// retry budget is spent, propagate to the caller unchanged. Callers never
// observe individual attempts.
type RetryPool struct {
	inner connPool
	sleep func(time.Duration)
}

// NewRetryPool wraps a SQL connection pool in the reconnecting adapter.
func NewRetryPool(inner *sql.DB) *RetryPool {
	return &RetryPool{inner: inner, sleep: time.Sleep}
}

func (p *RetryPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	var stmt *sql.Stmt
	err := p.retry(ctx, func() error {
		var err error
		stmt, err = p.inner.PrepareContext(ctx, query)
		return err
	})
	return stmt, err
}

func (p *RetryPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	var res sql.Result
	err := p.retry(ctx, func() error {
		var err error
		res, err = p.inner.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

func (p *RetryPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	var rows *sql.Rows
	err := p.retry(ctx, func() error {
		var err error
		rows, err = p.inner.QueryContext(ctx, query, args...)
		return err
	})
	return rows, err
}

// QueryRowContext cannot surface its error until Scan, so it delegates
// directly; the row's underlying query still went through the pool, which
// replaces dead connections on the next statement.
func (p *RetryPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return p.inner.QueryRowContext(ctx, query, args...)
}

func (p *RetryPool) retry(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) || attempt >= maxRetries {
			return err
		}
		zap.L().Warn("transient store error, reconnecting",
			zap.Int("attempt", attempt+1), zap.Error(err))
		p.sleep(time.Duration(attempt) * time.Second / 10)
		if pingErr := p.inner.PingContext(ctx); pingErr != nil {
			zap.L().Error("store reconnect failed", zap.Error(pingErr))
		}
	}
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range reconnectErrors {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
