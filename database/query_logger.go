package database

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm/logger"
)

// QueryLog represents a single SQL query log entry
type QueryLog struct {
	ID        int           `json:"id"`
	SQL       string        `json:"sql"`
	Duration  time.Duration `json:"duration"`
	Rows      int64         `json:"rows"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// QueryLogger keeps the most recent SQL statements for the debug endpoints
type QueryLogger struct {
	mu      sync.RWMutex
	queries []QueryLog
	maxLogs int
	counter int
}

// SQLLogger is the global query logger instance
var SQLLogger = NewQueryLogger(100)

// NewQueryLogger creates a new query logger keeping at most maxLogs entries
func NewQueryLogger(maxLogs int) *QueryLogger {
	return &QueryLogger{
		queries: make([]QueryLog, 0, maxLogs),
		maxLogs: maxLogs,
	}
}

// Record appends a query, evicting the oldest entry once full
func (ql *QueryLogger) Record(sql string, duration time.Duration, rows int64, err error) {
	ql.mu.Lock()
	defer ql.mu.Unlock()

	ql.counter++
	entry := QueryLog{
		ID:        ql.counter,
		SQL:       sql,
		Duration:  duration,
		Rows:      rows,
		Timestamp: time.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	ql.queries = append(ql.queries, entry)
	if len(ql.queries) > ql.maxLogs {
		ql.queries = ql.queries[len(ql.queries)-ql.maxLogs:]
	}
}

// Queries returns all logged queries, most recent first
func (ql *QueryLogger) Queries() []QueryLog {
	ql.mu.RLock()
	defer ql.mu.RUnlock()

	result := make([]QueryLog, len(ql.queries))
	for i, q := range ql.queries {
		result[len(ql.queries)-1-i] = q
	}
	return result
}

// Count returns how many queries have been recorded since startup
func (ql *QueryLogger) Count() int {
	ql.mu.RLock()
	defer ql.mu.RUnlock()
	return ql.counter
}

// Clear removes all logged queries
func (ql *QueryLogger) Clear() {
	ql.mu.Lock()
	defer ql.mu.Unlock()
	ql.queries = ql.queries[:0]
}

// QueryCaptureLogger is a GORM logger that feeds SQLLogger
type QueryCaptureLogger struct {
	logger.Interface
}

// Trace implements logger.Interface
func (l *QueryCaptureLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.Interface != nil {
		l.Interface.Trace(ctx, begin, fc, err)
	}

	sql, rows := fc()
	SQLLogger.Record(sql, time.Since(begin), rows, err)
}
