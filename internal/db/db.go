// Package db persists the tool-call audit trail. Postgres and SQLite are
// both supported; the driver is picked from the connection string.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// timeLayout sorts lexically in chronological order for UTC values.
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

// DB wraps the underlying *sql.DB and provides typed query methods.
type DB struct {
	conn   *sql.DB
	driver string
}

// ResolveDSN maps a configured database URL to a driver name and the
// data source string that driver expects.
func ResolveDSN(databaseURL string) (driver, dsn string, err error) {
	raw := strings.TrimSpace(databaseURL)
	lower := strings.ToLower(raw)
	switch {
	case raw == "":
		return "", "", fmt.Errorf("database url is empty")
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, raw, nil
	case strings.HasPrefix(lower, "sqlite://"):
		return DriverSQLite, sqliteDSN(raw[len("sqlite://"):]), nil
	case strings.HasPrefix(lower, "sqlite:"):
		return DriverSQLite, sqliteDSN(raw[len("sqlite:"):]), nil
	case raw == ":memory:", strings.HasPrefix(lower, "file:"):
		return DriverSQLite, raw, nil
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return DriverSQLite, sqliteDSN(raw), nil
	default:
		return "", "", fmt.Errorf("unsupported database url %q (want postgres://... or sqlite:<path>)", raw)
	}
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Open connects, verifies connectivity and applies pending migrations.
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	driver, dsn, err := ResolveDSN(databaseURL)
	if err != nil {
		return nil, err
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(2)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	d := &DB{conn: conn, driver: driver}
	if err := d.ApplyMigrations(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return d, nil
}

// Close closes the database connection pool.
func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) Driver() string { return d.driver }

func (d *DB) Ping(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

// rebind rewrites ? placeholders to $n for Postgres.
func (d *DB) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ToolCall is one audited tool invocation.
type ToolCall struct {
	ToolCallID     string    `json:"tool_call_id"`
	TraceID        string    `json:"trace_id"`
	ToolName       string    `json:"tool_name"`
	Status         string    `json:"status"`
	ErrorCode      *string   `json:"error_code,omitempty"`
	Operation      *string   `json:"operation,omitempty"`
	UpstreamStatus *int      `json:"upstream_status,omitempty"`
	DurationMS     int64     `json:"duration_ms"`
	RequestJSON    string    `json:"request_json"`
	EvidenceHash   string    `json:"evidence_hash"`
	CreatedAt      time.Time `json:"created_at"`
}

// InsertToolCall creates a new tool call record.
func (d *DB) InsertToolCall(ctx context.Context, tc *ToolCall) error {
	_, err := d.conn.ExecContext(ctx, d.rebind(
		`INSERT INTO tool_calls (tool_call_id, trace_id, tool_name, status, error_code, operation, upstream_status, duration_ms, request_json, evidence_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		tc.ToolCallID, tc.TraceID, tc.ToolName, tc.Status, tc.ErrorCode, tc.Operation, tc.UpstreamStatus, tc.DurationMS, tc.RequestJSON, tc.EvidenceHash, tc.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert tool_call: %w", err)
	}
	return nil
}

const toolCallColumns = `tool_call_id, trace_id, tool_name, status, error_code, operation, upstream_status, duration_ms, request_json, evidence_hash, created_at`

// GetToolCall retrieves a tool call by ID. A missing row returns nil, nil.
func (d *DB) GetToolCall(ctx context.Context, toolCallID string) (*ToolCall, error) {
	row := d.conn.QueryRowContext(ctx, d.rebind(`SELECT `+toolCallColumns+` FROM tool_calls WHERE tool_call_id = ?`), toolCallID)
	tc, err := scanToolCall(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tool_call: %w", err)
	}
	return tc, nil
}

// ToolCallFilter narrows ListToolCalls. Empty fields match everything.
type ToolCallFilter struct {
	ToolName string
	Status   string
	Limit    int
}

// ListToolCalls returns tool calls, most recent first.
func (d *DB) ListToolCalls(ctx context.Context, f ToolCallFilter) ([]*ToolCall, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var where []string
	var args []any
	if f.ToolName != "" {
		where = append(where, "tool_name = ?")
		args = append(args, f.ToolName)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	query := `SELECT ` + toolCallColumns + ` FROM tool_calls`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := d.conn.QueryContext(ctx, d.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list tool_calls: %w", err)
	}
	defer rows.Close()

	out := make([]*ToolCall, 0)
	for rows.Next() {
		tc, err := scanToolCall(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tool_call: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanToolCall(s rowScanner) (*ToolCall, error) {
	tc := &ToolCall{}
	var errorCode, operation sql.NullString
	var upstream sql.NullInt64
	var created string
	if err := s.Scan(&tc.ToolCallID, &tc.TraceID, &tc.ToolName, &tc.Status, &errorCode, &operation, &upstream, &tc.DurationMS, &tc.RequestJSON, &tc.EvidenceHash, &created); err != nil {
		return nil, err
	}
	if errorCode.Valid {
		v := errorCode.String
		tc.ErrorCode = &v
	}
	if operation.Valid {
		v := operation.String
		tc.Operation = &v
	}
	if upstream.Valid {
		v := int(upstream.Int64)
		tc.UpstreamStatus = &v
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	tc.CreatedAt = t
	return tc, nil
}
