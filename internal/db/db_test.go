package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveDSN(t *testing.T) {
	tests := []struct {
		in         string
		wantDriver string
		wantErr    bool
	}{
		{in: "postgres://u:p@localhost:5432/storymcp?sslmode=disable", wantDriver: DriverPostgres},
		{in: "postgresql://localhost/x", wantDriver: DriverPostgres},
		{in: "sqlite:/var/lib/storymcp/audit.db", wantDriver: DriverSQLite},
		{in: "sqlite://audit.db", wantDriver: DriverSQLite},
		{in: "sqlite::memory:", wantDriver: DriverSQLite},
		{in: "file:audit.db?cache=shared", wantDriver: DriverSQLite},
		{in: "./audit.sqlite", wantDriver: DriverSQLite},
		{in: "", wantErr: true},
		{in: "mysql://localhost/x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			driver, dsn, err := ResolveDSN(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got driver %q", driver)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDSN: %v", err)
			}
			if driver != tt.wantDriver {
				t.Fatalf("driver = %q, want %q", driver, tt.wantDriver)
			}
			if dsn == "" {
				t.Fatal("dsn is empty")
			}
		})
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: DriverPostgres}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Fatalf("postgres rebind = %q", got)
	}
	lite := &DB{driver: DriverSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Fatalf("sqlite rebind = %q", got)
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	d, err := Open(context.Background(), "sqlite:"+path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestToolCallRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	code := "upstream_not_found"
	op := "get chapter"
	status := 404
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	calls := []*ToolCall{
		{ToolCallID: "tc-1", TraceID: "tr-1", ToolName: "getStories", Status: "ok", DurationMS: 12, RequestJSON: `{}`, EvidenceHash: "h1", CreatedAt: base},
		{ToolCallID: "tc-2", TraceID: "tr-2", ToolName: "getChapterDetail", Status: "fail", ErrorCode: &code, Operation: &op, UpstreamStatus: &status, DurationMS: 30, RequestJSON: `{"storyId":1}`, EvidenceHash: "h2", CreatedAt: base.Add(time.Second)},
		{ToolCallID: "tc-3", TraceID: "tr-3", ToolName: "getStories", Status: "ok", DurationMS: 8, RequestJSON: `{}`, EvidenceHash: "h3", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, tc := range calls {
		if err := d.InsertToolCall(ctx, tc); err != nil {
			t.Fatalf("InsertToolCall(%s): %v", tc.ToolCallID, err)
		}
	}

	got, err := d.GetToolCall(ctx, "tc-2")
	if err != nil {
		t.Fatalf("GetToolCall: %v", err)
	}
	if got == nil || got.ErrorCode == nil || *got.ErrorCode != code || got.UpstreamStatus == nil || *got.UpstreamStatus != 404 {
		t.Fatalf("unexpected tool call: %+v", got)
	}
	if !got.CreatedAt.Equal(base.Add(time.Second)) {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}

	missing, err := d.GetToolCall(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("GetToolCall(missing) = %v, %v", missing, err)
	}

	list, err := d.ListToolCalls(ctx, ToolCallFilter{ToolName: "getStories"})
	if err != nil {
		t.Fatalf("ListToolCalls: %v", err)
	}
	if len(list) != 2 || list[0].ToolCallID != "tc-3" || list[1].ToolCallID != "tc-1" {
		t.Fatalf("list order unexpected: %+v", list)
	}
	if list[0].ErrorCode != nil {
		t.Errorf("ErrorCode = %v, want nil", *list[0].ErrorCode)
	}

	failed, err := d.ListToolCalls(ctx, ToolCallFilter{Status: "fail", Limit: 10})
	if err != nil {
		t.Fatalf("ListToolCalls(fail): %v", err)
	}
	if len(failed) != 1 || failed[0].ToolCallID != "tc-2" {
		t.Fatalf("failed = %+v", failed)
	}
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	d := openTestDB(t)
	if err := d.ApplyMigrations(context.Background()); err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}
}
