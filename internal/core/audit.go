package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/chatstory/storymcp/internal/db"
)

// ToolCallStore persists audited tool calls.
type ToolCallStore interface {
	InsertToolCall(ctx context.Context, tc *db.ToolCall) error
}

// AuditService records every tool invocation with its redacted arguments
// and a SHA-256 evidence hash over request and response.
type AuditService struct {
	store ToolCallStore
	now   func() time.Time
}

func NewAuditService(store ToolCallStore) *AuditService {
	return &AuditService{store: store, now: time.Now}
}

// RecordInput captures what is needed to log a tool call.
type RecordInput struct {
	TraceID  string
	ToolName string
	Request  any
	Response any
	Err      error
	Duration time.Duration
}

// redactedFields are base64 image arguments; only their size is kept.
var redactedFields = []string{"coverImageBase64", "avatarImageBase64"}

// Record persists one tool call row.
func (a *AuditService) Record(ctx context.Context, in RecordInput) (*db.ToolCall, error) {
	reqJSON, err := json.Marshal(in.Request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	reqJSON, err = redact(reqJSON)
	if err != nil {
		return nil, fmt.Errorf("redact request: %w", err)
	}

	respJSON, err := json.Marshal(in.Response)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}

	evidence := sha256.Sum256(append(append([]byte{}, reqJSON...), respJSON...))

	tc := &db.ToolCall{
		ToolCallID:   uuid.New().String(),
		TraceID:      in.TraceID,
		ToolName:     in.ToolName,
		Status:       "ok",
		DurationMS:   in.Duration.Milliseconds(),
		RequestJSON:  string(reqJSON),
		EvidenceHash: hex.EncodeToString(evidence[:]),
		CreatedAt:    a.now().UTC(),
	}
	if in.Err != nil {
		info := MapError(in.Err)
		tc.Status = "fail"
		tc.ErrorCode = &info.Code
		if info.Operation != "" {
			tc.Operation = &info.Operation
		}
		if info.UpstreamStatus != 0 {
			tc.UpstreamStatus = &info.UpstreamStatus
		}
	}
	if err := a.store.InsertToolCall(ctx, tc); err != nil {
		return nil, fmt.Errorf("insert tool_call: %w", err)
	}
	return tc, nil
}

func redact(raw []byte) ([]byte, error) {
	for _, field := range redactedFields {
		v := gjson.GetBytes(raw, field)
		if !v.Exists() || v.String() == "" {
			continue
		}
		var err error
		raw, err = sjson.SetBytes(raw, field, fmt.Sprintf("[redacted %d chars]", len(v.String())))
		if err != nil {
			return nil, err
		}
	}
	return raw, nil
}
