package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/pretty"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/chatstory/storymcp/internal/core"
	"github.com/chatstory/storymcp/internal/telemetry"
)

type handler struct {
	deps Deps
}

// handle runs one tool invocation. It never returns an error to the SDK:
// failures are rendered into the text payload as a failure envelope.
func (h *handler) handle(ctx context.Context, name string, mutates bool, args any, fn func(context.Context) (any, error)) *mcp.CallToolResult {
	traceID := uuid.New().String()
	start := time.Now()

	ctx, span := telemetry.Tracer().Start(ctx, "tool."+name)
	span.SetAttributes(
		attribute.String("mcp.tool.name", name),
		attribute.String("storymcp.trace_id", traceID),
	)
	defer span.End()

	result, err := h.run(ctx, name, mutates, fn)
	var payload []byte
	if err == nil {
		payload, err = render(result)
	}
	duration := time.Since(start)

	status := "ok"
	var response any = result
	if err != nil {
		status = "fail"
		info := core.MapError(err)
		envelope := core.FailureEnvelope(name, traceID, info)
		response = envelope
		payload, _ = render(envelope)

		span.RecordError(err)
		span.SetStatus(codes.Error, info.Code)
		telemetry.IncToolError(name, info.Code)
		h.deps.Logger.Warn("tool call failed",
			"tool", name,
			"trace_id", traceID,
			"code", info.Code,
			"operation", info.Operation,
			"status", info.UpstreamStatus,
			"duration_ms", duration.Milliseconds(),
			"err", err,
		)
	} else {
		h.deps.Logger.Info("tool call",
			"tool", name,
			"trace_id", traceID,
			"duration_ms", duration.Milliseconds(),
		)
	}
	telemetry.IncToolCall(name, status)
	telemetry.ObserveToolDuration(name, duration)
	h.record(ctx, core.RecordInput{
		TraceID:  traceID,
		ToolName: name,
		Request:  args,
		Response: response,
		Err:      err,
		Duration: duration,
	})

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}
}

func (h *handler) run(ctx context.Context, name string, mutates bool, fn func(context.Context) (any, error)) (result any, err error) {
	if err := h.deps.Policy.CheckTool(name, mutates); err != nil {
		telemetry.IncPolicyDenial(name)
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			h.deps.Logger.Error("tool panicked", "tool", name, "panic", r)
			result, err = nil, fmt.Errorf("%s: unexpected failure: %v", name, r)
		}
	}()
	return fn(ctx)
}

// record writes the audit row. Audit failures are logged and counted but
// never change what the caller sees.
func (h *handler) record(ctx context.Context, in core.RecordInput) {
	if h.deps.Audit == nil {
		return
	}
	if _, err := h.deps.Audit.Record(context.WithoutCancel(ctx), in); err != nil {
		telemetry.IncAuditWriteFailure()
		h.deps.Logger.Warn("audit write failed", "tool", in.ToolName, "trace_id", in.TraceID, "err", err)
	}
}

// render pretty-prints v as JSON without HTML escaping. Raw upstream bodies
// pass through unchanged apart from formatting.
func render(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return pretty.Pretty(buf.Bytes()), nil
}
