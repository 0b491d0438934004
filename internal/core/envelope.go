package core

// ToolEnvelope is the payload returned to the caller when a tool fails.
// Successful calls return the operation result unwrapped.
type ToolEnvelope struct {
	OK     bool       `json:"ok"`
	Meta   ToolMeta   `json:"meta"`
	Result any        `json:"result,omitempty"`
	Error  *ToolError `json:"error,omitempty"`
}

// ToolMeta identifies the invocation for log and audit correlation.
type ToolMeta struct {
	Tool    string `json:"tool"`
	TraceID string `json:"trace_id"`
}

// ToolError is the normalized failure shape. Status carries the upstream
// HTTP status when there was one.
type ToolError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Operation string `json:"operation,omitempty"`
	Status    int    `json:"status,omitempty"`
}

func FailureEnvelope(tool, traceID string, info ErrorInfo) ToolEnvelope {
	return ToolEnvelope{
		OK:   false,
		Meta: ToolMeta{Tool: tool, TraceID: traceID},
		Error: &ToolError{
			Code:      info.Code,
			Message:   info.Message,
			Operation: info.Operation,
			Status:    info.UpstreamStatus,
		},
	}
}
