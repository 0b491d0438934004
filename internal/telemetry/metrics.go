package telemetry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var defaultRegistry = newRegistry()

var durationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

type registry struct {
	mu                  sync.Mutex
	toolCalls           map[string]map[string]int64
	toolDurationBuckets map[string][]int64
	toolErrorCodes      map[string]map[string]int64
	apiErrors           map[string]map[int]int64
	policyDenials       map[string]int64
	orderFallbacks      int64
	auditWriteFailures  int64
}

func newRegistry() *registry {
	return &registry{
		toolCalls:           make(map[string]map[string]int64),
		toolDurationBuckets: make(map[string][]int64),
		toolErrorCodes:      make(map[string]map[string]int64),
		apiErrors:           make(map[string]map[int]int64),
		policyDenials:       make(map[string]int64),
	}
}

// IncToolCall counts a finished tool invocation by outcome ("ok" or "fail").
func IncToolCall(toolName, status string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, ok := defaultRegistry.toolCalls[toolName]; !ok {
		defaultRegistry.toolCalls[toolName] = make(map[string]int64)
	}
	defaultRegistry.toolCalls[toolName][status]++
}

func ObserveToolDuration(toolName string, d time.Duration) {
	sec := d.Seconds()

	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, ok := defaultRegistry.toolDurationBuckets[toolName]; !ok {
		defaultRegistry.toolDurationBuckets[toolName] = make([]int64, len(durationBuckets)+1)
	}
	idx := len(durationBuckets)
	for i, b := range durationBuckets {
		if sec <= b {
			idx = i
			break
		}
	}
	defaultRegistry.toolDurationBuckets[toolName][idx]++
}

func IncToolError(toolName, code string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, ok := defaultRegistry.toolErrorCodes[toolName]; !ok {
		defaultRegistry.toolErrorCodes[toolName] = make(map[string]int64)
	}
	defaultRegistry.toolErrorCodes[toolName][code]++
}

// IncAPIError counts a failed upstream request. statusCode is 0 when no
// response was received.
func IncAPIError(operation string, statusCode int) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, ok := defaultRegistry.apiErrors[operation]; !ok {
		defaultRegistry.apiErrors[operation] = make(map[int]int64)
	}
	defaultRegistry.apiErrors[operation][statusCode]++
}

func IncPolicyDenial(toolName string) {
	defaultRegistry.mu.Lock()
	defaultRegistry.policyDenials[toolName]++
	defaultRegistry.mu.Unlock()
}

// IncOrderFallback counts dialogue creations that fell back to order 1
// because the existing dialogue count could not be fetched.
func IncOrderFallback() {
	defaultRegistry.mu.Lock()
	defaultRegistry.orderFallbacks++
	defaultRegistry.mu.Unlock()
}

func IncAuditWriteFailure() {
	defaultRegistry.mu.Lock()
	defaultRegistry.auditWriteFailures++
	defaultRegistry.mu.Unlock()
}

func RenderPrometheus() string {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	var sb strings.Builder

	sb.WriteString("# TYPE storymcp_tool_calls_total counter\n")
	for _, tool := range sortedKeys(defaultRegistry.toolCalls) {
		for _, status := range sortedKeys(defaultRegistry.toolCalls[tool]) {
			sb.WriteString(fmt.Sprintf("storymcp_tool_calls_total{tool=\"%s\",status=\"%s\"} %d\n", tool, status, defaultRegistry.toolCalls[tool][status]))
		}
	}

	sb.WriteString("# TYPE storymcp_tool_duration_seconds_bucket counter\n")
	for _, tool := range sortedKeys(defaultRegistry.toolDurationBuckets) {
		counts := defaultRegistry.toolDurationBuckets[tool]
		for i, v := range counts {
			sb.WriteString(fmt.Sprintf("storymcp_tool_duration_seconds_bucket{tool=\"%s\",le=\"%s\"} %d\n", tool, bucketLabel(i), v))
		}
	}

	sb.WriteString("# TYPE storymcp_tool_errors_total counter\n")
	for _, tool := range sortedKeys(defaultRegistry.toolErrorCodes) {
		for _, code := range sortedKeys(defaultRegistry.toolErrorCodes[tool]) {
			sb.WriteString(fmt.Sprintf("storymcp_tool_errors_total{tool=\"%s\",code=\"%s\"} %d\n", tool, code, defaultRegistry.toolErrorCodes[tool][code]))
		}
	}

	sb.WriteString("# TYPE storymcp_upstream_api_errors_total counter\n")
	for _, op := range sortedKeys(defaultRegistry.apiErrors) {
		statusCodes := make([]int, 0, len(defaultRegistry.apiErrors[op]))
		for sc := range defaultRegistry.apiErrors[op] {
			statusCodes = append(statusCodes, sc)
		}
		sort.Ints(statusCodes)
		for _, sc := range statusCodes {
			sb.WriteString(fmt.Sprintf("storymcp_upstream_api_errors_total{operation=\"%s\",status_code=\"%d\"} %d\n", op, sc, defaultRegistry.apiErrors[op][sc]))
		}
	}

	sb.WriteString("# TYPE storymcp_policy_denials_total counter\n")
	for _, tool := range sortedKeys(defaultRegistry.policyDenials) {
		sb.WriteString(fmt.Sprintf("storymcp_policy_denials_total{tool=\"%s\"} %d\n", tool, defaultRegistry.policyDenials[tool]))
	}

	sb.WriteString("# TYPE storymcp_dialogue_order_fallbacks_total counter\n")
	sb.WriteString(fmt.Sprintf("storymcp_dialogue_order_fallbacks_total %d\n", defaultRegistry.orderFallbacks))

	sb.WriteString("# TYPE storymcp_audit_write_failures_total counter\n")
	sb.WriteString(fmt.Sprintf("storymcp_audit_write_failures_total %d\n", defaultRegistry.auditWriteFailures))

	return sb.String()
}

func bucketLabel(i int) string {
	if i >= len(durationBuckets) {
		return "+Inf"
	}
	return fmt.Sprintf("%g", durationBuckets[i])
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
