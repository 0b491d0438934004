package telemetry

import (
	"strings"
	"testing"
	"time"
)

func TestRenderPrometheus_LabelOrderingStable(t *testing.T) {
	defaultRegistry = newRegistry()

	IncToolCall("getStories", "ok")
	IncToolCall("createDialogue", "fail")
	IncToolCall("createDialogue", "ok")
	IncToolError("createDialogue", "upstream_not_found")
	IncToolError("createDialogue", "invalid_argument")

	out := RenderPrometheus()

	createFail := strings.Index(out, `storymcp_tool_calls_total{tool="createDialogue",status="fail"}`)
	createOK := strings.Index(out, `storymcp_tool_calls_total{tool="createDialogue",status="ok"}`)
	stories := strings.Index(out, `storymcp_tool_calls_total{tool="getStories",status="ok"} 1`)
	if createFail < 0 || createOK < 0 || stories < 0 {
		t.Fatalf("tool call metrics missing from output:\n%s", out)
	}
	if !(createFail < createOK && createOK < stories) {
		t.Fatal("tool call labels are not rendered in stable lexical order")
	}

	invalid := strings.Index(out, `storymcp_tool_errors_total{tool="createDialogue",code="invalid_argument"} 1`)
	notFound := strings.Index(out, `storymcp_tool_errors_total{tool="createDialogue",code="upstream_not_found"} 1`)
	if invalid < 0 || notFound < 0 || invalid >= notFound {
		t.Fatal("tool error metrics missing or unordered")
	}
}

func TestRenderPrometheus_APIErrorsSortedByStatus(t *testing.T) {
	defaultRegistry = newRegistry()

	IncAPIError("list dialogues", 503)
	IncAPIError("list dialogues", 0)
	IncAPIError("list dialogues", 404)

	out := RenderPrometheus()

	noResp := strings.Index(out, `storymcp_upstream_api_errors_total{operation="list dialogues",status_code="0"} 1`)
	notFound := strings.Index(out, `storymcp_upstream_api_errors_total{operation="list dialogues",status_code="404"} 1`)
	unavailable := strings.Index(out, `storymcp_upstream_api_errors_total{operation="list dialogues",status_code="503"} 1`)
	if noResp < 0 || notFound < 0 || unavailable < 0 {
		t.Fatalf("api error metrics missing:\n%s", out)
	}
	if !(noResp < notFound && notFound < unavailable) {
		t.Fatal("status codes are not rendered in numeric order")
	}
}

func TestObserveToolDuration_Buckets(t *testing.T) {
	defaultRegistry = newRegistry()

	ObserveToolDuration("getChapters", 50*time.Millisecond)
	ObserveToolDuration("getChapters", 3*time.Second)
	ObserveToolDuration("getChapters", 2*time.Minute)

	out := RenderPrometheus()
	for _, want := range []string{
		`storymcp_tool_duration_seconds_bucket{tool="getChapters",le="0.1"} 1`,
		`storymcp_tool_duration_seconds_bucket{tool="getChapters",le="5"} 1`,
		`storymcp_tool_duration_seconds_bucket{tool="getChapters",le="+Inf"} 1`,
		`storymcp_tool_duration_seconds_bucket{tool="getChapters",le="1"} 0`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestCounters(t *testing.T) {
	defaultRegistry = newRegistry()

	IncOrderFallback()
	IncOrderFallback()
	IncAuditWriteFailure()
	IncPolicyDenial("deleteStory")

	out := RenderPrometheus()
	for _, want := range []string{
		"storymcp_dialogue_order_fallbacks_total 2",
		"storymcp_audit_write_failures_total 1",
		`storymcp_policy_denials_total{tool="deleteStory"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
