package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chatstory/storymcp/internal/storyapi"
)

// storyService is a small in-memory stand-in for the upstream API. It
// renumbers dialogues on move the way the real service does. Story 42 is the
// only story that exists; a non-empty listing replaces the dialogue listing
// body verbatim.
type storyService struct {
	mu         sync.Mutex
	requests   []string
	dialogues  []map[string]any
	listing    string
	nextID     int64
	moveBodies []map[string]any
	postBodies []map[string]any
}

func (s *storyService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"stories": []any{}})
	})
	mux.HandleFunc("GET /api/stories/{storyID}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("storyID") != "42" {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Story not found"})
			return
		}
		writeRaw(w, http.StatusOK, storyFortyTwo)
	})
	mux.HandleFunc("POST /api/stories/{storyID}/chapters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "created",
			"chapter": map[string]any{"chapter_id": 1, "title": "One", "order_number": 1, "status": "draft"},
		})
	})
	mux.HandleFunc("GET /api/stories/{storyID}/characters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"characters": []map[string]any{
			{"character_id": 7, "name": "Alice", "role": "main"},
		}})
	})
	mux.HandleFunc("GET /api/stories/{storyID}/chapters/{chapterID}/dialogues", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.listing != "" {
			writeRaw(w, http.StatusOK, s.listing)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"dialogues": s.dialogues})
	})
	mux.HandleFunc("POST /api/stories/{storyID}/chapters/{chapterID}/dialogues", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.nextID++
		s.postBodies = append(s.postBodies, body)
		d := map[string]any{
			"dialogue_id":  s.nextID,
			"character_id": body["character_id"],
			"content":      body["content"],
			"order_number": body["order_number"],
			"type":         body["type"],
		}
		s.dialogues = append(s.dialogues, d)
		writeJSON(w, http.StatusCreated, map[string]any{"message": "created", "dialogue": d})
	})
	mux.HandleFunc("PUT /api/stories/{storyID}/chapters/{chapterID}/dialogues/{dialogueID}/move", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("dialogueID"), 10, 64)
		newOrder, _ := body["new_order"].(float64)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.moveBodies = append(s.moveBodies, body)
		s.move(id, int(newOrder))
		writeJSON(w, http.StatusOK, map[string]any{"message": "moved"})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func (s *storyService) move(id int64, newOrder int) {
	sort.SliceStable(s.dialogues, func(i, j int) bool {
		return toInt(s.dialogues[i]["order_number"]) < toInt(s.dialogues[j]["order_number"])
	})
	idx := -1
	for i, d := range s.dialogues {
		if toInt(d["dialogue_id"]) == int(id) {
			idx = i
		}
	}
	if idx < 0 {
		return
	}
	moved := s.dialogues[idx]
	rest := append(append([]map[string]any{}, s.dialogues[:idx]...), s.dialogues[idx+1:]...)
	pos := min(max(newOrder-1, 0), len(rest))
	s.dialogues = append(append(append([]map[string]any{}, rest[:pos]...), moved), rest[pos:]...)
	for i, d := range s.dialogues {
		d["order_number"] = i + 1
	}
}

func (s *storyService) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

const storyFortyTwo = `{"story":{"story_id":42,"title":"Tom & Jerry <3","created_at":"2024-05-01T08:00:00Z","view_count":"12"}}`

func (s *storyService) setListing(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listing = body
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// connect starts the upstream fake and an in-memory MCP session against a
// server built from deps. deps.API is filled in when nil.
func connect(t *testing.T, deps Deps) (*mcp.ClientSession, *storyService) {
	t.Helper()
	ctx := context.Background()

	svc := &storyService{}
	upstream := httptest.NewServer(svc.handler())
	t.Cleanup(upstream.Close)

	if deps.API == nil {
		api, err := storyapi.NewClient(storyapi.Config{BaseURL: upstream.URL, Token: "test-token"})
		if err != nil {
			t.Fatalf("new client: %v", err)
		}
		deps.API = api
	}

	server := NewServer(deps, "test")
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session, svc
}

// call invokes a tool and decodes its text payload.
func call(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) map[string]any {
	t.Helper()
	text := callText(t, cs, name, args)
	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("CallTool(%s) payload is not JSON: %v\n%s", name, err, text)
	}
	return out
}

// callText invokes a tool and returns its text payload as sent.
func callText(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if res.IsError {
		t.Fatalf("CallTool(%s) set IsError", name)
	}
	if len(res.Content) != 1 {
		t.Fatalf("CallTool(%s) content len = %d, want 1", name, len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s) content type = %T", name, res.Content[0])
	}
	return text.Text
}

func errorCode(t *testing.T, payload map[string]any) string {
	t.Helper()
	if ok, _ := payload["ok"].(bool); ok || payload["ok"] == nil {
		t.Fatalf("payload is not a failure envelope: %v", payload)
	}
	e, _ := payload["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}
