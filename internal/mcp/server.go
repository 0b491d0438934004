// Package mcp exposes the story API as MCP tools. Every tool runs through
// one dispatch path that applies policy, recovers panics, renders the
// result as pretty JSON and records telemetry and audit rows.
package mcp

import (
	"log/slog"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chatstory/storymcp/internal/core"
	"github.com/chatstory/storymcp/internal/storyapi"
)

const ServerName = "storymcp"

// Deps are the collaborators shared by every tool. Audit may be nil.
type Deps struct {
	API       *storyapi.Client
	Dialogues *core.DialogueService
	Policy    *core.Policy
	Audit     *core.AuditService
	Logger    *slog.Logger
}

// NewServer builds an MCP server with the full tool catalogue registered.
func NewServer(deps Deps, version string) *mcp.Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Policy == nil {
		deps.Policy = core.NewPolicy("", false)
	}
	if deps.Dialogues == nil && deps.API != nil {
		deps.Dialogues = core.NewDialogueService(deps.API, deps.Logger)
	}
	if version == "" {
		version = "dev"
	}

	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	h := &handler{deps: deps}
	for _, t := range catalog() {
		t.register(server, h)
	}
	return server
}

// ToolInfo describes one registered tool for documentation.
type ToolInfo struct {
	Name        string
	Title       string
	Description string
	ReadOnly    bool
	Destructive bool
	Arguments   []ArgumentInfo
}

type ArgumentInfo struct {
	Name        string
	Type        string
	Description string
}

// Catalog lists every tool sorted by name.
func Catalog() []ToolInfo {
	entries := catalog()
	out := make([]ToolInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func catalog() []entry {
	var all []entry
	all = append(all, storyTools()...)
	all = append(all, chapterTools()...)
	all = append(all, characterTools()...)
	all = append(all, dialogueTools()...)
	all = append(all, outlineTools()...)
	all = append(all, accountTools()...)
	return all
}
