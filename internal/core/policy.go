package core

import (
	"sort"
	"strings"
)

// Policy decides which tools may run. An empty allowlist allows every tool;
// read-only mode additionally blocks tools that modify upstream state.
type Policy struct {
	allowedTools map[string]bool
	readOnly     bool
}

// NewPolicy creates a Policy from a comma-separated tool allowlist.
func NewPolicy(toolCSV string, readOnly bool) *Policy {
	return &Policy{
		allowedTools: parseCSV(toolCSV),
		readOnly:     readOnly,
	}
}

func (p *Policy) ReadOnly() bool { return p.readOnly }

// AllowedTools returns the configured allowlist, sorted. Empty means all.
func (p *Policy) AllowedTools() []string {
	out := make([]string, 0, len(p.allowedTools))
	for name := range p.allowedTools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CheckTool returns a *PolicyError if toolName may not run. mutates reports
// whether the tool changes upstream state.
func (p *Policy) CheckTool(toolName string, mutates bool) error {
	if len(p.allowedTools) > 0 && !p.allowedTools[toolName] {
		return &PolicyError{Tool: toolName, Reason: "not in allowlist"}
	}
	if p.readOnly && mutates {
		return &PolicyError{Tool: toolName, Reason: "server is in read-only mode"}
	}
	return nil
}

func parseCSV(s string) map[string]bool {
	m := make(map[string]bool)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			m[item] = true
		}
	}
	return m
}
