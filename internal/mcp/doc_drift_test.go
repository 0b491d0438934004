//go:build !short

package mcp_test

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/chatstory/storymcp/internal/config"
	"github.com/chatstory/storymcp/internal/mcp"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file location")
	}
	abs, err := filepath.Abs(filepath.Join(filepath.Dir(file), "..", ".."))
	if err != nil {
		t.Fatalf("cannot resolve repo root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(abs, "README.md")); err != nil {
		t.Fatalf("repo root %q does not contain README.md", abs)
	}
	return abs
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read %s: %v", path, err)
	}
	return string(data)
}

func TestDocDrift_EnvVarsInExample(t *testing.T) {
	envExample := readFile(t, filepath.Join(repoRoot(t), ".env.example"))

	codeVars := make(map[string]bool)
	typ := reflect.TypeFor[config.Config]()
	for i := 0; i < typ.NumField(); i++ {
		if name := typ.Field(i).Tag.Get("env"); name != "" {
			codeVars[name] = true
		}
	}

	reEnvLine := regexp.MustCompile(`^#?\s*([A-Z][A-Z0-9_]*)=`)
	exampleVars := make(map[string]bool)
	for _, line := range strings.Split(envExample, "\n") {
		if m := reEnvLine.FindStringSubmatch(line); m != nil {
			exampleVars[m[1]] = true
		}
	}

	var missing []string
	for v := range codeVars {
		if !exampleVars[v] {
			missing = append(missing, v)
		}
	}
	sort.Strings(missing)
	if len(missing) > 0 {
		t.Errorf("env vars read by config.Config but missing from .env.example:\n  %s",
			strings.Join(missing, "\n  "))
	}
}

func TestDocDrift_MCPToolsInREADME(t *testing.T) {
	readme := readFile(t, filepath.Join(repoRoot(t), "README.md"))

	serverTools := make(map[string]bool)
	for _, info := range mcp.Catalog() {
		serverTools[info.Name] = true
	}

	reMCPSection := regexp.MustCompile(`(?s)## MCP Tools\n(.*?)(?:\n## |\z)`)
	sectionMatch := reMCPSection.FindStringSubmatch(readme)
	if sectionMatch == nil {
		t.Fatal("cannot find '## MCP Tools' section in README.md")
	}

	reToolInREADME := regexp.MustCompile("`([a-z][A-Za-z]+)`")
	readmeTools := make(map[string]bool)
	for _, m := range reToolInREADME.FindAllStringSubmatch(sectionMatch[1], -1) {
		readmeTools[m[1]] = true
	}

	var missingInREADME, missingInServer []string
	for tool := range serverTools {
		if !readmeTools[tool] {
			missingInREADME = append(missingInREADME, tool)
		}
	}
	for tool := range readmeTools {
		if !serverTools[tool] {
			missingInServer = append(missingInServer, tool)
		}
	}
	sort.Strings(missingInREADME)
	sort.Strings(missingInServer)

	if len(missingInREADME) > 0 {
		t.Errorf("MCP tools registered but missing from README:\n  %s",
			strings.Join(missingInREADME, "\n  "))
	}
	if len(missingInServer) > 0 {
		t.Errorf("MCP tools listed in README but not registered:\n  %s",
			strings.Join(missingInServer, "\n  "))
	}
}
