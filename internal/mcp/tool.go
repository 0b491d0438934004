package mcp

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// effect classifies what a tool does to upstream state. It drives the MCP
// annotations and the read-only policy.
type effect int

const (
	effectRead effect = iota
	effectCreate
	effectUpdate
	effectDelete
	effectToggle
)

func (e effect) mutates() bool { return e != effectRead }

func (e effect) annotations(title string) *mcp.ToolAnnotations {
	a := &mcp.ToolAnnotations{Title: title, OpenWorldHint: boolPtr(true)}
	switch e {
	case effectRead:
		a.ReadOnlyHint = true
	case effectCreate, effectToggle:
		a.DestructiveHint = boolPtr(false)
	case effectUpdate:
		a.DestructiveHint = boolPtr(true)
		a.IdempotentHint = true
	case effectDelete:
		a.DestructiveHint = boolPtr(true)
		a.IdempotentHint = true
	}
	return a
}

func boolPtr(b bool) *bool { return &b }

type entry interface {
	register(server *mcp.Server, h *handler)
	info() ToolInfo
}

// tool binds a typed input to the function that runs it.
type tool[In any] struct {
	name        string
	title       string
	description string
	effect      effect
	run         func(ctx context.Context, d Deps, in In) (any, error)
}

func (t tool[In]) definition() *mcp.Tool {
	return &mcp.Tool{
		Name:        t.name,
		Description: t.description,
		Annotations: t.effect.annotations(t.title),
		InputSchema: inputSchema[In](),
	}
}

func (t tool[In]) register(server *mcp.Server, h *handler) {
	mcp.AddTool(server, t.definition(), func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		res := h.handle(ctx, t.name, t.effect.mutates(), in, func(ctx context.Context) (any, error) {
			return t.run(ctx, h.deps, in)
		})
		return res, nil, nil
	})
}

func (t tool[In]) info() ToolInfo {
	schema := inputSchema[In]()
	info := ToolInfo{
		Name:        t.name,
		Title:       t.title,
		Description: t.description,
		ReadOnly:    !t.effect.mutates(),
		Destructive: t.effect == effectUpdate || t.effect == effectDelete,
	}
	typ := reflect.TypeFor[In]()
	for i := 0; i < typ.NumField(); i++ {
		name := jsonName(typ.Field(i))
		if name == "" {
			continue
		}
		prop := schema.Properties[name]
		if prop == nil {
			continue
		}
		info.Arguments = append(info.Arguments, ArgumentInfo{
			Name:        name,
			Type:        schemaType(prop),
			Description: prop.Description,
		})
	}
	return info
}

// inputSchema infers the object schema for In. Every argument is optional
// at the schema level so missing or malformed values reach local
// validation and come back as an invalid_argument payload.
func inputSchema[In any]() *jsonschema.Schema {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("input schema for %T: %v", *new(In), err))
	}
	schema.Required = nil
	return schema
}

func jsonName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

func schemaType(s *jsonschema.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	for _, t := range s.Types {
		if t != "null" {
			return t
		}
	}
	return "any"
}
