package main

import (
	"fmt"
	"os"

	"github.com/chatstory/storymcp/internal/mcp"
)

func main() {
	tools := mcp.Catalog()

	fmt.Fprintln(os.Stdout, "# MCP Tools (Generated)")
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, "This file is generated by `go run ./cmd/mcpdocgen`.")
	fmt.Fprintln(os.Stdout)

	for _, t := range tools {
		fmt.Fprintf(os.Stdout, "- `%s`\n", t.Name)
		if t.Description != "" {
			fmt.Fprintf(os.Stdout, "  - Description: %s\n", t.Description)
		}
		switch {
		case t.ReadOnly:
			fmt.Fprintln(os.Stdout, "  - Effect: read-only")
		case t.Destructive:
			fmt.Fprintln(os.Stdout, "  - Effect: modifies or removes existing data")
		default:
			fmt.Fprintln(os.Stdout, "  - Effect: creates or changes data")
		}

		if len(t.Arguments) > 0 {
			fmt.Fprintln(os.Stdout, "  - Input:")
			for _, a := range t.Arguments {
				fmt.Fprintf(os.Stdout, "    - `%s` (%s): %s\n", a.Name, a.Type, a.Description)
			}
		}
		fmt.Fprintln(os.Stdout)
	}
}
