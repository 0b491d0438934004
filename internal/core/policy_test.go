package core

import (
	"errors"
	"testing"
)

func TestPolicyCheckTool(t *testing.T) {
	p := NewPolicy("getStories, createDialogue", false)

	if err := p.CheckTool("getStories", false); err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
	if err := p.CheckTool("createDialogue", true); err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
	err := p.CheckTool("deleteStory", true)
	if err == nil {
		t.Fatal("expected denied for unlisted tool")
	}
	var pe *PolicyError
	if !errors.As(err, &pe) || pe.ErrorCode() != "tool_not_allowed" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPolicyEmptyAllowlistAllowsAll(t *testing.T) {
	p := NewPolicy("", false)

	for _, name := range []string{"getStories", "deleteStory", "moveDialogue"} {
		if err := p.CheckTool(name, true); err != nil {
			t.Fatalf("%s: expected allowed, got %v", name, err)
		}
	}
	if len(p.AllowedTools()) != 0 {
		t.Fatalf("AllowedTools = %v, want empty", p.AllowedTools())
	}
}

func TestPolicyReadOnly(t *testing.T) {
	p := NewPolicy("", true)

	if err := p.CheckTool("getDialogues", false); err != nil {
		t.Fatalf("read tool denied: %v", err)
	}
	if err := p.CheckTool("deleteChapter", true); err == nil {
		t.Fatal("expected mutating tool to be denied in read-only mode")
	}
	if !p.ReadOnly() {
		t.Fatal("ReadOnly() = false")
	}
}

func TestPolicyAllowedToolsSorted(t *testing.T) {
	p := NewPolicy("toggleBookmark,getTags,,createStory", false)
	got := p.AllowedTools()
	want := []string{"createStory", "getTags", "toggleBookmark"}
	if len(got) != len(want) {
		t.Fatalf("AllowedTools = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllowedTools = %v, want %v", got, want)
		}
	}
}
