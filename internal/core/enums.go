package core

import "strings"

// Status is the publication state shared by stories and chapters.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.TrimSpace(s)) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	}
	return "", invalidf("status", "must be one of draft, published (got %q)", s)
}

type CharacterRole string

const (
	RoleMain       CharacterRole = "main"
	RoleSupporting CharacterRole = "supporting"
)

func ParseCharacterRole(s string) (CharacterRole, error) {
	switch CharacterRole(strings.TrimSpace(s)) {
	case RoleMain:
		return RoleMain, nil
	case RoleSupporting:
		return RoleSupporting, nil
	}
	return "", invalidf("role", "must be one of main, supporting (got %q)", s)
}

// DialogueType distinguishes spoken lines from narration. Narration never
// references a character.
type DialogueType string

const (
	DialogueSpoken    DialogueType = "dialogue"
	DialogueNarration DialogueType = "narration"
)

// ParseDialogueType defaults an empty value to narration.
func ParseDialogueType(s string) (DialogueType, error) {
	switch DialogueType(strings.TrimSpace(s)) {
	case "", DialogueNarration:
		return DialogueNarration, nil
	case DialogueSpoken:
		return DialogueSpoken, nil
	}
	return "", invalidf("type", "must be one of dialogue, narration (got %q)", s)
}
