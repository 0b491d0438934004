package storyapi

import (
	"context"
	"fmt"
	"net/http"
)

// DialogueInput is the create body. CharacterID is always serialized so
// narration lines carry an explicit null.
type DialogueInput struct {
	CharacterID *int64 `json:"character_id"`
	Content     string `json:"content"`
	OrderNumber int    `json:"order_number"`
	Type        string `json:"type"`
}

func dialoguesPath(storyID, chapterID int64) string {
	return chapterPath(storyID, chapterID) + "/dialogues"
}

func dialoguePath(storyID, chapterID, dialogueID int64) string {
	return fmt.Sprintf("%s/%d", dialoguesPath(storyID, chapterID), dialogueID)
}

func (c *Client) ListDialogues(ctx context.Context, storyID, chapterID int64) (RawJSON, error) {
	return c.call(ctx, "list dialogues", http.MethodGet, dialoguesPath(storyID, chapterID), nil, nil)
}

func (c *Client) CreateDialogue(ctx context.Context, storyID, chapterID int64, in DialogueInput) (RawJSON, error) {
	return c.call(ctx, "create dialogue", http.MethodPost, dialoguesPath(storyID, chapterID), nil, jsonBody{v: in})
}

func (c *Client) UpdateDialogue(ctx context.Context, storyID, chapterID, dialogueID int64, content string) (RawJSON, error) {
	body := jsonBody{v: map[string]string{"content": content}}
	return c.call(ctx, "update dialogue", http.MethodPut, dialoguePath(storyID, chapterID, dialogueID), nil, body)
}

func (c *Client) DeleteDialogue(ctx context.Context, storyID, chapterID, dialogueID int64) (RawJSON, error) {
	return c.call(ctx, "delete dialogue", http.MethodDelete, dialoguePath(storyID, chapterID, dialogueID), nil, nil)
}

// MoveDialogue asks the upstream to place a dialogue at newOrder. Sibling
// renumbering is the upstream's job.
func (c *Client) MoveDialogue(ctx context.Context, storyID, chapterID, dialogueID int64, newOrder int) (RawJSON, error) {
	body := jsonBody{v: map[string]int{"new_order": newOrder}}
	return c.call(ctx, "move dialogue", http.MethodPut, dialoguePath(storyID, chapterID, dialogueID)+"/move", nil, body)
}
