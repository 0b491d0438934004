package mcp

import (
	"context"

	"github.com/chatstory/storymcp/internal/core"
)

type dialogueListArgs struct {
	StoryID   int64 `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	ChapterID int64 `json:"chapterId,omitempty" jsonschema:"chapter ID (required)"`
}

type dialogueCreateArgs struct {
	StoryID     int64  `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	ChapterID   int64  `json:"chapterId,omitempty" jsonschema:"chapter ID (required)"`
	CharacterID *int64 `json:"characterId,omitempty" jsonschema:"speaking character ID, required when type is dialogue"`
	Content     string `json:"content,omitempty" jsonschema:"line text"`
	OrderNumber *int   `json:"orderNumber,omitempty" jsonschema:"1-based position; omitted appends after the last line"`
	Type        string `json:"type,omitempty" jsonschema:"dialogue or narration (default narration)"`
}

type dialogueIDArgs struct {
	StoryID    int64 `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	ChapterID  int64 `json:"chapterId,omitempty" jsonschema:"chapter ID (required)"`
	DialogueID int64 `json:"dialogueId,omitempty" jsonschema:"dialogue ID (required)"`
}

type dialogueUpdateArgs struct {
	StoryID    int64  `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	ChapterID  int64  `json:"chapterId,omitempty" jsonschema:"chapter ID (required)"`
	DialogueID int64  `json:"dialogueId,omitempty" jsonschema:"dialogue ID (required)"`
	Content    string `json:"content,omitempty" jsonschema:"new line text"`
}

type dialogueMoveArgs struct {
	StoryID    int64 `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	ChapterID  int64 `json:"chapterId,omitempty" jsonschema:"chapter ID (required)"`
	DialogueID int64 `json:"dialogueId,omitempty" jsonschema:"dialogue ID (required)"`
	NewOrder   int   `json:"newOrder,omitempty" jsonschema:"1-based target position (required)"`
}

func dialogueTools() []entry {
	return []entry{
		tool[dialogueListArgs]{
			name:        "getDialogues",
			title:       "List Dialogues",
			description: "List a chapter's dialogue lines in order. Each line carries character_name, null for narration or unknown characters.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, in dialogueListArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "chapterId": in.ChapterID}); err != nil {
					return nil, err
				}
				return d.Dialogues.ListWithNames(ctx, in.StoryID, in.ChapterID)
			},
		},
		tool[dialogueCreateArgs]{
			name:        "createDialogue",
			title:       "Create Dialogue",
			description: "Add a dialogue or narration line to a chapter. Without orderNumber the line is appended.",
			effect:      effectCreate,
			run: func(ctx context.Context, d Deps, in dialogueCreateArgs) (any, error) {
				req, err := core.NewCreateDialogueInput(in.StoryID, in.ChapterID, in.CharacterID, in.Content, in.OrderNumber, in.Type)
				if err != nil {
					return nil, err
				}
				return d.Dialogues.Create(ctx, req)
			},
		},
		tool[dialogueUpdateArgs]{
			name:        "updateDialogue",
			title:       "Update Dialogue",
			description: "Replace the text of a dialogue line.",
			effect:      effectUpdate,
			run: func(ctx context.Context, d Deps, in dialogueUpdateArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "chapterId": in.ChapterID, "dialogueId": in.DialogueID}); err != nil {
					return nil, err
				}
				return d.API.UpdateDialogue(ctx, in.StoryID, in.ChapterID, in.DialogueID, in.Content)
			},
		},
		tool[dialogueIDArgs]{
			name:        "deleteDialogue",
			title:       "Delete Dialogue",
			description: "Delete a dialogue line.",
			effect:      effectDelete,
			run: func(ctx context.Context, d Deps, in dialogueIDArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "chapterId": in.ChapterID, "dialogueId": in.DialogueID}); err != nil {
					return nil, err
				}
				return d.API.DeleteDialogue(ctx, in.StoryID, in.ChapterID, in.DialogueID)
			},
		},
		tool[dialogueMoveArgs]{
			name:        "moveDialogue",
			title:       "Move Dialogue",
			description: "Move a dialogue line to a new 1-based position; the other lines shift to make room.",
			effect:      effectUpdate,
			run: func(ctx context.Context, d Deps, in dialogueMoveArgs) (any, error) {
				req, err := core.NewMoveDialogueInput(in.StoryID, in.ChapterID, in.DialogueID, in.NewOrder)
				if err != nil {
					return nil, err
				}
				return d.Dialogues.Move(ctx, req)
			},
		},
	}
}
