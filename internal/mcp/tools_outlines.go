package mcp

import (
	"context"

	"github.com/chatstory/storymcp/internal/core"
)

type outlineIDArgs struct {
	StoryID   int64 `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	OutlineID int64 `json:"outlineId,omitempty" jsonschema:"outline ID (required)"`
}

type outlineFormArgs struct {
	StoryID     int64  `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	OutlineID   int64  `json:"outlineId,omitempty" jsonschema:"outline ID (required for updateOutline)"`
	Title       string `json:"title,omitempty" jsonschema:"outline title (required)"`
	Description string `json:"description,omitempty" jsonschema:"outline body"`
}

func outlineTools() []entry {
	return []entry{
		tool[storyIDArgs]{
			name:        "getOutlines",
			title:       "List Outlines",
			description: "List a story's outline entries in order.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, in storyIDArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				return d.API.ListOutlines(ctx, in.StoryID)
			},
		},
		tool[outlineIDArgs]{
			name:        "getOutlineDetail",
			title:       "Get Outline",
			description: "Get one outline entry.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, in outlineIDArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "outlineId": in.OutlineID}); err != nil {
					return nil, err
				}
				return d.API.GetOutline(ctx, in.StoryID, in.OutlineID)
			},
		},
		tool[outlineFormArgs]{
			name:        "createOutline",
			title:       "Create Outline",
			description: "Append an outline entry to a story.",
			effect:      effectCreate,
			run: func(ctx context.Context, d Deps, in outlineFormArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				body, err := core.NewOutlineInput(in.Title, in.Description)
				if err != nil {
					return nil, err
				}
				return d.API.CreateOutline(ctx, in.StoryID, body)
			},
		},
		tool[outlineFormArgs]{
			name:        "updateOutline",
			title:       "Update Outline",
			description: "Replace an outline entry's title and description.",
			effect:      effectUpdate,
			run: func(ctx context.Context, d Deps, in outlineFormArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "outlineId": in.OutlineID}); err != nil {
					return nil, err
				}
				body, err := core.NewOutlineInput(in.Title, in.Description)
				if err != nil {
					return nil, err
				}
				return d.API.UpdateOutline(ctx, in.StoryID, in.OutlineID, body)
			},
		},
		tool[outlineIDArgs]{
			name:        "deleteOutline",
			title:       "Delete Outline",
			description: "Delete an outline entry.",
			effect:      effectDelete,
			run: func(ctx context.Context, d Deps, in outlineIDArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "outlineId": in.OutlineID}); err != nil {
					return nil, err
				}
				return d.API.DeleteOutline(ctx, in.StoryID, in.OutlineID)
			},
		},
	}
}
