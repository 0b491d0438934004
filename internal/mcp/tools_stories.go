package mcp

import (
	"context"

	"github.com/chatstory/storymcp/internal/core"
)

type noArgs struct{}

type storyIDArgs struct {
	StoryID int64 `json:"storyId,omitempty" jsonschema:"story ID (required)"`
}

type storyFormArgs struct {
	StoryID          int64  `json:"storyId,omitempty" jsonschema:"story ID (required for updateStory)"`
	Title            string `json:"title,omitempty" jsonschema:"story title (required)"`
	Description      string `json:"description,omitempty" jsonschema:"story synopsis"`
	MainCategoryID   string `json:"mainCategoryId,omitempty" jsonschema:"main category ID (required)"`
	TagIDs           string `json:"tagIds,omitempty" jsonschema:"tag IDs as a JSON array string such as [1,2,3]"`
	CoverImageBase64 string `json:"coverImageBase64,omitempty" jsonschema:"optional cover image as base64 or a data URL"`
}

func storyTools() []entry {
	return []entry{
		tool[noArgs]{
			name:        "getStories",
			title:       "List Stories",
			description: "List the stories owned by the authenticated user.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, _ noArgs) (any, error) {
				return d.API.ListStories(ctx)
			},
		},
		tool[storyIDArgs]{
			name:        "getStoryDetail",
			title:       "Get Story",
			description: "Get one story with its category and tag IDs.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, in storyIDArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				return d.API.GetStory(ctx, in.StoryID)
			},
		},
		tool[storyFormArgs]{
			name:        "createStory",
			title:       "Create Story",
			description: "Create a story. Returns the new story ID.",
			effect:      effectCreate,
			run: func(ctx context.Context, d Deps, in storyFormArgs) (any, error) {
				form, err := core.NewStoryForm(in.Title, in.Description, in.MainCategoryID, in.TagIDs, in.CoverImageBase64)
				if err != nil {
					return nil, err
				}
				return d.API.CreateStory(ctx, form)
			},
		},
		tool[storyFormArgs]{
			name:        "updateStory",
			title:       "Update Story",
			description: "Replace a story's title, description, category, tags and optionally its cover.",
			effect:      effectUpdate,
			run: func(ctx context.Context, d Deps, in storyFormArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				form, err := core.NewStoryForm(in.Title, in.Description, in.MainCategoryID, in.TagIDs, in.CoverImageBase64)
				if err != nil {
					return nil, err
				}
				return d.API.UpdateStory(ctx, in.StoryID, form)
			},
		},
		tool[storyIDArgs]{
			name:        "deleteStory",
			title:       "Delete Story",
			description: "Delete a story and everything under it.",
			effect:      effectDelete,
			run: func(ctx context.Context, d Deps, in storyIDArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				return d.API.DeleteStory(ctx, in.StoryID)
			},
		},
		tool[storyIDArgs]{
			name:        "publishStory",
			title:       "Publish Story",
			description: "Publish a story.",
			effect:      effectUpdate,
			run: func(ctx context.Context, d Deps, in storyIDArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				return d.API.PublishStory(ctx, in.StoryID)
			},
		},
		tool[storyIDArgs]{
			name:        "checkBookmark",
			title:       "Check Bookmark",
			description: "Report whether the authenticated user has bookmarked a story.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, in storyIDArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				return d.API.CheckBookmark(ctx, in.StoryID)
			},
		},
		tool[storyIDArgs]{
			name:        "toggleBookmark",
			title:       "Toggle Bookmark",
			description: "Add or remove a bookmark on a story. Returns the new bookmark state.",
			effect:      effectToggle,
			run: func(ctx context.Context, d Deps, in storyIDArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				return d.API.ToggleBookmark(ctx, in.StoryID)
			},
		},
	}
}
