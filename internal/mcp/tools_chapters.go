package mcp

import (
	"context"

	"github.com/chatstory/storymcp/internal/core"
)

type chapterListArgs struct {
	StoryID int64  `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	Status  string `json:"status,omitempty" jsonschema:"optional filter: draft or published"`
}

type chapterIDArgs struct {
	StoryID   int64 `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	ChapterID int64 `json:"chapterId,omitempty" jsonschema:"chapter ID (required)"`
}

type chapterFormArgs struct {
	StoryID   int64  `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	ChapterID int64  `json:"chapterId,omitempty" jsonschema:"chapter ID (required for updateChapter)"`
	Title     string `json:"title,omitempty" jsonschema:"chapter title (required)"`
	Summary   string `json:"summary,omitempty" jsonschema:"chapter summary"`
	Status    string `json:"status,omitempty" jsonschema:"draft or published (required)"`
}

func chapterTools() []entry {
	return []entry{
		tool[chapterListArgs]{
			name:        "getChapters",
			title:       "List Chapters",
			description: "List a story's chapters, optionally filtered by status.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, in chapterListArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				status, err := core.ParseStatusFilter(in.Status)
				if err != nil {
					return nil, err
				}
				return d.API.ListChapters(ctx, in.StoryID, status)
			},
		},
		tool[chapterIDArgs]{
			name:        "getChapterDetail",
			title:       "Get Chapter",
			description: "Get one chapter.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, in chapterIDArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "chapterId": in.ChapterID}); err != nil {
					return nil, err
				}
				return d.API.GetChapter(ctx, in.StoryID, in.ChapterID)
			},
		},
		tool[chapterFormArgs]{
			name:        "createChapter",
			title:       "Create Chapter",
			description: "Create a chapter at the end of a story.",
			effect:      effectCreate,
			run: func(ctx context.Context, d Deps, in chapterFormArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				body, err := core.NewChapterInput(in.Title, in.Summary, in.Status)
				if err != nil {
					return nil, err
				}
				return d.API.CreateChapter(ctx, in.StoryID, body)
			},
		},
		tool[chapterFormArgs]{
			name:        "updateChapter",
			title:       "Update Chapter",
			description: "Replace a chapter's title, summary and status.",
			effect:      effectUpdate,
			run: func(ctx context.Context, d Deps, in chapterFormArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "chapterId": in.ChapterID}); err != nil {
					return nil, err
				}
				body, err := core.NewChapterInput(in.Title, in.Summary, in.Status)
				if err != nil {
					return nil, err
				}
				return d.API.UpdateChapter(ctx, in.StoryID, in.ChapterID, body)
			},
		},
		tool[chapterIDArgs]{
			name:        "deleteChapter",
			title:       "Delete Chapter",
			description: "Delete a chapter and its dialogues.",
			effect:      effectDelete,
			run: func(ctx context.Context, d Deps, in chapterIDArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "chapterId": in.ChapterID}); err != nil {
					return nil, err
				}
				return d.API.DeleteChapter(ctx, in.StoryID, in.ChapterID)
			},
		},
	}
}
