package storyapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ChapterInput is the JSON body for chapter create and update.
type ChapterInput struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Status  string `json:"status"`
}

func chapterPath(storyID, chapterID int64) string {
	return fmt.Sprintf("/api/stories/%d/chapters/%d", storyID, chapterID)
}

// ListChapters returns a story's chapters. A non-empty status is passed
// through as a query filter.
func (c *Client) ListChapters(ctx context.Context, storyID int64, status string) (RawJSON, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	return c.call(ctx, "list chapters", http.MethodGet, storyPath(storyID)+"/chapters", query, nil)
}

func (c *Client) GetChapter(ctx context.Context, storyID, chapterID int64) (RawJSON, error) {
	return c.call(ctx, "get chapter", http.MethodGet, chapterPath(storyID, chapterID), nil, nil)
}

func (c *Client) CreateChapter(ctx context.Context, storyID int64, in ChapterInput) (RawJSON, error) {
	return c.call(ctx, "create chapter", http.MethodPost, storyPath(storyID)+"/chapters", nil, jsonBody{v: in})
}

func (c *Client) UpdateChapter(ctx context.Context, storyID, chapterID int64, in ChapterInput) (RawJSON, error) {
	return c.call(ctx, "update chapter", http.MethodPut, chapterPath(storyID, chapterID), nil, jsonBody{v: in})
}

func (c *Client) DeleteChapter(ctx context.Context, storyID, chapterID int64) (RawJSON, error) {
	return c.call(ctx, "delete chapter", http.MethodDelete, chapterPath(storyID, chapterID), nil, nil)
}
