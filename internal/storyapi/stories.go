package storyapi

import (
	"context"
	"fmt"
	"net/http"
)

// StoryForm is the multipart payload for creating or updating a story.
// TagIDs is a JSON array literal such as "[1,2,3]".
type StoryForm struct {
	Title            string
	Description      string
	MainCategoryID   string
	TagIDs           string
	CoverImageBase64 string
}

func (f StoryForm) body() (*formBody, error) {
	form := &formBody{}
	form.set("title", f.Title)
	form.set("description", f.Description)
	form.set("mainCategoryId", f.MainCategoryID)
	form.set("tagIds", f.TagIDs)
	if err := form.attachImage("coverImage", "cover.jpg", f.CoverImageBase64); err != nil {
		return nil, err
	}
	return form, nil
}

func storyPath(storyID int64) string {
	return fmt.Sprintf("/api/stories/%d", storyID)
}

func (c *Client) ListStories(ctx context.Context) (RawJSON, error) {
	return c.call(ctx, "list stories", http.MethodGet, "/api/stories", nil, nil)
}

func (c *Client) GetStory(ctx context.Context, storyID int64) (RawJSON, error) {
	return c.call(ctx, "get story", http.MethodGet, storyPath(storyID), nil, nil)
}

func (c *Client) CreateStory(ctx context.Context, in StoryForm) (RawJSON, error) {
	const op = "create story"
	form, err := in.body()
	if err != nil {
		return nil, c.reject(op, http.MethodPost, "/api/stories/create", err)
	}
	return c.call(ctx, op, http.MethodPost, "/api/stories/create", nil, form)
}

func (c *Client) UpdateStory(ctx context.Context, storyID int64, in StoryForm) (RawJSON, error) {
	const op = "update story"
	form, err := in.body()
	if err != nil {
		return nil, c.reject(op, http.MethodPut, storyPath(storyID), err)
	}
	return c.call(ctx, op, http.MethodPut, storyPath(storyID), nil, form)
}

func (c *Client) DeleteStory(ctx context.Context, storyID int64) (RawJSON, error) {
	return c.call(ctx, "delete story", http.MethodDelete, storyPath(storyID), nil, nil)
}

func (c *Client) PublishStory(ctx context.Context, storyID int64) (RawJSON, error) {
	return c.call(ctx, "publish story", http.MethodPut, storyPath(storyID)+"/publish", nil, nil)
}

func (c *Client) CheckBookmark(ctx context.Context, storyID int64) (RawJSON, error) {
	return c.call(ctx, "check bookmark", http.MethodGet, storyPath(storyID)+"/bookmarks", nil, nil)
}

func (c *Client) ToggleBookmark(ctx context.Context, storyID int64) (RawJSON, error) {
	return c.call(ctx, "toggle bookmark", http.MethodPost, storyPath(storyID)+"/bookmarks", nil, jsonBody{v: struct{}{}})
}
