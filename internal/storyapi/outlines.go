package storyapi

import (
	"context"
	"fmt"
	"net/http"
)

type OutlineInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func outlinePath(storyID, outlineID int64) string {
	return fmt.Sprintf("/api/stories/%d/outlines/%d", storyID, outlineID)
}

func (c *Client) ListOutlines(ctx context.Context, storyID int64) (RawJSON, error) {
	return c.call(ctx, "list outlines", http.MethodGet, storyPath(storyID)+"/outlines", nil, nil)
}

func (c *Client) GetOutline(ctx context.Context, storyID, outlineID int64) (RawJSON, error) {
	return c.call(ctx, "get outline", http.MethodGet, outlinePath(storyID, outlineID), nil, nil)
}

func (c *Client) CreateOutline(ctx context.Context, storyID int64, in OutlineInput) (RawJSON, error) {
	return c.call(ctx, "create outline", http.MethodPost, storyPath(storyID)+"/outlines", nil, jsonBody{v: in})
}

func (c *Client) UpdateOutline(ctx context.Context, storyID, outlineID int64, in OutlineInput) (RawJSON, error) {
	return c.call(ctx, "update outline", http.MethodPut, outlinePath(storyID, outlineID), nil, jsonBody{v: in})
}

func (c *Client) DeleteOutline(ctx context.Context, storyID, outlineID int64) (RawJSON, error) {
	return c.call(ctx, "delete outline", http.MethodDelete, outlinePath(storyID, outlineID), nil, nil)
}
