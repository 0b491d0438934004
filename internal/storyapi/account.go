package storyapi

import (
	"context"
	"net/http"
)

func (c *Client) ListBookmarks(ctx context.Context) (RawJSON, error) {
	return c.call(ctx, "list bookmarks", http.MethodGet, "/api/account/bookmarks", nil, nil)
}

func (c *Client) ListViewHistory(ctx context.Context) (RawJSON, error) {
	return c.call(ctx, "list view history", http.MethodGet, "/api/account/view-history", nil, nil)
}
