package storyapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const categoriesPath = "/api/categories"

func (c *Client) GetCategoriesAndTags(ctx context.Context) (RawJSON, error) {
	return c.call(ctx, "get categories and tags", http.MethodGet, categoriesPath, nil, nil)
}

// GetCategories projects the combined endpoint down to
// {"categories": mainCategories}.
func (c *Client) GetCategories(ctx context.Context) (RawJSON, error) {
	return c.project(ctx, "get categories", "mainCategories", "categories")
}

// GetTags projects the combined endpoint down to {"tags": tags}.
func (c *Client) GetTags(ctx context.Context) (RawJSON, error) {
	return c.project(ctx, "get tags", "tags", "tags")
}

// project copies body[from] into a fresh object under key to. A missing
// source key yields an empty object.
func (c *Client) project(ctx context.Context, op, from, to string) (RawJSON, error) {
	raw, err := c.call(ctx, op, http.MethodGet, categoriesPath, nil, nil)
	if err != nil {
		return nil, err
	}
	out := []byte(`{}`)
	v := gjson.GetBytes(raw, from)
	if !v.Exists() {
		return RawJSON(out), nil
	}
	out, err = sjson.SetRawBytes(out, to, []byte(v.Raw))
	if err != nil {
		derr := decodeError(op, raw, fmt.Errorf("project %s: %w", from, err))
		c.logFailure(http.MethodGet, categoriesPath, derr)
		return nil, derr
	}
	return RawJSON(out), nil
}
