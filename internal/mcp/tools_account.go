package mcp

import "context"

func accountTools() []entry {
	return []entry{
		tool[noArgs]{
			name:        "getBookmarks",
			title:       "List Bookmarks",
			description: "List the stories the authenticated user has bookmarked.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, _ noArgs) (any, error) {
				return d.API.ListBookmarks(ctx)
			},
		},
		tool[noArgs]{
			name:        "getViewHistory",
			title:       "List View History",
			description: "List the stories the authenticated user has viewed, most recent first.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, _ noArgs) (any, error) {
				return d.API.ListViewHistory(ctx)
			},
		},
		tool[noArgs]{
			name:        "getCategoriesAndTags",
			title:       "List Categories and Tags",
			description: "List main categories and tags in one call.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, _ noArgs) (any, error) {
				return d.API.GetCategoriesAndTags(ctx)
			},
		},
		tool[noArgs]{
			name:        "getCategories",
			title:       "List Categories",
			description: "List main story categories.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, _ noArgs) (any, error) {
				return d.API.GetCategories(ctx)
			},
		},
		tool[noArgs]{
			name:        "getTags",
			title:       "List Tags",
			description: "List story tags.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, _ noArgs) (any, error) {
				return d.API.GetTags(ctx)
			},
		},
	}
}
