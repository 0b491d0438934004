package storyapi

import "encoding/json"

// RawJSON is an upstream response body. Results are passed through as
// received so callers see every field the upstream sends, typed the way
// the upstream typed it.
type RawJSON = json.RawMessage
