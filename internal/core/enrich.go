package core

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/chatstory/storymcp/internal/storyapi"
)

// EnrichDialogues sets dialogues.N.character_name on a raw dialogue listing
// using the names from a raw character listing. Lines without a character,
// or whose character is unknown, get null. Every other field of the body is
// left as the upstream sent it.
func EnrichDialogues(raw, characters storyapi.RawJSON) (storyapi.RawJSON, error) {
	names := characterNames(characters)

	list := gjson.GetBytes(raw, "dialogues")
	if !list.IsArray() {
		return raw, nil
	}

	out := append([]byte(nil), raw...)
	for i, d := range list.Array() {
		var name any
		if id, ok := characterID(d.Get("character_id")); ok {
			if n, found := names[id]; found {
				name = n
			}
		}
		var err error
		out, err = sjson.SetBytes(out, fmt.Sprintf("dialogues.%d.character_name", i), name)
		if err != nil {
			return nil, fmt.Errorf("set character_name on dialogue %d: %w", i, err)
		}
	}
	return storyapi.RawJSON(out), nil
}

func characterID(v gjson.Result) (int64, bool) {
	switch v.Type {
	case gjson.Number, gjson.String:
		id := v.Int()
		return id, id != 0
	}
	return 0, false
}

// characterNames indexes characters.N.name by characters.N.character_id.
func characterNames(raw storyapi.RawJSON) map[int64]string {
	names := map[int64]string{}
	gjson.GetBytes(raw, "characters").ForEach(func(_, c gjson.Result) bool {
		id, ok := characterID(c.Get("character_id"))
		name := c.Get("name")
		if ok && name.Exists() && name.Type != gjson.Null {
			names[id] = name.String()
		}
		return true
	})
	return names
}
