package mcp

import (
	"context"

	"github.com/chatstory/storymcp/internal/core"
)

type characterIDArgs struct {
	StoryID     int64 `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	CharacterID int64 `json:"characterId,omitempty" jsonschema:"character ID (required)"`
}

type characterFormArgs struct {
	StoryID           int64    `json:"storyId,omitempty" jsonschema:"story ID (required)"`
	CharacterID       int64    `json:"characterId,omitempty" jsonschema:"character ID (required for updateCharacter)"`
	Name              string   `json:"name,omitempty" jsonschema:"character name (required)"`
	Description       string   `json:"description,omitempty" jsonschema:"short description"`
	Role              string   `json:"role,omitempty" jsonschema:"main or supporting (required)"`
	Gender            *string  `json:"gender,omitempty" jsonschema:"optional gender"`
	Birthday          *string  `json:"birthday,omitempty" jsonschema:"optional birthday"`
	Height            *float64 `json:"height,omitempty" jsonschema:"optional height in cm"`
	Weight            *float64 `json:"weight,omitempty" jsonschema:"optional weight in kg"`
	Personality       *string  `json:"personality,omitempty" jsonschema:"optional personality notes"`
	Appearance        *string  `json:"appearance,omitempty" jsonschema:"optional appearance notes"`
	Background        *string  `json:"background,omitempty" jsonschema:"optional background story"`
	AvatarImageBase64 string   `json:"avatarImageBase64,omitempty" jsonschema:"optional avatar image as base64 or a data URL"`
}

func (in characterFormArgs) fields() core.CharacterFields {
	return core.CharacterFields{
		Gender:      in.Gender,
		Birthday:    in.Birthday,
		Height:      in.Height,
		Weight:      in.Weight,
		Personality: in.Personality,
		Appearance:  in.Appearance,
		Background:  in.Background,
	}
}

func characterTools() []entry {
	return []entry{
		tool[storyIDArgs]{
			name:        "getCharacters",
			title:       "List Characters",
			description: "List a story's characters.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, in storyIDArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				return d.API.ListCharacters(ctx, in.StoryID)
			},
		},
		tool[characterIDArgs]{
			name:        "getCharacterDetail",
			title:       "Get Character",
			description: "Get one character with all optional attributes.",
			effect:      effectRead,
			run: func(ctx context.Context, d Deps, in characterIDArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "characterId": in.CharacterID}); err != nil {
					return nil, err
				}
				return d.API.GetCharacter(ctx, in.StoryID, in.CharacterID)
			},
		},
		tool[characterFormArgs]{
			name:        "createCharacter",
			title:       "Create Character",
			description: "Create a character in a story.",
			effect:      effectCreate,
			run: func(ctx context.Context, d Deps, in characterFormArgs) (any, error) {
				if err := core.RequireID("storyId", in.StoryID); err != nil {
					return nil, err
				}
				form, err := core.NewCharacterForm(in.Name, in.Description, in.Role, in.fields(), in.AvatarImageBase64)
				if err != nil {
					return nil, err
				}
				return d.API.CreateCharacter(ctx, in.StoryID, form)
			},
		},
		tool[characterFormArgs]{
			name:        "updateCharacter",
			title:       "Update Character",
			description: "Replace a character's attributes and optionally its avatar.",
			effect:      effectUpdate,
			run: func(ctx context.Context, d Deps, in characterFormArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "characterId": in.CharacterID}); err != nil {
					return nil, err
				}
				form, err := core.NewCharacterForm(in.Name, in.Description, in.Role, in.fields(), in.AvatarImageBase64)
				if err != nil {
					return nil, err
				}
				return d.API.UpdateCharacter(ctx, in.StoryID, in.CharacterID, form)
			},
		},
		tool[characterIDArgs]{
			name:        "deleteCharacter",
			title:       "Delete Character",
			description: "Delete a character.",
			effect:      effectDelete,
			run: func(ctx context.Context, d Deps, in characterIDArgs) (any, error) {
				if err := core.RequireIDs(map[string]int64{"storyId": in.StoryID, "characterId": in.CharacterID}); err != nil {
					return nil, err
				}
				return d.API.DeleteCharacter(ctx, in.StoryID, in.CharacterID)
			},
		},
	}
}
