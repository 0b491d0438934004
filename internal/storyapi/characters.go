package storyapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// CharacterForm is the multipart payload for character create and update.
// Nil optional fields are left out of the form.
type CharacterForm struct {
	Name              string
	Description       string
	Role              string
	Gender            *string
	Birthday          *string
	Height            *float64
	Weight            *float64
	Personality       *string
	Appearance        *string
	Background        *string
	AvatarImageBase64 string
}

func (f CharacterForm) body() (*formBody, error) {
	form := &formBody{}
	form.set("name", f.Name)
	form.set("description", f.Description)
	form.set("role", f.Role)
	form.setOptional("gender", f.Gender)
	form.setOptional("birthday", f.Birthday)
	if f.Height != nil {
		form.set("height", strconv.FormatFloat(*f.Height, 'f', -1, 64))
	}
	if f.Weight != nil {
		form.set("weight", strconv.FormatFloat(*f.Weight, 'f', -1, 64))
	}
	form.setOptional("personality", f.Personality)
	form.setOptional("appearance", f.Appearance)
	form.setOptional("background", f.Background)
	if err := form.attachImage("avatarImage", "avatar.jpg", f.AvatarImageBase64); err != nil {
		return nil, err
	}
	return form, nil
}

func characterPath(storyID, characterID int64) string {
	return fmt.Sprintf("/api/stories/%d/characters/%d", storyID, characterID)
}

func (c *Client) ListCharacters(ctx context.Context, storyID int64) (RawJSON, error) {
	return c.call(ctx, "list characters", http.MethodGet, storyPath(storyID)+"/characters", nil, nil)
}

func (c *Client) GetCharacter(ctx context.Context, storyID, characterID int64) (RawJSON, error) {
	return c.call(ctx, "get character", http.MethodGet, characterPath(storyID, characterID), nil, nil)
}

func (c *Client) CreateCharacter(ctx context.Context, storyID int64, in CharacterForm) (RawJSON, error) {
	const op = "create character"
	form, err := in.body()
	if err != nil {
		return nil, c.reject(op, http.MethodPost, storyPath(storyID)+"/characters", err)
	}
	return c.call(ctx, op, http.MethodPost, storyPath(storyID)+"/characters", nil, form)
}

func (c *Client) UpdateCharacter(ctx context.Context, storyID, characterID int64, in CharacterForm) (RawJSON, error) {
	const op = "update character"
	form, err := in.body()
	if err != nil {
		return nil, c.reject(op, http.MethodPut, characterPath(storyID, characterID), err)
	}
	return c.call(ctx, op, http.MethodPut, characterPath(storyID, characterID), nil, form)
}

func (c *Client) DeleteCharacter(ctx context.Context, storyID, characterID int64) (RawJSON, error) {
	return c.call(ctx, "delete character", http.MethodDelete, characterPath(storyID, characterID), nil, nil)
}
