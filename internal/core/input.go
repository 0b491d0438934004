package core

import (
	"strings"

	"github.com/chatstory/storymcp/internal/storyapi"
)

// RequireID rejects non-positive resource identifiers.
func RequireID(field string, id int64) error {
	if id <= 0 {
		return invalidf(field, "must be a positive integer (got %d)", id)
	}
	return nil
}

// RequireIDs validates every known identifier present in ids.
func RequireIDs(ids map[string]int64) error {
	for _, field := range []string{"storyId", "chapterId", "characterId", "dialogueId", "outlineId"} {
		if id, ok := ids[field]; ok {
			if err := RequireID(field, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalidf(field, "must not be empty")
	}
	return nil
}

// NewStoryForm validates story fields and builds the multipart payload.
func NewStoryForm(title, description, mainCategoryID, tagIDs, coverImage string) (storyapi.StoryForm, error) {
	if err := requireText("title", title); err != nil {
		return storyapi.StoryForm{}, err
	}
	if err := requireText("mainCategoryId", mainCategoryID); err != nil {
		return storyapi.StoryForm{}, err
	}
	tags := strings.TrimSpace(tagIDs)
	if tags == "" {
		tags = "[]"
	}
	if !strings.HasPrefix(tags, "[") || !strings.HasSuffix(tags, "]") {
		return storyapi.StoryForm{}, invalidf("tagIds", "must be a JSON array such as [1,2,3] (got %q)", tagIDs)
	}
	return storyapi.StoryForm{
		Title:            title,
		Description:      description,
		MainCategoryID:   strings.TrimSpace(mainCategoryID),
		TagIDs:           tags,
		CoverImageBase64: coverImage,
	}, nil
}

// NewChapterInput validates chapter fields for create and update.
func NewChapterInput(title, summary, status string) (storyapi.ChapterInput, error) {
	if err := requireText("title", title); err != nil {
		return storyapi.ChapterInput{}, err
	}
	st, err := ParseStatus(status)
	if err != nil {
		return storyapi.ChapterInput{}, err
	}
	return storyapi.ChapterInput{Title: title, Summary: summary, Status: string(st)}, nil
}

// ParseStatusFilter accepts an empty filter, meaning all statuses.
func ParseStatusFilter(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return "", err
	}
	return string(st), nil
}

// CharacterFields carries the optional character attributes.
type CharacterFields struct {
	Gender      *string
	Birthday    *string
	Height      *float64
	Weight      *float64
	Personality *string
	Appearance  *string
	Background  *string
}

// NewCharacterForm validates character fields and builds the multipart
// payload.
func NewCharacterForm(name, description, role string, opt CharacterFields, avatarImage string) (storyapi.CharacterForm, error) {
	if err := requireText("name", name); err != nil {
		return storyapi.CharacterForm{}, err
	}
	r, err := ParseCharacterRole(role)
	if err != nil {
		return storyapi.CharacterForm{}, err
	}
	if opt.Height != nil && *opt.Height < 0 {
		return storyapi.CharacterForm{}, invalidf("height", "must not be negative")
	}
	if opt.Weight != nil && *opt.Weight < 0 {
		return storyapi.CharacterForm{}, invalidf("weight", "must not be negative")
	}
	return storyapi.CharacterForm{
		Name:              name,
		Description:       description,
		Role:              string(r),
		Gender:            opt.Gender,
		Birthday:          opt.Birthday,
		Height:            opt.Height,
		Weight:            opt.Weight,
		Personality:       opt.Personality,
		Appearance:        opt.Appearance,
		Background:        opt.Background,
		AvatarImageBase64: avatarImage,
	}, nil
}

func NewOutlineInput(title, description string) (storyapi.OutlineInput, error) {
	if err := requireText("title", title); err != nil {
		return storyapi.OutlineInput{}, err
	}
	return storyapi.OutlineInput{Title: title, Description: description}, nil
}

// CreateDialogueInput is a validated dialogue creation request.
// CharacterID is nil for narration; OrderNumber is nil when the caller
// wants the line appended.
type CreateDialogueInput struct {
	StoryID     int64
	ChapterID   int64
	CharacterID *int64
	Content     string
	OrderNumber *int
	Type        DialogueType
}

// NewCreateDialogueInput applies the type/character rule: the type defaults
// to narration, spoken lines need a character, narration drops any
// character that was passed.
func NewCreateDialogueInput(storyID, chapterID int64, characterID *int64, content string, orderNumber *int, dialogueType string) (CreateDialogueInput, error) {
	if err := RequireIDs(map[string]int64{"storyId": storyID, "chapterId": chapterID}); err != nil {
		return CreateDialogueInput{}, err
	}
	typ, err := ParseDialogueType(dialogueType)
	if err != nil {
		return CreateDialogueInput{}, err
	}
	if orderNumber != nil && *orderNumber < 1 {
		return CreateDialogueInput{}, invalidf("orderNumber", "must be >= 1 (got %d)", *orderNumber)
	}

	in := CreateDialogueInput{
		StoryID:     storyID,
		ChapterID:   chapterID,
		Content:     content,
		OrderNumber: orderNumber,
		Type:        typ,
	}
	switch typ {
	case DialogueSpoken:
		if characterID == nil || *characterID <= 0 {
			return CreateDialogueInput{}, invalidf("characterId", "is required when type is dialogue")
		}
		id := *characterID
		in.CharacterID = &id
	case DialogueNarration:
		in.CharacterID = nil
	}
	return in, nil
}

// MoveDialogueInput is a validated reorder request.
type MoveDialogueInput struct {
	StoryID    int64
	ChapterID  int64
	DialogueID int64
	NewOrder   int
}

func NewMoveDialogueInput(storyID, chapterID, dialogueID int64, newOrder int) (MoveDialogueInput, error) {
	if err := RequireIDs(map[string]int64{"storyId": storyID, "chapterId": chapterID, "dialogueId": dialogueID}); err != nil {
		return MoveDialogueInput{}, err
	}
	if newOrder < 1 {
		return MoveDialogueInput{}, invalidf("newOrder", "must be >= 1 (got %d)", newOrder)
	}
	return MoveDialogueInput{StoryID: storyID, ChapterID: chapterID, DialogueID: dialogueID, NewOrder: newOrder}, nil
}
