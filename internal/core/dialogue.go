package core

import (
	"context"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/chatstory/storymcp/internal/storyapi"
	"github.com/chatstory/storymcp/internal/telemetry"
)

// DialogueAPI is the subset of the story API the dialogue service needs.
type DialogueAPI interface {
	ListDialogues(ctx context.Context, storyID, chapterID int64) (storyapi.RawJSON, error)
	ListCharacters(ctx context.Context, storyID int64) (storyapi.RawJSON, error)
	CreateDialogue(ctx context.Context, storyID, chapterID int64, in storyapi.DialogueInput) (storyapi.RawJSON, error)
	MoveDialogue(ctx context.Context, storyID, chapterID, dialogueID int64, newOrder int) (storyapi.RawJSON, error)
}

// DialogueService owns the ordering and enrichment rules for dialogue
// lines. It keeps no state between calls.
type DialogueService struct {
	api    DialogueAPI
	logger *slog.Logger
}

func NewDialogueService(api DialogueAPI, logger *slog.Logger) *DialogueService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DialogueService{api: api, logger: logger}
}

// Create submits a dialogue line. When no order is given the line is
// appended after the chapter's current dialogues.
func (s *DialogueService) Create(ctx context.Context, in CreateDialogueInput) (storyapi.RawJSON, error) {
	order := 0
	if in.OrderNumber != nil {
		order = *in.OrderNumber
	} else {
		order = s.nextOrder(ctx, in.StoryID, in.ChapterID)
	}

	body := storyapi.DialogueInput{
		Content:     in.Content,
		OrderNumber: order,
		Type:        string(in.Type),
	}
	if in.Type == DialogueSpoken {
		body.CharacterID = in.CharacterID
	}
	return s.api.CreateDialogue(ctx, in.StoryID, in.ChapterID, body)
}

// nextOrder returns the length of the dialogues array plus one; the
// entries themselves are not decoded. A failed listing falls back to 1; the remote service owns order
// uniqueness, so the line may collide with an existing one in that case.
func (s *DialogueService) nextOrder(ctx context.Context, storyID, chapterID int64) int {
	raw, err := s.api.ListDialogues(ctx, storyID, chapterID)
	if err != nil {
		telemetry.IncOrderFallback()
		s.logger.Warn("dialogue order lookup failed, defaulting to 1",
			"story_id", storyID,
			"chapter_id", chapterID,
			"err", err,
		)
		return 1
	}
	return int(gjson.GetBytes(raw, "dialogues.#").Int()) + 1
}

// Move forwards the reorder to the upstream, which renumbers siblings.
func (s *DialogueService) Move(ctx context.Context, in MoveDialogueInput) (storyapi.RawJSON, error) {
	return s.api.MoveDialogue(ctx, in.StoryID, in.ChapterID, in.DialogueID, in.NewOrder)
}

// ListWithNames returns the chapter's dialogues with a character_name
// attached to each line. Dialogues and characters are fetched in that
// order; either failure fails the call.
func (s *DialogueService) ListWithNames(ctx context.Context, storyID, chapterID int64) (storyapi.RawJSON, error) {
	raw, err := s.api.ListDialogues(ctx, storyID, chapterID)
	if err != nil {
		return nil, err
	}
	chars, err := s.api.ListCharacters(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return EnrichDialogues(raw, chars)
}
