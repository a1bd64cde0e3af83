// Package generator drafts captions and article copy with the chat
// completions API. Output always lands as pending/draft content for review,
// never directly published.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/openai"
)

const systemPrompt = "You are the content writer for Solstice Digital, a video production studio. " +
	"Write in a confident, warm voice. Never use hashtags in LinkedIn copy; use at most five in Instagram copy."

type completionClient interface {
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

// CaptionInput describes the caption to draft.
type CaptionInput struct {
	Kind  enums.PostKind
	Topic string
	Notes string
}

// ArticleInput describes the blog draft to produce.
type ArticleInput struct {
	Title string
	Notes string
}

// ArticleDraft is generated blog copy.
type ArticleDraft struct {
	Body    string
	Excerpt string
}

// Service drafts content for operator review.
type Service interface {
	GenerateCaption(ctx context.Context, input CaptionInput) (string, error)
	GenerateArticle(ctx context.Context, input ArticleInput) (*ArticleDraft, error)
}

type service struct {
	client completionClient
}

// NewService builds the generator service.
func NewService(client completionClient) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("completion client required")
	}
	return &service{client: client}, nil
}

func (s *service) GenerateCaption(ctx context.Context, input CaptionInput) (string, error) {
	if !input.Kind.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid post kind")
	}
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "topic is required")
	}

	prompt := fmt.Sprintf("Write a %s caption about: %s.", captionStyle(input.Kind), topic)
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		prompt += " Additional direction: " + notes
	}

	caption, err := s.client.Complete(ctx, []openai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", err
	}

	caption = strings.TrimSpace(caption)
	if caption == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "generator returned empty caption")
	}
	return caption, nil
}

func (s *service) GenerateArticle(ctx context.Context, input ArticleInput) (*ArticleDraft, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	prompt := fmt.Sprintf("Write a blog article in HTML titled %q. "+
		"Start with a single-sentence excerpt on the first line, then a blank line, then the article body.", title)
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		prompt += " Additional direction: " + notes
	}

	raw, err := s.client.Complete(ctx, []openai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	excerpt, body := splitExcerpt(raw)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "generator returned empty article")
	}
	return &ArticleDraft{Body: body, Excerpt: excerpt}, nil
}

func captionStyle(kind enums.PostKind) string {
	if kind == enums.PostKindLinkedIn {
		return "professional LinkedIn post"
	}
	return "playful Instagram"
}

// splitExcerpt takes the first line as the excerpt and the rest as body. When
// the model ignores the format, the whole output becomes the body.
func splitExcerpt(raw string) (string, string) {
	trimmed := strings.TrimSpace(raw)
	parts := strings.SplitN(trimmed, "\n\n", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", trimmed
}
