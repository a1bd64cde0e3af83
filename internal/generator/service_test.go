package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/openai"
)

type stubCompletions struct {
	response string
	err      error
	messages []openai.Message
}

func (s *stubCompletions) Complete(ctx context.Context, messages []openai.Message) (string, error) {
	s.messages = messages
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestGenerateCaptionUsesKindSpecificPrompt(t *testing.T) {
	client := &stubCompletions{response: "We took the studio outside today."}
	svc, err := NewService(client)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	caption, err := svc.GenerateCaption(context.Background(), CaptionInput{
		Kind:  enums.PostKindLinkedIn,
		Topic: "open-air shoot",
	})
	if err != nil {
		t.Fatalf("generate caption: %v", err)
	}
	if caption != "We took the studio outside today." {
		t.Errorf("unexpected caption %q", caption)
	}
	if len(client.messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(client.messages))
	}
	if !strings.Contains(client.messages[1].Content, "LinkedIn") {
		t.Errorf("prompt should mention the platform, got %q", client.messages[1].Content)
	}
}

func TestGenerateCaptionValidation(t *testing.T) {
	svc, _ := NewService(&stubCompletions{})

	_, err := svc.GenerateCaption(context.Background(), CaptionInput{Topic: "x", Kind: "tiktok"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.GenerateCaption(context.Background(), CaptionInput{Kind: enums.PostKindInstagram})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestGenerateCaptionEmptyResponse(t *testing.T) {
	svc, _ := NewService(&stubCompletions{response: "   "})

	_, err := svc.GenerateCaption(context.Background(), CaptionInput{
		Kind:  enums.PostKindInstagram,
		Topic: "something",
	})
	assertCode(t, err, pkgerrors.CodeDependency)
}

func TestGenerateArticleSplitsExcerpt(t *testing.T) {
	client := &stubCompletions{response: "A quick look behind the lens.\n\n<p>Full body here.</p>"}
	svc, _ := NewService(client)

	draft, err := svc.GenerateArticle(context.Background(), ArticleInput{Title: "Behind the Lens"})
	if err != nil {
		t.Fatalf("generate article: %v", err)
	}
	if draft.Excerpt != "A quick look behind the lens." {
		t.Errorf("unexpected excerpt %q", draft.Excerpt)
	}
	if draft.Body != "<p>Full body here.</p>" {
		t.Errorf("unexpected body %q", draft.Body)
	}
}

func TestGenerateArticleWithoutExcerptFormat(t *testing.T) {
	client := &stubCompletions{response: "<p>Just a body.</p>"}
	svc, _ := NewService(client)

	draft, err := svc.GenerateArticle(context.Background(), ArticleInput{Title: "t"})
	if err != nil {
		t.Fatalf("generate article: %v", err)
	}
	if draft.Excerpt != "" {
		t.Errorf("expected empty excerpt, got %q", draft.Excerpt)
	}
	if draft.Body != "<p>Just a body.</p>" {
		t.Errorf("unexpected body %q", draft.Body)
	}
}

func TestGeneratePropagatesClientError(t *testing.T) {
	boom := errors.New("rate limited")
	svc, _ := NewService(&stubCompletions{err: boom})

	_, err := svc.GenerateCaption(context.Background(), CaptionInput{
		Kind:  enums.PostKindInstagram,
		Topic: "anything",
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected client error, got %v", err)
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Errorf("expected code %s, got %v", code, err)
	}
}
