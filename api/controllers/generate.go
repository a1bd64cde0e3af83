package controllers

import (
	"net/http"
	"strings"

	"github.com/solsticedigital/backoffice/api/responses"
	"github.com/solsticedigital/backoffice/api/validators"
	"github.com/solsticedigital/backoffice/internal/generator"
	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
)

type generateCaptionRequest struct {
	Kind  string `json:"kind" validate:"required"`
	Topic string `json:"topic" validate:"required"`
	Notes string `json:"notes"`
}

// GenerateCaption drafts a social post caption for operator review.
func GenerateCaption(svc generator.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "generator service unavailable"))
			return
		}

		var payload generateCaptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParsePostKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid post kind"))
			return
		}

		caption, err := svc.GenerateCaption(r.Context(), generator.CaptionInput{
			Kind:  kind,
			Topic: payload.Topic,
			Notes: payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"caption": caption})
	}
}

type generateArticleRequest struct {
	Title string `json:"title" validate:"required"`
	Notes string `json:"notes"`
}

// GenerateArticle drafts blog copy for operator review.
func GenerateArticle(svc generator.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "generator service unavailable"))
			return
		}

		var payload generateArticleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.GenerateArticle(r.Context(), generator.ArticleInput{
			Title: payload.Title,
			Notes: payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"body":    draft.Body,
			"excerpt": draft.Excerpt,
		})
	}
}
