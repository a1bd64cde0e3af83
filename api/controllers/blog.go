package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solsticedigital/backoffice/api/responses"
	"github.com/solsticedigital/backoffice/api/validators"
	"github.com/solsticedigital/backoffice/internal/blog"
	"github.com/solsticedigital/backoffice/pkg/db/models"
	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/pagination"
)

type blogCreateRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Body     string `json:"body" validate:"required"`
	Excerpt  string `json:"excerpt"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// BlogCreate stores a new article draft.
func BlogCreate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		var payload blogCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateDraft(r.Context(), blog.CreateDraftInput{
			Title:    payload.Title,
			Body:     payload.Body,
			Excerpt:  payload.Excerpt,
			ImageURL: payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, blogResponseFromModel(created))
	}
}

type blogUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Body     *string `json:"body"`
	Excerpt  *string `json:"excerpt"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

// BlogUpdate applies partial edits to an unpublished draft.
func BlogUpdate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "postId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid post id"))
			return
		}

		var payload blogUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateDraft(r.Context(), id, blog.UpdateDraftInput{
			Title:    payload.Title,
			Body:     payload.Body,
			Excerpt:  payload.Excerpt,
			ImageURL: payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, blogResponseFromModel(updated))
	}
}

// BlogGet fetches a single post by id.
func BlogGet(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "postId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid post id"))
			return
		}

		post, err := svc.GetPost(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, blogResponseFromModel(post))
	}
}

// BlogList returns paginated posts, optionally filtered by status.
func BlogList(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := blog.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseContentStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			params.Status = status
		}

		result, err := svc.ListPosts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]blogResponse, 0, len(result.Items))
		for i := range result.Items {
			items = append(items, blogResponseFromModel(&result.Items[i]))
		}
		responses.WriteSuccess(w, blogListResponse{Items: items, Cursor: result.Cursor})
	}
}

type blogScheduleRequest struct {
	ScheduledFor time.Time `json:"scheduled_for" validate:"required"`
}

// BlogSchedule queues a draft for a future publish run.
func BlogSchedule(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "postId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid post id"))
			return
		}

		var payload blogScheduleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scheduled, err := svc.SchedulePost(r.Context(), id, payload.ScheduledFor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, blogResponseFromModel(scheduled))
	}
}

// BlogPublish publishes a draft or scheduled post immediately.
func BlogPublish(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "postId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid post id"))
			return
		}

		published, err := svc.PublishPost(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, blogResponseFromModel(published))
	}
}

type blogResponse struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Slug         string              `json:"slug"`
	Body         string              `json:"body"`
	Excerpt      string              `json:"excerpt"`
	ImageURL     *string             `json:"image_url"`
	Status       enums.ContentStatus `json:"status"`
	ScheduledFor *time.Time          `json:"scheduled_for"`
	PublishedAt  *time.Time          `json:"published_at"`
	ErrorMessage *string             `json:"error_message"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type blogListResponse struct {
	Items  []blogResponse `json:"items"`
	Cursor string         `json:"cursor,omitempty"`
}

func blogResponseFromModel(m *models.BlogPost) blogResponse {
	return blogResponse{
		ID:           m.ID,
		Title:        m.Title,
		Slug:         m.Slug,
		Body:         m.Body,
		Excerpt:      m.Excerpt,
		ImageURL:     m.ImageURL,
		Status:       m.Status,
		ScheduledFor: m.ScheduledFor,
		PublishedAt:  m.PublishedAt,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
