package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solsticedigital/backoffice/api/responses"
	"github.com/solsticedigital/backoffice/api/validators"
	"github.com/solsticedigital/backoffice/internal/vlogs"
	"github.com/solsticedigital/backoffice/pkg/db/models"
	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/pagination"
)

type vlogCreateRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description"`
	VideoURL     string `json:"video_url" validate:"required,url"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
}

// VlogCreate registers a new video asset awaiting publish.
func VlogCreate(svc vlogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vlog service unavailable"))
			return
		}

		var payload vlogCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateVlog(r.Context(), vlogs.CreateVlogInput{
			Title:        payload.Title,
			Description:  payload.Description,
			VideoURL:     payload.VideoURL,
			ThumbnailURL: payload.ThumbnailURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, vlogResponseFromModel(created))
	}
}

// VlogGet fetches a single vlog by id.
func VlogGet(svc vlogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vlog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "vlogId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vlog id"))
			return
		}

		vlog, err := svc.GetVlog(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vlogResponseFromModel(vlog))
	}
}

// VlogList returns paginated vlogs, newest first.
func VlogList(svc vlogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vlog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListVlogs(r.Context(), vlogs.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]vlogResponse, 0, len(result.Items))
		for i := range result.Items {
			items = append(items, vlogResponseFromModel(&result.Items[i]))
		}
		responses.WriteSuccess(w, vlogListResponse{Items: items, Cursor: result.Cursor})
	}
}

type vlogPublishRequest struct {
	VlogID      string   `json:"vlog_id" validate:"required"`
	Platforms   []string `json:"platforms" validate:"required,min=1,dive,required"`
	Description string   `json:"description" validate:"required"`
}

func (r vlogPublishRequest) toInput() (vlogs.PublishInput, error) {
	id, err := uuid.Parse(strings.TrimSpace(r.VlogID))
	if err != nil {
		return vlogs.PublishInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vlog_id")
	}

	description := strings.TrimSpace(r.Description)
	if description == "" {
		return vlogs.PublishInput{}, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}

	platforms := make([]enums.Platform, 0, len(r.Platforms))
	for _, raw := range r.Platforms {
		platform, parseErr := enums.ParsePlatform(strings.TrimSpace(raw))
		if parseErr != nil {
			return vlogs.PublishInput{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported platform %q", raw))
		}
		platforms = append(platforms, platform)
	}

	return vlogs.PublishInput{
		VlogID:      id,
		Platforms:   platforms,
		Description: description,
	}, nil
}

// VlogPublish fans a vlog out to the requested platforms. Partial outcomes
// still return 200; the body carries which platforms succeeded and failed.
func VlogPublish(svc vlogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vlog service unavailable"))
			return
		}

		var payload vlogPublishRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.PublishVlog(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vlogPublishResponseFromOutcome(outcome))
	}
}

type vlogResponse struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	VideoURL     string              `json:"video_url"`
	ThumbnailURL *string             `json:"thumbnail_url"`
	Status       enums.ContentStatus `json:"status"`
	PublishedTo  []string            `json:"published_to"`
	PublishedAt  *time.Time          `json:"published_at"`
	ErrorMessage *string             `json:"error_message"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type vlogListResponse struct {
	Items  []vlogResponse `json:"items"`
	Cursor string         `json:"cursor,omitempty"`
}

func vlogResponseFromModel(m *models.Vlog) vlogResponse {
	publishedTo := make([]string, 0, len(m.PublishedTo))
	publishedTo = append(publishedTo, m.PublishedTo...)
	return vlogResponse{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		VideoURL:     m.VideoURL,
		ThumbnailURL: m.ThumbnailURL,
		Status:       m.Status,
		PublishedTo:  publishedTo,
		PublishedAt:  m.PublishedAt,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type vlogPublishResults struct {
	Published []string `json:"published"`
	Failed    []string `json:"failed"`
}

type vlogPublishResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Results vlogPublishResults `json:"results"`
	Vlog    vlogResponse       `json:"vlog"`
}

func vlogPublishResponseFromOutcome(outcome *vlogs.PublishOutcome) vlogPublishResponse {
	published := outcome.Published
	if published == nil {
		published = []string{}
	}
	failed := outcome.Failed
	if failed == nil {
		failed = []string{}
	}

	var message string
	switch {
	case len(failed) == 0:
		message = "published to " + strings.Join(published, ", ")
	case len(published) == 0:
		message = "publish failed for " + strings.Join(failed, ", ")
	default:
		message = fmt.Sprintf("published to %s; failed: %s",
			strings.Join(published, ", "), strings.Join(failed, ", "))
	}

	return vlogPublishResponse{
		Success: len(failed) == 0,
		Message: message,
		Results: vlogPublishResults{Published: published, Failed: failed},
		Vlog:    vlogResponseFromModel(outcome.Vlog),
	}
}
