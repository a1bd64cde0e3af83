package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solsticedigital/backoffice/api/responses"
	"github.com/solsticedigital/backoffice/api/validators"
	"github.com/solsticedigital/backoffice/internal/social"
	"github.com/solsticedigital/backoffice/pkg/db/models"
	"github.com/solsticedigital/backoffice/pkg/enums"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/pagination"
)

type socialCreateRequest struct {
	Kind     string `json:"kind" validate:"required"`
	Caption  string `json:"caption"`
	Topic    string `json:"topic"`
	Notes    string `json:"notes"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// SocialCreate stores a post awaiting review. A caption may be supplied
// directly or drafted from a topic.
func SocialCreate(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "social service unavailable"))
			return
		}

		var payload socialCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParsePostKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid post kind"))
			return
		}

		if strings.TrimSpace(payload.Caption) == "" && strings.TrimSpace(payload.Topic) == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "caption or topic is required"))
			return
		}

		created, err := svc.CreatePost(r.Context(), social.CreatePostInput{
			Kind:     kind,
			Caption:  payload.Caption,
			Topic:    payload.Topic,
			Notes:    payload.Notes,
			ImageURL: payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, socialResponseFromModel(created))
	}
}

// SocialGet fetches a single post by id.
func SocialGet(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "social service unavailable"))
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

		responses.WriteSuccess(w, socialResponseFromModel(post))
	}
}

// SocialList returns paginated posts with optional status/kind filters.
func SocialList(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "social service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := social.ListParams{
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
		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, parseErr := enums.ParsePostKind(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid kind filter"))
				return
			}
			params.Kind = kind
		}

		result, err := svc.ListPosts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]socialResponse, 0, len(result.Items))
		for i := range result.Items {
			items = append(items, socialResponseFromModel(&result.Items[i]))
		}
		responses.WriteSuccess(w, socialListResponse{Items: items, Cursor: result.Cursor})
	}
}

type socialApproveRequest struct {
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// SocialApprove moves a pending post to approved. An optional scheduled_for
// queues it for the next publish run in the same call.
func SocialApprove(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "social service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "postId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid post id"))
			return
		}

		var payload socialApproveRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		approved, err := svc.ApprovePost(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.ScheduledFor != nil {
			approved, err = svc.SchedulePost(r.Context(), id, *payload.ScheduledFor)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, socialResponseFromModel(approved))
	}
}

type socialRejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// SocialReject marks a pending post rejected with the reviewer's reason.
func SocialReject(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "social service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "postId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid post id"))
			return
		}

		var payload socialRejectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rejected, err := svc.RejectPost(r.Context(), id, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, socialResponseFromModel(rejected))
	}
}

type socialScheduleRequest struct {
	ScheduledFor time.Time `json:"scheduled_for" validate:"required"`
}

// SocialSchedule queues an approved post for a future publish run.
func SocialSchedule(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "social service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "postId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid post id"))
			return
		}

		var payload socialScheduleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scheduled, err := svc.SchedulePost(r.Context(), id, payload.ScheduledFor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, socialResponseFromModel(scheduled))
	}
}

// SocialPublish pushes an approved post to its platform immediately.
func SocialPublish(svc social.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "social service unavailable"))
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

		responses.WriteSuccess(w, socialResponseFromModel(published))
	}
}

type socialResponse struct {
	ID              uuid.UUID           `json:"id"`
	Kind            enums.PostKind      `json:"kind"`
	Caption         string              `json:"caption"`
	ImageURL        *string             `json:"image_url"`
	Status          enums.ContentStatus `json:"status"`
	ScheduledFor    *time.Time          `json:"scheduled_for"`
	PublishedAt     *time.Time          `json:"published_at"`
	RejectionReason *string             `json:"rejection_reason"`
	ErrorMessage    *string             `json:"error_message"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type socialListResponse struct {
	Items  []socialResponse `json:"items"`
	Cursor string           `json:"cursor,omitempty"`
}

func socialResponseFromModel(m *models.SocialPost) socialResponse {
	return socialResponse{
		ID:              m.ID,
		Kind:            m.Kind,
		Caption:         m.Caption,
		ImageURL:        m.ImageURL,
		Status:          m.Status,
		ScheduledFor:    m.ScheduledFor,
		PublishedAt:     m.PublishedAt,
		RejectionReason: m.RejectionReason,
		ErrorMessage:    m.ErrorMessage,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
