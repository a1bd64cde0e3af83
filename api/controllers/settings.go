package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/solsticedigital/backoffice/api/responses"
	"github.com/solsticedigital/backoffice/api/validators"
	"github.com/solsticedigital/backoffice/internal/settings"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
)

// SettingGet reads a single configuration value by key.
func SettingGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		key := strings.TrimSpace(chi.URLParam(r, "key"))
		value, err := svc.Get(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, settingResponse{Key: key, Value: value})
	}
}

type settingPutRequest struct {
	Value string `json:"value" validate:"required"`
}

// SettingPut creates or replaces a configuration value.
func SettingPut(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		key := strings.TrimSpace(chi.URLParam(r, "key"))

		var payload settingPutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Set(r.Context(), key, payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, settingResponse{Key: key, Value: payload.Value})
	}
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
