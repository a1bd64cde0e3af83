package linkedin_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solsticedigital/backoffice/pkg/config"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/linkedin"
	"github.com/solsticedigital/backoffice/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestClient(t *testing.T, baseURL string) *linkedin.Client {
	t.Helper()
	client, err := linkedin.NewClient(context.Background(), config.LinkedInConfig{
		BaseURL: baseURL,
		Version: "202401",
	}, testLogger())
	require.NoError(t, err)
	return client
}

func validCreds() linkedin.Credentials {
	return linkedin.Credentials{
		AccessToken: "token-abc",
		AuthorURN:   "urn:li:organization:42",
	}
}

func TestCreateShareTextPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		assert.Equal(t, "202401", r.Header.Get("LinkedIn-Version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "urn:li:organization:42", body["author"])
		assert.Equal(t, "PUBLISHED", body["lifecycleState"])

		content := body["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
		assert.Equal(t, "NONE", content["shareMediaCategory"])
		assert.Equal(t, "quarterly recap", content["shareCommentary"].(map[string]any)["text"])
		assert.Nil(t, content["media"])

		w.Header().Set("X-RestLi-Id", "urn:li:share:555")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	urn, err := client.CreateShare(context.Background(), validCreds(), linkedin.ShareParams{
		Text: "quarterly recap",
	})

	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:555", urn)
}

func TestCreateShareArticleWithLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		content := body["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
		assert.Equal(t, "ARTICLE", content["shareMediaCategory"])

		media := content["media"].([]any)
		require.Len(t, media, 1)
		entry := media[0].(map[string]any)
		assert.Equal(t, "READY", entry["status"])
		assert.Equal(t, "https://videos.example.com/v1", entry["originalUrl"])

		fmt.Fprint(w, `{"id":"urn:li:share:777"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	urn, err := client.CreateShare(context.Background(), validCreds(), linkedin.ShareParams{
		Text:    "new video is live",
		LinkURL: "https://videos.example.com/v1",
	})

	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:777", urn)
}

func TestCreateShareRejectsMissingCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should never reach the API without credentials")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.CreateShare(context.Background(), linkedin.Credentials{
		AuthorURN: "urn:li:organization:42",
	}, linkedin.ShareParams{Text: "hello"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())

	_, err = client.CreateShare(context.Background(), linkedin.Credentials{
		AccessToken: "token-abc",
	}, linkedin.ShareParams{Text: "hello"})
	require.Error(t, err)
}

func TestCreateShareSurfacesAPIErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Expired access token","serviceErrorCode":65601}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.CreateShare(context.Background(), validCreds(), linkedin.ShareParams{Text: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expired access token")

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}
