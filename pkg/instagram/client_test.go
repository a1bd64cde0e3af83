package instagram_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solsticedigital/backoffice/pkg/config"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/instagram"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/poll"
)

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestClient(t *testing.T, baseURL string) *instagram.Client {
	t.Helper()
	client, err := instagram.NewClient(context.Background(), config.InstagramConfig{
		AccessToken:  "token-123",
		AccountID:    "acct-9",
		GraphBaseURL: baseURL,
	}, testLogger(), instagram.WithPollPolicy(poll.Policy{
		Interval:    time.Second,
		MaxAttempts: 5,
		Sleep:       noSleep,
	}))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := instagram.NewClient(context.Background(), config.InstagramConfig{
		AccountID: "acct-9",
	}, testLogger())
	require.Error(t, err)

	_, err = instagram.NewClient(context.Background(), config.InstagramConfig{
		AccessToken: "token-123",
	}, testLogger())
	require.Error(t, err)
}

func TestPublishFeedImageFlow(t *testing.T) {
	var statusCalls atomic.Int32
	var publishCalled atomic.Bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/acct-9/media":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "sunset over the bay", r.Form.Get("caption"))
			assert.Equal(t, "https://cdn.example.com/a.jpg", r.Form.Get("image_url"))
			assert.Empty(t, r.Form.Get("media_type"), "feed images must not set media_type")
			fmt.Fprint(w, `{"id":"container-1"}`)

		case r.Method == http.MethodGet && r.URL.Path == "/container-1":
			if statusCalls.Add(1) < 3 {
				fmt.Fprint(w, `{"status_code":"IN_PROGRESS"}`)
				return
			}
			fmt.Fprint(w, `{"status_code":"FINISHED"}`)

		case r.Method == http.MethodPost && r.URL.Path == "/acct-9/media_publish":
			publishCalled.Store(true)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "container-1", r.Form.Get("creation_id"))
			fmt.Fprint(w, `{"id":"media-77"}`)

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	mediaID, err := client.Publish(context.Background(), instagram.MediaParams{
		Caption:  "sunset over the bay",
		ImageURL: "https://cdn.example.com/a.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, "media-77", mediaID)
	assert.Equal(t, int32(3), statusCalls.Load())
	assert.True(t, publishCalled.Load())
}

func TestPublishReelsSetsVideoFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/acct-9/media":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "REELS", r.Form.Get("media_type"))
			assert.Equal(t, "https://cdn.example.com/v.mp4", r.Form.Get("video_url"))
			assert.Equal(t, "true", r.Form.Get("share_to_feed"))
			assert.Empty(t, r.Form.Get("image_url"))
			fmt.Fprint(w, `{"id":"container-2"}`)

		case r.Method == http.MethodGet && r.URL.Path == "/container-2":
			fmt.Fprint(w, `{"status_code":"FINISHED"}`)

		case r.Method == http.MethodPost && r.URL.Path == "/acct-9/media_publish":
			fmt.Fprint(w, `{"id":"media-88"}`)

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	mediaID, err := client.Publish(context.Background(), instagram.MediaParams{
		Caption:  "behind the scenes",
		VideoURL: "https://cdn.example.com/v.mp4",
		Reels:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "media-88", mediaID)
}

func TestPublishStopsOnContainerError(t *testing.T) {
	var publishCalled atomic.Bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/acct-9/media":
			fmt.Fprint(w, `{"id":"container-3"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/container-3":
			fmt.Fprint(w, `{"status_code":"ERROR"}`)
		case r.URL.Path == "/acct-9/media_publish":
			publishCalled.Store(true)
			fmt.Fprint(w, `{"id":"media-99"}`)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Publish(context.Background(), instagram.MediaParams{
		Caption:  "broken asset",
		ImageURL: "https://cdn.example.com/broken.jpg",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "container-3")
	assert.False(t, publishCalled.Load(), "publish must not run after a container error")
}

func TestPublishTimesOutWhenContainerNeverFinishes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/acct-9/media":
			fmt.Fprint(w, `{"id":"container-4"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/container-4":
			fmt.Fprint(w, `{"status_code":"IN_PROGRESS"}`)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Publish(context.Background(), instagram.MediaParams{
		Caption:  "slow asset",
		ImageURL: "https://cdn.example.com/slow.jpg",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, poll.ErrExhausted)
}

func TestPublishSurfacesGraphErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Publish(context.Background(), instagram.MediaParams{
		Caption:  "anything",
		ImageURL: "https://cdn.example.com/a.jpg",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
