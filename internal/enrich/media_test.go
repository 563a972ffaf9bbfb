package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigia/internal/config"
	"vigia/internal/logger"
)

func TestHTTPMediaFetcherFetch(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/media-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer platform-token", r.Header.Get("Authorization"))
		assert.Equal(t, "111111111111111", r.URL.Query().Get("phone_number_id"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"url": "%s/download/media-1", "mime_type": "audio/ogg"}`, srv.URL)
	})
	mux.HandleFunc("/download/media-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer platform-token", r.Header.Get("Authorization"))
		w.Write([]byte("ogg-bytes"))
	})

	f := NewHTTPMediaFetcher(config.MediaConfig{
		BaseURL:     srv.URL,
		AccessToken: "platform-token",
		Timeout:     5 * time.Second,
	}, logger.NopLogger())

	media, err := f.Fetch(context.Background(), "media-1", "111111111111111")

	require.NoError(t, err)
	assert.Equal(t, "ogg-bytes", string(media.Data))
	assert.Equal(t, "audio/ogg", media.MimeType)
}

func TestHTTPMediaFetcherResolveFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPMediaFetcher(config.MediaConfig{
		BaseURL:     srv.URL,
		AccessToken: "platform-token",
		Timeout:     5 * time.Second,
	}, logger.NopLogger())

	_, err := f.Fetch(context.Background(), "missing", "111111111111111")

	assert.Error(t, err)
}

func TestHTTPMediaFetcherEmptyDownloadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"mime_type": "audio/ogg"}`))
	}))
	defer srv.Close()

	f := NewHTTPMediaFetcher(config.MediaConfig{
		BaseURL:     srv.URL,
		AccessToken: "platform-token",
		Timeout:     5 * time.Second,
	}, logger.NopLogger())

	_, err := f.Fetch(context.Background(), "media-1", "111111111111111")

	assert.Error(t, err)
}

func TestMediaExtension(t *testing.T) {
	assert.Equal(t, "ogg", mediaExtension("audio/ogg; codecs=opus"))
	assert.Equal(t, "mpeg", mediaExtension("audio/mpeg"))
	assert.Equal(t, "bin", mediaExtension(""))
}
