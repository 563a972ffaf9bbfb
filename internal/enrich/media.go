package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"vigia/internal/config"
	"vigia/internal/constants"
	"vigia/internal/logger"
	errs "vigia/pkg/errors"
	"vigia/pkg/metrics"
)

// Media is a downloaded attachment.
type Media struct {
	Data     []byte
	MimeType string
}

// MediaFetcher resolves a platform media id into bytes. A failed fetch is
// recoverable: the message is still persisted, just without audio enrichment.
type MediaFetcher interface {
	Fetch(ctx context.Context, mediaID, phoneNumberID string) (*Media, error)
}

// HTTPMediaFetcher talks to the messaging platform's media API: resolve the
// media id to a download URL, then download the bytes. Both requests carry
// the platform access token.
type HTTPMediaFetcher struct {
	client  *http.Client
	baseURL string
	token   string
	log     logger.Logger
}

func NewHTTPMediaFetcher(cfg config.MediaConfig, log logger.Logger) *HTTPMediaFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultCapabilityTimeout
	}

	return &HTTPMediaFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AccessToken,
		log:     log,
	}
}

func (f *HTTPMediaFetcher) Fetch(ctx context.Context, mediaID, phoneNumberID string) (*Media, error) {
	meta, err := f.resolve(ctx, mediaID, phoneNumberID)
	if err != nil {
		metrics.MediaFetchTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	media, err := f.download(ctx, meta.URL, meta.MimeType)
	if err != nil {
		metrics.MediaFetchTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.MediaFetchTotal.WithLabelValues("success").Inc()
	return media, nil
}

type mediaMetadata struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

func (f *HTTPMediaFetcher) resolve(ctx context.Context, mediaID, phoneNumberID string) (*mediaMetadata, error) {
	u := fmt.Sprintf("%s/%s?phone_number_id=%s",
		f.baseURL, url.PathEscape(mediaID), url.QueryEscape(phoneNumberID))

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media %s: %w", mediaID, err)
	}

	var meta mediaMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("malformed media metadata for %s: %w", mediaID, err)
	}
	if meta.URL == "" {
		return nil, fmt.Errorf("media metadata for %s has no download url", mediaID)
	}
	return &meta, nil
}

func (f *HTTPMediaFetcher) download(ctx context.Context, downloadURL, mimeType string) (*Media, error) {
	data, err := f.get(ctx, downloadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	return &Media{Data: data, MimeType: mimeType}, nil
}

func (f *HTTPMediaFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.ErrServiceUnavailable.WithDetail("status", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
