package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "stockwatch/internal/errors"
)

const unsplashEndpoint = "https://api.unsplash.com"

// UnsplashClient fetches fallback images from the Unsplash API.
//
// Per the Unsplash API guidelines, images are hotlinked to their original
// URLs, photographer attribution is carried with every image, and a download
// event is triggered whenever an image is actually used.
type UnsplashClient struct {
	accessKey string
	endpoint  string
	client    *http.Client
}

// NewUnsplashClient creates a new Unsplash client.
func NewUnsplashClient(accessKey string, timeout time.Duration) *UnsplashClient {
	return &UnsplashClient{
		accessKey: accessKey,
		endpoint:  unsplashEndpoint,
		client:    &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether an access key is set.
func (c *UnsplashClient) IsConfigured() bool {
	return c.accessKey != ""
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
		User struct {
			Name     string `json:"name"`
			Username string `json:"username"`
			Links    struct {
				HTML string `json:"html"`
			} `json:"links"`
		} `json:"user"`
		Links struct {
			DownloadLocation string `json:"download_location"`
		} `json:"links"`
	} `json:"results"`
}

// GetImage searches for a landscape photo matching the query and returns it
// with attribution data, or ErrNotFound when nothing matches.
func (c *UnsplashClient) GetImage(ctx context.Context, query string) (*Image, error) {
	if !c.IsConfigured() {
		return nil, apperrors.ErrNotConfigured
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s finance business", query))
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")
	params.Set("content_filter", "high")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewProviderError("unsplash", "search", 0, err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrProviderUnavailable, "unsplash %s", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperrors.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewProviderError("unsplash", "search", resp.StatusCode, apperrors.ErrProviderUnavailable)
	}

	var data unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, apperrors.NewProviderError("unsplash", "search", 0, err)
	}
	if len(data.Results) == 0 {
		return nil, apperrors.ErrNotFound
	}

	photo := data.Results[0]
	return &Image{
		URL:                  photo.URLs.Regular,
		PhotographerName:     photo.User.Name,
		PhotographerUsername: photo.User.Username,
		PhotographerURL:      photo.User.Links.HTML,
		DownloadLocation:     photo.Links.DownloadLocation,
	}, nil
}

// TriggerDownload fires the Unsplash download event for an image that was
// used. Required by the API guidelines; failures are non-fatal for callers.
func (c *UnsplashClient) TriggerDownload(ctx context.Context, downloadLocation string) error {
	if !c.IsConfigured() || downloadLocation == "" {
		return apperrors.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadLocation, nil)
	if err != nil {
		return apperrors.NewProviderError("unsplash", "download event", 0, err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrProviderUnavailable, "unsplash download event")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewProviderError("unsplash", "download event", resp.StatusCode, apperrors.ErrProviderRejected)
	}
	return nil
}

func (c *UnsplashClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")
}
