package videometa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	// vimeo includes the duration in seconds, youtube does not
	Duration int64 `json:"duration"`
}

func oembedEndpoint(provider, videoURL string) string {
	q := url.Values{"url": {videoURL}}
	if provider == "vimeo" {
		return "https://vimeo.com/api/oembed.json?" + q.Encode()
	}
	q.Set("format", "json")
	return "https://www.youtube.com/oembed?" + q.Encode()
}

func (c *Client) getWithOembed(ctx context.Context, provider, videoURL string) (*VideoData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedEndpoint(provider, videoURL), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// providers answer 401/403 for videos with embedding disabled
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrVideoNotEmbeddable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed responded with status %d", resp.StatusCode)
	}

	var oembed oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&oembed); err != nil {
		return nil, fmt.Errorf("failed to decode oembed response: %w", err)
	}

	return &VideoData{
		Title:        oembed.Title,
		AuthorName:   oembed.AuthorName,
		ThumbnailURL: oembed.ThumbnailURL,
		DurationMs:   oembed.Duration * 1000,
	}, nil
}
