package videometa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// VideoData is what a provider lookup yields for a watchable URL.
type VideoData struct {
	Provider     string `json:"provider"`
	Src          string `json:"src"`
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	DurationMs   int64  `json:"duration_ms"`
}

var (
	ErrUnsupportedURL     = errors.New("url is not a youtube or vimeo url")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
)

type Client struct {
	hc *http.Client
}

func New() *Client {
	return &Client{hc: &http.Client{Timeout: 10 * time.Second}}
}

// Get resolves a user-submitted URL into provider, source id and title.
// For YouTube an oembed failure falls back to scraping the watch page,
// which also works for unlisted-but-embeddable videos.
func (c *Client) Get(ctx context.Context, videoURL string) (*VideoData, error) {
	provider, src, err := Detect(videoURL)
	if err != nil {
		return nil, err
	}

	videoData, err := c.getWithOembed(ctx, provider, videoURL)
	if err != nil {
		if provider != "youtube" || !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("failed to get video data with oembed: %w", err)
		}

		videoData, err = c.getFromPage(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	videoData.Provider = provider
	videoData.Src = src

	return videoData, nil
}
