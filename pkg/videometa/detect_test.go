package videometa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		provider string
		src      string
		wantErr  bool
	}{
		{
			name:     "youtube watch url",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			provider: "youtube",
			src:      "dQw4w9WgXcQ",
		},
		{
			name:     "youtube short link",
			url:      "https://youtu.be/dQw4w9WgXcQ?t=42",
			provider: "youtube",
			src:      "dQw4w9WgXcQ",
		},
		{
			name:     "youtube embed url",
			url:      "https://www.youtube.com/embed/dQw4w9WgXcQ",
			provider: "youtube",
			src:      "dQw4w9WgXcQ",
		},
		{
			name:     "youtube shorts url",
			url:      "https://www.youtube.com/shorts/abc123xyz_-",
			provider: "youtube",
			src:      "abc123xyz_-",
		},
		{
			name:     "vimeo url",
			url:      "https://vimeo.com/76979871",
			provider: "vimeo",
			src:      "76979871",
		},
		{
			name:     "vimeo video path",
			url:      "https://vimeo.com/video/76979871",
			provider: "vimeo",
			src:      "76979871",
		},
		{
			name:    "youtube without video id",
			url:     "https://www.youtube.com/feed/subscriptions",
			wantErr: true,
		},
		{
			name:    "unrelated host",
			url:     "https://example.com/watch?v=dQw4w9WgXcQ",
			wantErr: true,
		},
		{
			name:    "not a url",
			url:     "definitely not a url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, src, err := Detect(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.provider, provider)
			assert.Equal(t, tt.src, src)
		})
	}
}
