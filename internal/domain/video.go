package domain

// Provider identifies which embedded player a video requires. The empty
// provider means a directly playable media file.
type Provider string

const (
	ProviderNative  Provider = ""
	ProviderYoutube Provider = "youtube"
	ProviderVimeo   Provider = "vimeo"
)

type Video struct {
	ID         int64    `json:"id"`
	Src        string   `json:"src"`
	Title      string   `json:"title"`
	Provider   Provider `json:"provider"`
	DurationMs int64    `json:"duration_ms"`
	Captions   bool     `json:"captions"`
}

// VideoDraft is a video before the playlist store assigns it an id.
type VideoDraft struct {
	Src        string   `json:"src"`
	Title      string   `json:"title"`
	Provider   Provider `json:"provider"`
	DurationMs int64    `json:"duration_ms"`
	Captions   bool     `json:"captions"`
}
