package domain

// ChatMessage is immutable once created. Announcements carry no sender
// fields.
type ChatMessage struct {
	IsAnnouncement  bool   `json:"is_announcement"`
	BodyHTML        string `json:"body_html"`
	SenderID        string `json:"sender_id,omitempty"`
	SenderName      string `json:"sender_name,omitempty"`
	SenderAvatarURL string `json:"sender_avatar_url,omitempty"`
}

// ChatUserInfo is a member's self-reported chat identity. Resumed is a
// client-declared hint that this identity was restored from a previous
// session, suppressing the join announcement.
type ChatUserInfo struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Resumed   bool   `json:"resumed"`
}
