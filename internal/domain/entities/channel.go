package entities

import "time"

// ChannelConfig identifies the active host channel the wall syncs from.
type ChannelConfig struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RemoteVideo is a video record as listed by the external host.
type RemoteVideo struct {
	ExternalID   string    `json:"externalId"`
	Title        string    `json:"title"`
	PublishedAt  time.Time `json:"publishedAt"`
	ThumbnailURL string    `json:"thumbnailUrl"`
}

// ChannelInfo is the public profile of a host channel.
type ChannelInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CustomURL   string `json:"customUrl"`
	Description string `json:"description"`
}

// SyncResult aggregate counts of a channel reconciliation run.
type SyncResult struct {
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

// VideoStats overview counts by moderation state.
type VideoStats struct {
	TotalVideos    int `json:"totalVideos" db:"total_videos"`
	PendingVideos  int `json:"pendingVideos" db:"pending_videos"`
	ApprovedVideos int `json:"approvedVideos" db:"approved_videos"`
	RejectedVideos int `json:"rejectedVideos" db:"rejected_videos"`
}

// GroupCount is one bucket of a grouped statistics query.
type GroupCount struct {
	Label string `json:"label" db:"label"`
	Count int    `json:"count" db:"count"`
}
