package domain

import "time"

// PostStats is the denormalized engagement aggregate for one image.
// A missing row is equivalent to all counters being zero.
type PostStats struct {
	PostID          string    `json:"postId"`
	LikeCount       int       `json:"likeCount"`
	DownloadCount   int       `json:"downloadCount"`
	PromptCopyCount int       `json:"promptCopyCount"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// EmptyPostStats returns the zero aggregate for a post with no engagement.
func EmptyPostStats(postID string) *PostStats {
	return &PostStats{PostID: postID}
}

// Counter names one of the non-like engagement counters.
type Counter string

const (
	// CounterDownload counts image downloads.
	CounterDownload Counter = "download"
	// CounterPromptCopy counts prompt copies.
	CounterPromptCopy Counter = "prompt_copy"
)

// Column returns the post_stats column backing the counter.
func (c Counter) Column() string {
	switch c {
	case CounterDownload:
		return "download_count"
	case CounterPromptCopy:
		return "prompt_copy_count"
	default:
		return ""
	}
}
