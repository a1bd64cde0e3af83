// Package publish fans one piece of content out to multiple platforms and
// collects per-platform outcomes without letting one failure abort the rest.
package publish

import (
	"context"

	"github.com/solsticedigital/backoffice/pkg/enums"
)

// Content is the platform-neutral view of a publishable item. Adapters pick
// the fields they need: feed posts use the thumbnail, reels and LinkedIn
// shares use the video URL.
type Content struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
}

// Adapter publishes content to a single platform.
type Adapter interface {
	Platform() enums.Platform
	Publish(ctx context.Context, content Content) error
}

// Result reports the outcome of one fan-out. Published carries display labels
// for operator-facing summaries; Failed carries raw platform identifiers so
// callers can retry programmatically.
type Result struct {
	Published []string
	Failed    []string
	Attempted []enums.Platform
	Err       error
}

// AllSucceeded reports whether every attempted platform published.
func (r Result) AllSucceeded() bool {
	return len(r.Failed) == 0 && len(r.Published) > 0
}
