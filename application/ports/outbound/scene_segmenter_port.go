package outbound

import (
	"context"
	"narration-video-pipeline/domain"
)

type SegmentAudioRequest struct {
	Audio      []byte
	MimeType   string
	Context    string
	Characters []domain.Character
}

// SceneSegmenterPort turns one narration audio asset into an ordered list of
// timed video segments. Failure is atomic: no partial list is ever returned.
type SceneSegmenterPort interface {
	Segment(ctx context.Context, req SegmentAudioRequest) ([]domain.VideoSegment, error)
}
