package outbound

import (
	"context"
	"narration-video-pipeline/domain"
)

// ClipGeneratorPort drives one asynchronous video-synthesis job to completion
// and returns the blob handle of the downloaded asset. No internal retries;
// retry policy belongs to the caller.
type ClipGeneratorPort interface {
	Generate(ctx context.Context, segment domain.VideoSegment, reference *domain.ReferenceImage) (string, error)
}
