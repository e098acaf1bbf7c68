package outbound

import "narration-video-pipeline/domain"

// ProgressPublisherPort receives every Progress overwrite from the
// orchestrator and fans it out to presentation subscribers.
type ProgressPublisherPort interface {
	Publish(progress domain.Progress)
}
