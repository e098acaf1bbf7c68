package inbound

import "narration-video-pipeline/domain"

// PlaybackSequencerPort plays generated clips back-to-back against one
// continuous audio track, swapping the video source at clip boundaries.
type PlaybackSequencerPort interface {
	Play(clips []domain.GeneratedClip) error
	// ClipEnded advances to the next clip, or pauses audio after the last.
	ClipEnded()
}
