package services

import (
	"fmt"
	"narration-video-pipeline/application/ports/inbound"
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/domain"
	"sync"
)

// playbackSequencer plays generated clips back-to-back against one
// continuous audio track. Audio is the timeline: it is started once and
// never touched on clip boundaries; only the video source is swapped.
type playbackSequencer struct {
	logger outbound.LoggerPort
	audio  outbound.AudioTransport
	video  outbound.VideoTransport

	mu    sync.Mutex
	clips []domain.GeneratedClip
	index int
}

func NewPlaybackSequencer(audio outbound.AudioTransport, video outbound.VideoTransport,
	logger outbound.LoggerPort) inbound.PlaybackSequencerPort {
	return &playbackSequencer{
		logger: logger,
		audio:  audio,
		video:  video,
	}
}

func (s *playbackSequencer) Play(clips []domain.GeneratedClip) error {
	if len(clips) == 0 {
		return fmt.Errorf("no clips to play")
	}

	s.mu.Lock()
	s.clips = make([]domain.GeneratedClip, len(clips))
	copy(s.clips, clips)
	s.index = 0
	first := s.clips[0]
	s.mu.Unlock()

	s.video.SetSource(first.BlobURL)
	s.audio.Restart()
	s.video.Play()
	return nil
}

func (s *playbackSequencer) ClipEnded() {
	s.mu.Lock()
	if s.index+1 >= len(s.clips) {
		s.mu.Unlock()
		s.audio.Pause()
		return
	}
	s.index++
	index := s.index
	next := s.clips[index]
	s.mu.Unlock()

	s.logger.DebugWithFields("Advancing to next clip", map[string]interface{}{
		"index": index,
	})
	s.video.SetSource(next.BlobURL)
	s.video.Play()
}
