// Package mock provides in-process stand-ins for the two external
// generative capabilities so the full pipeline can run locally without
// credentials or network access. Enabled with MOCK_CAPABILITIES=true.
package mock

import (
	"context"
	"fmt"
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/domain"
)

const mockSegmentSeconds = 6

type mockSceneSegmenter struct {
	logger outbound.LoggerPort
}

func NewSceneSegmenter(logger outbound.LoggerPort) outbound.SceneSegmenterPort {
	return &mockSceneSegmenter{logger: logger}
}

func (m *mockSceneSegmenter) Segment(_ context.Context, req outbound.SegmentAudioRequest) ([]domain.VideoSegment, error) {
	m.logger.InfoWithFields("Mock segmentation", map[string]interface{}{
		"audio_bytes": len(req.Audio),
		"characters":  len(req.Characters),
	})

	segments := make([]domain.VideoSegment, 0, 3)
	for i := 0; i < 3; i++ {
		start := float64(i * mockSegmentSeconds)
		segment := domain.VideoSegment{
			TopicSummary: fmt.Sprintf("Mock scene %d", i+1),
			VideoPrompt:  fmt.Sprintf("Mock visual prompt %d for: %s", i+1, req.Context),
			StartTime:    start,
			EndTime:      start + mockSegmentSeconds,
		}
		if len(req.Characters) > 0 {
			segment.CharacterID = req.Characters[0].ID
		}
		segments = append(segments, segment)
	}

	return segments, nil
}

type mockClipGenerator struct {
	logger    outbound.LoggerPort
	blobStore outbound.BlobStorePort
}

func NewClipGenerator(blobStore outbound.BlobStorePort, logger outbound.LoggerPort) outbound.ClipGeneratorPort {
	return &mockClipGenerator{
		logger:    logger,
		blobStore: blobStore,
	}
}

func (m *mockClipGenerator) Generate(_ context.Context, segment domain.VideoSegment, _ *domain.ReferenceImage) (string, error) {
	m.logger.InfoWithFields("Mock clip generation", map[string]interface{}{
		"summary": segment.TopicSummary,
	})
	payload := []byte("mock video: " + segment.VideoPrompt)
	return m.blobStore.Put(payload, "video/mp4"), nil
}
