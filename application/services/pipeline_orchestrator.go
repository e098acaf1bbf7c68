package services

import (
	"context"
	"fmt"
	"narration-video-pipeline/application/ports/inbound"
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/domain"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	stageAnalyzing  = "Analyzing audio"
	stageGenerating = "Generating clips"
	stageComplete   = "Complete"
	stageError      = "Error"
)

type pipelineOrchestrator struct {
	logger         outbound.LoggerPort
	workerPool     outbound.TaskDispatcher
	sceneSegmenter outbound.SceneSegmenterPort
	clipGenerator  outbound.ClipGeneratorPort
	blobStore      outbound.BlobStorePort
	progress       outbound.ProgressPublisherPort

	mu           sync.Mutex
	state        domain.PipelineState
	currentPhase domain.Progress
	clips        []domain.GeneratedClip
	roster       *characterRoster
	audio        []byte
	audioMime    string
	storyContext string
	errMessage   string
	// runToken identifies the run allowed to mutate state; a reset bumps it
	// so late results from an abandoned run cannot resurrect stale state.
	runToken string
}

func NewPipelineOrchestrator(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher,
	sceneSegmenter outbound.SceneSegmenterPort, clipGenerator outbound.ClipGeneratorPort,
	blobStore outbound.BlobStorePort, progress outbound.ProgressPublisherPort) inbound.PipelineOrchestratorPort {
	return &pipelineOrchestrator{
		logger:         logger,
		workerPool:     workerPool,
		sceneSegmenter: sceneSegmenter,
		clipGenerator:  clipGenerator,
		blobStore:      blobStore,
		progress:       progress,
		state:          domain.StateIdle,
		roster:         newCharacterRoster(),
		runToken:       uuid.NewString(),
	}
}

func (p *pipelineOrchestrator) LoadAudio(data []byte, mimeType string) error {
	if len(data) == 0 {
		return fmt.Errorf("audio data is empty")
	}
	if !strings.HasPrefix(mimeType, "audio/") {
		return fmt.Errorf("unsupported mime type %q", mimeType)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == domain.StateProcessing {
		return fmt.Errorf("cannot replace audio while the pipeline is running")
	}
	p.audio = data
	p.audioMime = mimeType
	return nil
}

func (p *pipelineOrchestrator) SetContext(text string) {
	p.mu.Lock()
	p.storyContext = text
	p.mu.Unlock()
}

func (p *pipelineOrchestrator) AddCharacter() domain.Character {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roster.add()
}

func (p *pipelineOrchestrator) RemoveCharacter(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roster.remove(id)
}

func (p *pipelineOrchestrator) UpdateCharacter(id string, field domain.CharacterField, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roster.update(id, field, value)
}

func (p *pipelineOrchestrator) SetCharacterPhoto(id string, data []byte, mimeType string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.roster.setPhoto(id, &domain.ReferenceImage{Data: data, MimeType: mimeType})
}

func (p *pipelineOrchestrator) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.state == domain.StateProcessing {
		p.mu.Unlock()
		return fmt.Errorf("a pipeline run is already in progress")
	}
	if len(p.audio) == 0 {
		p.mu.Unlock()
		return fmt.Errorf("no audio loaded")
	}

	p.releaseClipsLocked()
	p.errMessage = ""
	p.state = domain.StateProcessing
	token := uuid.NewString()
	p.runToken = token

	audio := p.audio
	mimeType := p.audioMime
	storyContext := p.storyContext
	characters := p.roster.list()
	p.setProgressLocked(domain.Progress{Stage: stageAnalyzing, Current: 0, Total: 1})
	p.mu.Unlock()

	err := p.workerPool.Submit(func() {
		p.run(ctx, token, audio, mimeType, storyContext, characters)
	})
	if err != nil {
		p.logger.Error(err, "Failed to submit the pipeline run to the worker pool")
		p.failRun(token, err)
		return err
	}

	return nil
}

// run executes one full pipeline pass: segmentation, then strictly
// sequential clip generation. At most one generation is in flight at any
// time; the clip list grows in segment order with no skipped indices.
func (p *pipelineOrchestrator) run(ctx context.Context, token string, audio []byte,
	mimeType string, storyContext string, characters []domain.Character) {
	segments, err := p.sceneSegmenter.Segment(ctx, outbound.SegmentAudioRequest{
		Audio:      audio,
		MimeType:   mimeType,
		Context:    storyContext,
		Characters: characters,
	})
	if err != nil {
		p.failRun(token, err)
		return
	}

	total := len(segments)
	if !p.publishIfCurrent(token, domain.Progress{
		Stage:   stageAnalyzing,
		Current: 1,
		Total:   1,
		Message: fmt.Sprintf("Found %d segments", total),
	}) {
		return
	}

	for i, segment := range segments {
		if !p.publishIfCurrent(token, domain.Progress{
			Stage:   stageGenerating,
			Current: i,
			Total:   total,
			Message: segment.TopicSummary,
		}) {
			return
		}

		blobURL, err := p.clipGenerator.Generate(ctx, segment, referenceFor(characters, segment.CharacterID))
		if err != nil {
			p.failRun(token, err)
			return
		}

		p.mu.Lock()
		if p.runToken != token {
			p.mu.Unlock()
			p.blobStore.Revoke(blobURL)
			return
		}
		p.clips = append(p.clips, domain.GeneratedClip{Segment: segment, BlobURL: blobURL})
		p.mu.Unlock()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runToken != token {
		return
	}
	p.state = domain.StateComplete
	p.setProgressLocked(domain.Progress{
		Stage:   stageComplete,
		Current: total,
		Total:   total,
		Message: "All clips generated",
	})
}

func (p *pipelineOrchestrator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseClipsLocked()
	p.audio = nil
	p.audioMime = ""
	p.storyContext = ""
	p.errMessage = ""
	p.roster.reset()
	p.state = domain.StateIdle
	p.runToken = uuid.NewString()
	p.setProgressLocked(domain.Progress{})
}

func (p *pipelineOrchestrator) Snapshot() inbound.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	clips := make([]domain.GeneratedClip, len(p.clips))
	copy(clips, p.clips)

	return inbound.Snapshot{
		State:       p.state,
		Progress:    p.currentPhase,
		Clips:       clips,
		Characters:  p.roster.list(),
		Error:       p.errMessage,
		AudioLoaded: len(p.audio) > 0,
		Context:     p.storyContext,
	}
}

func (p *pipelineOrchestrator) failRun(token string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runToken != token {
		return
	}

	p.logger.ErrorWithFields(err, "Pipeline run failed", map[string]interface{}{
		"clips": len(p.clips),
	})
	p.state = domain.StateError
	p.errMessage = err.Error()
	p.setProgressLocked(domain.Progress{
		Stage:   stageError,
		Current: p.currentPhase.Current,
		Total:   p.currentPhase.Total,
		Message: err.Error(),
	})
}

// publishIfCurrent overwrites Progress unless the run has been superseded.
func (p *pipelineOrchestrator) publishIfCurrent(token string, progress domain.Progress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runToken != token {
		return false
	}
	p.setProgressLocked(progress)
	return true
}

func (p *pipelineOrchestrator) setProgressLocked(progress domain.Progress) {
	p.currentPhase = progress
	p.progress.Publish(progress)
}

func (p *pipelineOrchestrator) releaseClipsLocked() {
	for _, clip := range p.clips {
		p.blobStore.Revoke(clip.BlobURL)
	}
	p.clips = nil
}

func referenceFor(characters []domain.Character, characterID string) *domain.ReferenceImage {
	if characterID == "" {
		return nil
	}
	for _, character := range characters {
		if character.ID == characterID {
			return character.Photo
		}
	}
	return nil
}
