package inbound

import (
	"context"
	"narration-video-pipeline/domain"
)

// Snapshot is a read-only view of the session for presentation layers.
type Snapshot struct {
	State       domain.PipelineState
	Progress    domain.Progress
	Clips       []domain.GeneratedClip
	Characters  []domain.Character
	Error       string
	AudioLoaded bool
	Context     string
}

// PipelineOrchestratorPort owns the session state machine:
// idle → processing → {complete | error}, with reset as the only way back.
type PipelineOrchestratorPort interface {
	LoadAudio(data []byte, mimeType string) error
	SetContext(text string)

	AddCharacter() domain.Character
	RemoveCharacter(id string) error
	UpdateCharacter(id string, field domain.CharacterField, value string) error
	SetCharacterPhoto(id string, data []byte, mimeType string) error

	// Start kicks off segmentation and sequential clip generation on the
	// worker pool and returns immediately. Progress and terminal state are
	// observable through Snapshot and the progress stream.
	Start(ctx context.Context) error
	Reset()
	Snapshot() Snapshot
}
