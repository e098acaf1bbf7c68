package dto

import "narration-video-pipeline/domain"

type SetContextRequest struct {
	Context string `json:"context"`
}

type UpdateCharacterRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type CharacterView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HasPhoto    bool   `json:"hasPhoto"`
}

func NewCharacterView(character domain.Character) CharacterView {
	return CharacterView{
		ID:          character.ID,
		Name:        character.Name,
		Description: character.Description,
		HasPhoto:    character.Photo != nil,
	}
}

type SnapshotResponse struct {
	State       string                 `json:"state"`
	Progress    domain.Progress        `json:"progress"`
	Clips       []domain.GeneratedClip `json:"clips"`
	Characters  []CharacterView        `json:"characters"`
	Error       string                 `json:"error,omitempty"`
	AudioLoaded bool                   `json:"audioLoaded"`
	Context     string                 `json:"context"`
}
