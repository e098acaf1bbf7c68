package services

import (
	"fmt"
	"narration-video-pipeline/domain"

	"github.com/google/uuid"
)

// characterRoster holds the session's characters. It is not safe for
// concurrent use; the orchestrator serializes access under its session lock.
// The roster always contains at least one (possibly blank) entry.
type characterRoster struct {
	characters []domain.Character
}

func newCharacterRoster() *characterRoster {
	roster := &characterRoster{}
	roster.reset()
	return roster
}

func (r *characterRoster) reset() {
	r.characters = []domain.Character{domain.NewCharacter(uuid.NewString())}
}

func (r *characterRoster) add() domain.Character {
	character := domain.NewCharacter(uuid.NewString())
	r.characters = append(r.characters, character)
	return character
}

func (r *characterRoster) remove(id string) error {
	for i, character := range r.characters {
		if character.ID == id {
			r.characters = append(r.characters[:i], r.characters[i+1:]...)
			if len(r.characters) == 0 {
				r.reset()
			}
			return nil
		}
	}
	return fmt.Errorf("character %s not found", id)
}

// update dispatches on an explicit field tag rather than arbitrary field
// names; the photo field carries bytes and goes through setPhoto.
func (r *characterRoster) update(id string, field domain.CharacterField, value string) error {
	index, err := r.indexOf(id)
	if err != nil {
		return err
	}

	switch field {
	case domain.FieldName:
		r.characters[index].Name = value
	case domain.FieldDescription:
		r.characters[index].Description = value
	case domain.FieldPhoto:
		return fmt.Errorf("the photo field takes image bytes, not a string value")
	default:
		return fmt.Errorf("unknown character field %q", field)
	}

	return nil
}

func (r *characterRoster) setPhoto(id string, photo *domain.ReferenceImage) error {
	index, err := r.indexOf(id)
	if err != nil {
		return err
	}
	r.characters[index].Photo = photo
	return nil
}

func (r *characterRoster) find(id string) (domain.Character, bool) {
	for _, character := range r.characters {
		if character.ID == id {
			return character, true
		}
	}
	return domain.Character{}, false
}

func (r *characterRoster) list() []domain.Character {
	characters := make([]domain.Character, len(r.characters))
	copy(characters, r.characters)
	return characters
}

func (r *characterRoster) indexOf(id string) (int, error) {
	for i, character := range r.characters {
		if character.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("character %s not found", id)
}
