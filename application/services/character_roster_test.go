package services

import (
	"narration-video-pipeline/domain"
	"testing"
)

func TestCharacterRoster_StartsWithOneBlankEntry(t *testing.T) {
	roster := newCharacterRoster()

	characters := roster.list()
	if len(characters) != 1 {
		t.Fatalf("got %d characters, want 1", len(characters))
	}
	if characters[0].ID == "" {
		t.Error("blank entry must still carry a stable id")
	}
	if characters[0].Name != "" || characters[0].Description != "" || characters[0].Photo != nil {
		t.Errorf("entry is not blank: %+v", characters[0])
	}
}

func TestCharacterRoster_TaggedFieldUpdates(t *testing.T) {
	roster := newCharacterRoster()
	id := roster.list()[0].ID

	if err := roster.update(id, domain.FieldName, "Aldric"); err != nil {
		t.Fatal("name update failed:", err)
	}
	if err := roster.update(id, domain.FieldDescription, "a weathered knight"); err != nil {
		t.Fatal("description update failed:", err)
	}

	character, ok := roster.find(id)
	if !ok {
		t.Fatal("character not found after update")
	}
	if character.Name != "Aldric" || character.Description != "a weathered knight" {
		t.Errorf("unexpected character %+v", character)
	}

	if err := roster.update(id, domain.FieldPhoto, "not-bytes"); err == nil {
		t.Error("string update of the photo field must be rejected")
	}
	if err := roster.update(id, domain.CharacterField("nickname"), "x"); err == nil {
		t.Error("unknown field must be rejected")
	}
	if err := roster.update("missing", domain.FieldName, "x"); err == nil {
		t.Error("update of an unknown character must fail")
	}
}

func TestCharacterRoster_SetPhoto(t *testing.T) {
	roster := newCharacterRoster()
	id := roster.list()[0].ID

	err := roster.setPhoto(id, &domain.ReferenceImage{Data: []byte("png"), MimeType: "image/png"})
	if err != nil {
		t.Fatal("setPhoto failed:", err)
	}

	character, _ := roster.find(id)
	if character.Photo == nil || character.Photo.MimeType != "image/png" {
		t.Errorf("photo not applied: %+v", character)
	}
}

func TestCharacterRoster_RemoveRestoresBlankWhenEmpty(t *testing.T) {
	roster := newCharacterRoster()
	first := roster.list()[0].ID
	second := roster.add()

	if err := roster.remove(first); err != nil {
		t.Fatal("remove failed:", err)
	}
	if len(roster.list()) != 1 || roster.list()[0].ID != second.ID {
		t.Error("remaining character should be the added one")
	}

	if err := roster.remove(second.ID); err != nil {
		t.Fatal("remove failed:", err)
	}
	characters := roster.list()
	if len(characters) != 1 {
		t.Fatal("roster must re-blank to one entry when emptied")
	}
	if characters[0].ID == first || characters[0].ID == second.ID {
		t.Error("re-blanked entry must be a fresh character")
	}

	if err := roster.remove("missing"); err == nil {
		t.Error("removing an unknown character must fail")
	}
}
