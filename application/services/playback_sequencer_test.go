package services

import (
	"narration-video-pipeline/domain"
	"narration-video-pipeline/infrastructure/adapters"
	"testing"
)

type fakeAudioTransport struct {
	restarts int
	pauses   int
}

func (a *fakeAudioTransport) Restart() { a.restarts++ }
func (a *fakeAudioTransport) Pause()   { a.pauses++ }

type fakeVideoTransport struct {
	sources []string
	plays   int
}

func (v *fakeVideoTransport) SetSource(blobURL string) { v.sources = append(v.sources, blobURL) }
func (v *fakeVideoTransport) Play()                    { v.plays++ }

func threeClips() []domain.GeneratedClip {
	return []domain.GeneratedClip{
		{BlobURL: "/blobs/clip-0"},
		{BlobURL: "/blobs/clip-1"},
		{BlobURL: "/blobs/clip-2"},
	}
}

func TestPlaybackSequencer_PlayStartsBothTracks(t *testing.T) {
	audio := &fakeAudioTransport{}
	video := &fakeVideoTransport{}
	sequencer := NewPlaybackSequencer(audio, video, adapters.NewZerologWrapper())

	if err := sequencer.Play(threeClips()); err != nil {
		t.Fatal("Play returned an error:", err)
	}

	if len(video.sources) != 1 || video.sources[0] != "/blobs/clip-0" {
		t.Errorf("video sources = %v, want the first clip", video.sources)
	}
	if audio.restarts != 1 {
		t.Errorf("audio restarted %d times, want 1", audio.restarts)
	}
	if video.plays != 1 {
		t.Errorf("video played %d times, want 1", video.plays)
	}
}

func TestPlaybackSequencer_RejectsEmptyClipList(t *testing.T) {
	sequencer := NewPlaybackSequencer(&fakeAudioTransport{}, &fakeVideoTransport{},
		adapters.NewZerologWrapper())

	if err := sequencer.Play(nil); err == nil {
		t.Fatal("Play with no clips must fail")
	}
}

func TestPlaybackSequencer_AdvancesThroughClipsThenPausesAudio(t *testing.T) {
	audio := &fakeAudioTransport{}
	video := &fakeVideoTransport{}
	sequencer := NewPlaybackSequencer(audio, video, adapters.NewZerologWrapper())

	if err := sequencer.Play(threeClips()); err != nil {
		t.Fatal("Play returned an error:", err)
	}

	sequencer.ClipEnded()
	sequencer.ClipEnded()

	want := []string{"/blobs/clip-0", "/blobs/clip-1", "/blobs/clip-2"}
	if len(video.sources) != len(want) {
		t.Fatalf("video sources = %v, want %v", video.sources, want)
	}
	for i, source := range video.sources {
		if source != want[i] {
			t.Errorf("source %d = %s, want %s", i, source, want[i])
		}
	}
	if audio.pauses != 0 {
		t.Error("audio must keep running between clip swaps")
	}

	sequencer.ClipEnded()

	if audio.pauses != 1 {
		t.Errorf("audio paused %d times after the last clip, want 1", audio.pauses)
	}
	if len(video.sources) != 3 {
		t.Errorf("a fourth video source was set: %v", video.sources)
	}
}
