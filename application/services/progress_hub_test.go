package services

import (
	"narration-video-pipeline/domain"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
)

func TestProgressHub_FansOutAndRetainsLatest(t *testing.T) {
	workerPool, err := ants.NewPool(4)
	if err != nil {
		t.Fatal("Failed to create worker pool:", err)
	}
	defer workerPool.Release()

	hub := NewProgressHub(workerPool)
	sink := make(chan domain.Progress, 8)
	hub.AddSink(sink)
	if err := hub.Start(); err != nil {
		t.Fatal("Failed to start hub:", err)
	}

	first := domain.Progress{Stage: "Analyzing audio", Current: 0, Total: 1}
	second := domain.Progress{Stage: "Generating clips", Current: 1, Total: 3, Message: "scene 1"}
	hub.Publish(first)
	hub.Publish(second)

	for _, want := range []domain.Progress{first, second} {
		select {
		case got := <-sink:
			if got != want {
				t.Errorf("sink received %+v, want %+v", got, want)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for a progress update")
		}
	}

	if latest := hub.Latest(); latest != second {
		t.Errorf("Latest() = %+v, want %+v", latest, second)
	}
}
