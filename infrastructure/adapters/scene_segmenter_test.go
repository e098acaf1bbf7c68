package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/config"
	"narration-video-pipeline/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func candidateResponse(text string) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	return string(payload)
}

func newTestSegmenter(t *testing.T, handler http.HandlerFunc) outbound.SceneSegmenterPort {
	t.Helper()
	t.Setenv(apiKeyEnv, "test-key")

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := NewZerologWrapper()
	return NewSceneSegmenter(NewContentFetcher(logger), &config.SegmenterConfig{
		ApiUrl: srv.URL,
		Model:  "segmenter-model",
	}, logger)
}

func segmentRequest() outbound.SegmentAudioRequest {
	return outbound.SegmentAudioRequest{
		Audio:    []byte("fake-audio"),
		MimeType: "audio/mpeg",
		Context:  "a knight's tale",
		Characters: []domain.Character{
			{ID: "char-1", Name: "Aldric", Description: "a weathered knight"},
		},
	}
}

func TestSceneSegmenter_StripsCodeFences(t *testing.T) {
	fenced := "```json\n[{\"topicSummary\":\"intro\",\"videoPrompt\":\"a castle at dawn\",\"startTime\":0,\"endTime\":6}]\n```"
	segmenter := newTestSegmenter(t, func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(candidateResponse(fenced))); err != nil {
			t.Error("failed to write response:", err)
		}
	})

	segments, err := segmenter.Segment(context.Background(), segmentRequest())
	if err != nil {
		t.Fatal("Segment returned an error:", err)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].VideoPrompt != "a castle at dawn" {
		t.Errorf("unexpected prompt %q", segments[0].VideoPrompt)
	}
}

func TestSceneSegmenter_RequestShape(t *testing.T) {
	var gotKey string
	var gotBody segmenterRequest

	segmenter := newTestSegmenter(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Error("failed to decode request body:", err)
		}
		if _, err := w.Write([]byte(candidateResponse("[]"))); err != nil {
			t.Error("failed to write response:", err)
		}
	})

	segments, err := segmenter.Segment(context.Background(), segmentRequest())
	if err != nil {
		t.Fatal("Segment returned an error:", err)
	}
	if len(segments) != 0 {
		t.Errorf("empty transcript should yield no segments, got %d", len(segments))
	}

	if gotKey != "test-key" {
		t.Errorf("credential query parameter = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 2 {
		t.Fatal("request must carry one prompt part and one inline audio part")
	}

	prompt := gotBody.Contents[0].Parts[0].Text
	for _, fragment := range []string{"5 and 8 seconds", "a knight's tale", "Aldric", "char-1"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt is missing %q", fragment)
		}
	}

	audio := gotBody.Contents[0].Parts[1].InlineData
	if audio == nil || audio.MimeType != "audio/mpeg" || audio.Data == "" {
		t.Error("inline audio part is malformed")
	}
}

func TestSceneSegmenter_SortsAndDropsInvalid(t *testing.T) {
	text := `[
		{"topicSummary":"second","videoPrompt":"p2","startTime":6,"endTime":12},
		{"topicSummary":"inverted","videoPrompt":"p3","startTime":20,"endTime":14},
		{"topicSummary":"first","videoPrompt":"p1","startTime":0,"endTime":6}
	]`
	segmenter := newTestSegmenter(t, func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(candidateResponse(text))); err != nil {
			t.Error("failed to write response:", err)
		}
	})

	segments, err := segmenter.Segment(context.Background(), segmentRequest())
	if err != nil {
		t.Fatal("Segment returned an error:", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2 after dropping the inverted one", len(segments))
	}
	if segments[0].TopicSummary != "first" || segments[1].TopicSummary != "second" {
		t.Errorf("segments are not in chronological order: %v", segments)
	}
}

func TestSceneSegmenter_FailsAtomically(t *testing.T) {
	segmenter := newTestSegmenter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	segments, err := segmenter.Segment(context.Background(), segmentRequest())
	if !errors.Is(err, domain.ErrSegmentationFailed) {
		t.Fatalf("got %v, want ErrSegmentationFailed", err)
	}
	if segments != nil {
		t.Error("no partial segment list may be returned on failure")
	}
}

func TestSceneSegmenter_MalformedResponse(t *testing.T) {
	segmenter := newTestSegmenter(t, func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(candidateResponse("not json at all"))); err != nil {
			t.Error("failed to write response:", err)
		}
	})

	_, err := segmenter.Segment(context.Background(), segmentRequest())
	if !errors.Is(err, domain.ErrSegmentationFailed) {
		t.Fatalf("got %v, want ErrSegmentationFailed", err)
	}
}

func TestSceneSegmenter_MissingCredential(t *testing.T) {
	requests := 0
	segmenter := newTestSegmenter(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})
	t.Setenv(apiKeyEnv, "")

	_, err := segmenter.Segment(context.Background(), segmentRequest())
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("got %v, want ErrMissingCredential", err)
	}
	if requests != 0 {
		t.Error("credential absence must fail before any network call")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"[]", "[]"},
		{"```json\n[]\n```", "[]"},
		{"```\n[]\n```", "[]"},
		{"  [1,2]  ", "[1,2]"},
	}

	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
