package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/config"
	"narration-video-pipeline/domain"
	"net/http"
	"sort"
	"strings"
)

type segmenterRequest struct {
	Contents         []segmenterContent `json:"contents"`
	GenerationConfig generationConfig   `json:"generationConfig"`
}

type segmenterContent struct {
	Parts []segmenterPart `json:"parts"`
}

type segmenterPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type"`
}

type segmenterResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type sceneSegmenter struct {
	ContentFetcher
	logger outbound.LoggerPort
	config *config.SegmenterConfig
}

func NewSceneSegmenter(contentFetcher ContentFetcher, segmenterConfig *config.SegmenterConfig, logger outbound.LoggerPort) outbound.SceneSegmenterPort {
	return &sceneSegmenter{
		ContentFetcher: contentFetcher,
		logger:         logger,
		config:         segmenterConfig,
	}
}

func (s *sceneSegmenter) Segment(ctx context.Context, req outbound.SegmentAudioRequest) ([]domain.VideoSegment, error) {
	key, err := apiKey()
	if err != nil {
		return nil, err
	}

	httpReq, err := s.getRequest(ctx, key, req)
	if err != nil {
		s.logger.Error(err, "Failed to create the segmentation request")
		return nil, fmt.Errorf("%w: %v", domain.ErrSegmentationFailed, err)
	}

	rawRes, err := s.FetchContent(httpReq)
	if err != nil {
		s.logger.Error(err, "Segmentation call failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrSegmentationFailed, err)
	}

	var res segmenterResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		s.logger.Error(err, "Failed to unmarshal the segmentation response")
		return nil, fmt.Errorf("%w: %v", domain.ErrSegmentationFailed, err)
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: response contains no candidates", domain.ErrSegmentationFailed)
	}

	segments, err := s.decodeSegments(res.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		s.logger.Error(err, "Failed to decode segments")
		return nil, fmt.Errorf("%w: %v", domain.ErrSegmentationFailed, err)
	}

	s.logger.InfoWithFields("Segmented narration", map[string]interface{}{
		"segments": len(segments),
	})

	return segments, nil
}

// decodeSegments strips surrounding code fences, decodes the JSON array and
// validates it. Inverted intervals are dropped rather than failing the run;
// chronological order is re-established by a stable sort on start time since
// the capability is not trusted to honor its own contract.
func (s *sceneSegmenter) decodeSegments(text string) ([]domain.VideoSegment, error) {
	var decoded []domain.VideoSegment
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &decoded); err != nil {
		return nil, err
	}

	segments := make([]domain.VideoSegment, 0, len(decoded))
	for _, segment := range decoded {
		if segment.TopicSummary == "" || segment.VideoPrompt == "" {
			return nil, fmt.Errorf("segment is missing a summary or prompt")
		}
		if segment.StartTime >= segment.EndTime {
			s.logger.WarnWithFields("Dropping segment with an inverted time range", map[string]interface{}{
				"start": segment.StartTime,
				"end":   segment.EndTime,
			})
			continue
		}
		segments = append(segments, segment)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartTime < segments[j].StartTime
	})

	return segments, nil
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func (s *sceneSegmenter) getRequest(ctx context.Context, key string, req outbound.SegmentAudioRequest) (*http.Request, error) {
	reqBody := segmenterRequest{
		Contents: []segmenterContent{{
			Parts: []segmenterPart{
				{Text: s.buildPrompt(req.Context, req.Characters)},
				{InlineData: &inlineData{
					MimeType: req.MimeType,
					Data:     base64.StdEncoding.EncodeToString(req.Audio),
				}},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.config.ApiUrl, s.config.Model, key)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return httpReq, nil
}

func (s *sceneSegmenter) buildPrompt(storyContext string, characters []domain.Character) string {
	var roster strings.Builder
	for _, character := range characters {
		if character.Name == "" && character.Description == "" {
			continue
		}
		roster.WriteString(fmt.Sprintf("- name: %s, id: %s, description: %s\n",
			character.Name, character.ID, character.Description))
	}
	if roster.Len() == 0 {
		roster.WriteString("(none)\n")
	}

	return fmt.Sprintf("Listen to the attached narration and split it into an ordered list of video segments.\n"+
		"Rules:\n"+
		"- Each segment must be between 5 and 8 seconds long.\n"+
		"- Together the segments must cover the full transcript, in chronological order.\n"+
		"- For each segment provide a concise topicSummary and a detailed visual videoPrompt.\n"+
		"- When a segment features one of the listed characters, set characterId to that character's id.\n"+
		"- Provide startTime and endTime in seconds.\n"+
		"Story context: %s\n"+
		"Characters:\n%s"+
		"Respond with a JSON array of objects with fields "+
		"{topicSummary, videoPrompt, characterId (optional), startTime, endTime}.",
		storyContext, roster.String())
}
