package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/config"
	"narration-video-pipeline/domain"
	"net/http"
	"strings"
	"time"
)

const (
	initialPollWait    = 5 * time.Second
	pollBackoffFactor  = 1.5
	maxPollWait        = 15 * time.Second
	generationDeadline = 10 * time.Minute

	minClipSeconds = 5
	maxClipSeconds = 8
)

type generateVideoRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

type videoInstance struct {
	Prompt string          `json:"prompt"`
	Image  *referenceImage `json:"image,omitempty"`
}

type referenceImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type videoParameters struct {
	AspectRatio      string `json:"aspectRatio"`
	DurationSeconds  int    `json:"durationSeconds"`
	PersonGeneration string `json:"personGeneration"`
}

type videoOperation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					Uri string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

// pollClock is the time seam for the polling loop.
type pollClock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

type clipGenerator struct {
	ContentFetcher
	logger    outbound.LoggerPort
	config    *config.VideoConfig
	blobStore outbound.BlobStorePort
	clock     pollClock
}

func NewClipGenerator(contentFetcher ContentFetcher, videoConfig *config.VideoConfig,
	blobStore outbound.BlobStorePort, logger outbound.LoggerPort) outbound.ClipGeneratorPort {
	return newClipGenerator(contentFetcher, videoConfig, blobStore, logger, realClock{})
}

func newClipGenerator(contentFetcher ContentFetcher, videoConfig *config.VideoConfig,
	blobStore outbound.BlobStorePort, logger outbound.LoggerPort, clock pollClock) *clipGenerator {
	return &clipGenerator{
		ContentFetcher: contentFetcher,
		logger:         logger,
		config:         videoConfig,
		blobStore:      blobStore,
		clock:          clock,
	}
}

func (g *clipGenerator) Generate(ctx context.Context, segment domain.VideoSegment, reference *domain.ReferenceImage) (string, error) {
	key, err := apiKey()
	if err != nil {
		return "", err
	}

	operation, err := g.startJob(ctx, key, segment, reference)
	if err != nil {
		return "", err
	}

	uri, err := g.pollUntilDone(ctx, key, operation)
	if err != nil {
		return "", err
	}

	return g.download(ctx, key, uri)
}

// clampClipDuration derives the requested clip length from the segment's
// time range. Segmentation promises 5-8s but is not trusted to keep it.
func clampClipDuration(seconds float64) int {
	duration := int(math.Round(seconds))
	if duration < minClipSeconds {
		return minClipSeconds
	}
	if duration > maxClipSeconds {
		return maxClipSeconds
	}
	return duration
}

func (g *clipGenerator) startJob(ctx context.Context, key string, segment domain.VideoSegment, reference *domain.ReferenceImage) (string, error) {
	instance := videoInstance{Prompt: segment.VideoPrompt}
	if reference != nil {
		instance.Image = &referenceImage{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(reference.Data),
			MimeType:           reference.MimeType,
		}
	}

	reqBody := generateVideoRequest{
		Instances: []videoInstance{instance},
		Parameters: videoParameters{
			AspectRatio:      "16:9",
			DurationSeconds:  clampClipDuration(segment.Duration()),
			PersonGeneration: "allow_all",
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationStartFailed, err)
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning?key=%s", g.config.ApiUrl, g.config.Model, key)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationStartFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	rawRes, err := g.FetchContent(req)
	if err != nil {
		g.logger.Error(err, "Failed to start the video generation job")
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationStartFailed, err)
	}

	var operation videoOperation
	if err := json.Unmarshal(rawRes, &operation); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationStartFailed, err)
	}
	if operation.Name == "" {
		return "", fmt.Errorf("%w: no operation name in response", domain.ErrGenerationStartFailed)
	}

	g.logger.DebugWithFields("Started video generation job", map[string]interface{}{
		"operation": operation.Name,
		"duration":  reqBody.Parameters.DurationSeconds,
	})

	return operation.Name, nil
}

// pollUntilDone re-submits the job handle with exponential backoff (5s base,
// x1.5 per round, capped at 15s, no jitter) until the job completes or the
// 10-minute wall-clock deadline from job start runs out.
func (g *clipGenerator) pollUntilDone(ctx context.Context, key string, operationName string) (string, error) {
	deadline := g.clock.Now().Add(generationDeadline)
	wait := initialPollWait

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-g.clock.After(wait):
		}

		if g.clock.Now().After(deadline) {
			return "", fmt.Errorf("%w: job still running after %s", domain.ErrGenerationTimedOut, generationDeadline)
		}

		operation, err := g.poll(ctx, key, operationName)
		if err != nil {
			g.logger.Error(err, "Failed to poll the video generation job")
			return "", fmt.Errorf("%w: %v", domain.ErrGenerationPollFailed, err)
		}

		if operation.Done {
			if operation.Error != nil {
				return "", fmt.Errorf("%w: %s", domain.ErrGenerationFailed, operation.Error.Message)
			}
			return extractVideoUri(operation)
		}

		wait = time.Duration(float64(wait) * pollBackoffFactor)
		if wait > maxPollWait {
			wait = maxPollWait
		}
	}
}

func (g *clipGenerator) poll(ctx context.Context, key string, operationName string) (*videoOperation, error) {
	url := fmt.Sprintf("%s/%s?key=%s", g.config.ApiUrl, operationName, key)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	rawRes, err := g.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var operation videoOperation
	if err := json.Unmarshal(rawRes, &operation); err != nil {
		return nil, err
	}

	return &operation, nil
}

// extractVideoUri pulls the single result asset's retrieval URI. A job that
// completes without one is a distinct, explicit condition, not a silent nil.
func extractVideoUri(operation *videoOperation) (string, error) {
	if operation.Response == nil || len(operation.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
		return "", domain.ErrGenerationNoResult
	}
	uri := operation.Response.GenerateVideoResponse.GeneratedSamples[0].Video.Uri
	if uri == "" {
		return "", domain.ErrGenerationNoResult
	}
	return uri, nil
}

func (g *clipGenerator) download(ctx context.Context, key string, uri string) (string, error) {
	separator := "?"
	if strings.Contains(uri, "?") {
		separator = "&"
	}

	req, err := http.NewRequestWithContext(ctx, "GET", uri+separator+"key="+key, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	payload, status, err := g.FetchWithStatus(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("%w: status %d", domain.ErrDownloadFailed, status)
	}

	return g.blobStore.Put(payload, "video/mp4"), nil
}
