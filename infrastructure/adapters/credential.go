package adapters

import (
	"narration-video-pipeline/domain"
	"os"
)

const apiKeyEnv = "GENAI_API_KEY"

// apiKey reads the generative-capability credential at call time so its
// absence fails fast before any network attempt.
func apiKey() (string, error) {
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return "", domain.ErrMissingCredential
	}
	return key, nil
}
