package config

import (
	"fmt"
	"os"
)

type SegmenterConfig struct {
	ApiUrl string
	Model  string
}

func GetSegmenterConfig() (*SegmenterConfig, error) {
	apiUrl := os.Getenv("SEGMENTER_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("SEGMENTER_API_URL must be set")
	}
	model := os.Getenv("SEGMENTER_MODEL")
	if model == "" {
		return nil, fmt.Errorf("SEGMENTER_MODEL must be set")
	}
	return &SegmenterConfig{
		ApiUrl: apiUrl,
		Model:  model,
	}, nil
}
