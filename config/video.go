package config

import (
	"fmt"
	"os"
)

type VideoConfig struct {
	ApiUrl string
	Model  string
}

func GetVideoConfig() (*VideoConfig, error) {
	apiUrl := os.Getenv("VIDEO_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("VIDEO_API_URL must be set")
	}
	model := os.Getenv("VIDEO_MODEL")
	if model == "" {
		return nil, fmt.Errorf("VIDEO_MODEL must be set")
	}
	return &VideoConfig{
		ApiUrl: apiUrl,
		Model:  model,
	}, nil
}
