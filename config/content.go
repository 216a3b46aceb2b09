package config

import (
	"fmt"
	"os"
)

type ContentConfig struct {
	ApiUrl string
}

func GetContentConfig() (*ContentConfig, error) {
	apiUrl := os.Getenv("CONTENT_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("CONTENT_API_URL must be set")
	}

	return &ContentConfig{
		ApiUrl: apiUrl,
	}, nil
}
