package config

import (
	"fmt"
	"os"
)

type DynamoConfig struct {
	AssetsTableName    string
	AnalyticsTableName string
	LocksTableName     string
}

func GetDynamoConfig() (*DynamoConfig, error) {
	assetsTable := os.Getenv("NARRATION_ASSETS_TABLE")
	if assetsTable == "" {
		return nil, fmt.Errorf("NARRATION_ASSETS_TABLE must be set")
	}

	analyticsTable := os.Getenv("NARRATION_ANALYTICS_TABLE")
	if analyticsTable == "" {
		return nil, fmt.Errorf("NARRATION_ANALYTICS_TABLE must be set")
	}

	locksTable := os.Getenv("NARRATION_LOCKS_TABLE")
	if locksTable == "" {
		return nil, fmt.Errorf("NARRATION_LOCKS_TABLE must be set")
	}

	return &DynamoConfig{
		AssetsTableName:    assetsTable,
		AnalyticsTableName: analyticsTable,
		LocksTableName:     locksTable,
	}, nil
}
