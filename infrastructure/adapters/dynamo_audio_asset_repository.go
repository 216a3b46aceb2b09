package adapters

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"narration-service/application/ports/outbound"
	"narration-service/config"
	"narration-service/domain"
)

type dynamoAssetItem struct {
	ContentID       string  `dynamodbav:"content_id"`
	StorageKey      string  `dynamodbav:"storage_key"`
	DeliveryURL     string  `dynamodbav:"delivery_url"`
	DurationSeconds int     `dynamodbav:"duration_seconds"`
	FileSizeBytes   int64   `dynamodbav:"file_size_bytes"`
	CostEstimate    float64 `dynamodbav:"cost_estimate"`
	UpdatedAt       string  `dynamodbav:"updated_at"`
}

type dynamoAudioAssetRepository struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoAudioAssetRepository(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.AudioAssetRepositoryPort {
	return &dynamoAudioAssetRepository{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (r *dynamoAudioAssetRepository) Get(ctx context.Context, contentID string) (*domain.AudioAsset, error) {
	out, err := r.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.dynamoConfig.AssetsTableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]*dynamodb.AttributeValue{
			"content_id": {S: aws.String(contentID)},
		},
	})
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to read audio asset record", map[string]interface{}{
			"contentId": contentID,
		})
		return nil, &domain.MetadataError{Op: "get", Err: err}
	}
	if out.Item == nil {
		return nil, nil
	}

	var item dynamoAssetItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return nil, &domain.MetadataError{Op: "unmarshal", Err: err}
	}

	asset, err := item.toDomain()
	if err != nil {
		return nil, &domain.MetadataError{Op: "unmarshal", Err: err}
	}
	return asset, nil
}

func (r *dynamoAudioAssetRepository) Put(ctx context.Context, asset domain.AudioAsset) error {
	item := dynamoAssetItem{
		ContentID:       asset.ContentID,
		StorageKey:      asset.StorageKey,
		DeliveryURL:     asset.DeliveryURL,
		DurationSeconds: asset.DurationSeconds,
		FileSizeBytes:   asset.FileSizeBytes,
		CostEstimate:    asset.CostEstimate,
		UpdatedAt:       asset.UpdatedAt.UTC().Format(time.RFC3339),
	}

	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		return &domain.MetadataError{Op: "marshal", Err: err}
	}

	_, err = r.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.dynamoConfig.AssetsTableName),
		Item:      av,
	})
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to save audio asset record", map[string]interface{}{
			"contentId": asset.ContentID,
		})
		return &domain.MetadataError{Op: "put", Err: err}
	}
	return nil
}

func (r *dynamoAudioAssetRepository) Delete(ctx context.Context, contentID string) error {
	_, err := r.dynamoSvc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.dynamoConfig.AssetsTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"content_id": {S: aws.String(contentID)},
		},
	})
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to delete audio asset record", map[string]interface{}{
			"contentId": contentID,
		})
		return &domain.MetadataError{Op: "delete", Err: err}
	}
	return nil
}

func (r *dynamoAudioAssetRepository) List(ctx context.Context, contentID string) ([]domain.AudioAsset, error) {
	if contentID != "" {
		asset, err := r.Get(ctx, contentID)
		if err != nil {
			return nil, err
		}
		if asset == nil {
			return nil, nil
		}
		return []domain.AudioAsset{*asset}, nil
	}

	var assets []domain.AudioAsset
	var scanErr error
	err := r.dynamoSvc.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.dynamoConfig.AssetsTableName),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, raw := range page.Items {
			var item dynamoAssetItem
			if err := dynamodbattribute.UnmarshalMap(raw, &item); err != nil {
				scanErr = err
				return false
			}
			asset, err := item.toDomain()
			if err != nil {
				scanErr = err
				return false
			}
			assets = append(assets, *asset)
		}
		return true
	})
	if err != nil {
		return nil, &domain.MetadataError{Op: "scan", Err: err}
	}
	if scanErr != nil {
		return nil, &domain.MetadataError{Op: "unmarshal", Err: scanErr}
	}

	return assets, nil
}

func (i dynamoAssetItem) toDomain() (*domain.AudioAsset, error) {
	updatedAt, err := time.Parse(time.RFC3339, i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.AudioAsset{
		ContentID:       i.ContentID,
		StorageKey:      i.StorageKey,
		DeliveryURL:     i.DeliveryURL,
		DurationSeconds: i.DurationSeconds,
		FileSizeBytes:   i.FileSizeBytes,
		CostEstimate:    i.CostEstimate,
		UpdatedAt:       updatedAt,
	}, nil
}
