package adapters

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/google/uuid"

	"narration-service/application/ports/outbound"
	"narration-service/config"
	"narration-service/domain"
)

type dynamoAnalyticsItem struct {
	ContentID           string  `dynamodbav:"content_id"`
	EventID             string  `dynamodbav:"event_id"`
	EventType           string  `dynamodbav:"event_type"`
	SessionID           string  `dynamodbav:"session_id,omitempty"`
	PlayDurationSeconds float64 `dynamodbav:"play_duration_seconds"`
	CreatedAt           string  `dynamodbav:"created_at"`
}

type dynamoAnalyticsRecorder struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoAnalyticsRecorder(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.AnalyticsRecorderPort {
	return &dynamoAnalyticsRecorder{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (r *dynamoAnalyticsRecorder) Record(ctx context.Context, event domain.AnalyticsEvent) error {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	item := dynamoAnalyticsItem{
		ContentID:           event.ContentID,
		EventID:             uuid.NewString(),
		EventType:           string(event.EventType),
		SessionID:           event.SessionID,
		PlayDurationSeconds: event.PlayDurationSeconds,
		CreatedAt:           createdAt.UTC().Format(time.RFC3339),
	}

	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		return &domain.MetadataError{Op: "marshal", Err: err}
	}

	_, err = r.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.dynamoConfig.AnalyticsTableName),
		Item:      av,
	})
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to save analytics event", map[string]interface{}{
			"contentId": event.ContentID,
			"event":     string(event.EventType),
		})
		return &domain.MetadataError{Op: "put", Err: err}
	}
	return nil
}

func (r *dynamoAnalyticsRecorder) PlaySummary(ctx context.Context, contentID string) (*outbound.PlaySummary, error) {
	summary := &outbound.PlaySummary{}

	collect := func(page *dynamodb.QueryOutput, lastPage bool) bool {
		for _, raw := range page.Items {
			var item dynamoAnalyticsItem
			if err := dynamodbattribute.UnmarshalMap(raw, &item); err != nil {
				continue
			}
			summary.PlayCount++
			summary.TotalPlaySeconds += item.PlayDurationSeconds
		}
		return true
	}

	if contentID != "" {
		err := r.dynamoSvc.QueryPagesWithContext(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.dynamoConfig.AnalyticsTableName),
			KeyConditionExpression: aws.String("content_id = :cid"),
			FilterExpression:       aws.String("event_type = :play"),
			ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
				":cid":  {S: aws.String(contentID)},
				":play": {S: aws.String(string(domain.PlayEvent))},
			},
		}, collect)
		if err != nil {
			return nil, &domain.MetadataError{Op: "query", Err: err}
		}
		return summary, nil
	}

	err := r.dynamoSvc.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.dynamoConfig.AnalyticsTableName),
		FilterExpression: aws.String("event_type = :play"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":play": {S: aws.String(string(domain.PlayEvent))},
		},
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, raw := range page.Items {
			var item dynamoAnalyticsItem
			if err := dynamodbattribute.UnmarshalMap(raw, &item); err != nil {
				continue
			}
			summary.PlayCount++
			summary.TotalPlaySeconds += item.PlayDurationSeconds
		}
		return true
	})
	if err != nil {
		return nil, &domain.MetadataError{Op: "scan", Err: err}
	}
	return summary, nil
}

func (r *dynamoAnalyticsRecorder) DeleteForContent(ctx context.Context, contentID string) error {
	var eventIDs []string
	err := r.dynamoSvc.QueryPagesWithContext(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.dynamoConfig.AnalyticsTableName),
		KeyConditionExpression: aws.String("content_id = :cid"),
		ProjectionExpression:   aws.String("event_id"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":cid": {S: aws.String(contentID)},
		},
	}, func(page *dynamodb.QueryOutput, lastPage bool) bool {
		for _, raw := range page.Items {
			if attr, ok := raw["event_id"]; ok && attr.S != nil {
				eventIDs = append(eventIDs, *attr.S)
			}
		}
		return true
	})
	if err != nil {
		return &domain.MetadataError{Op: "query", Err: err}
	}

	for _, eventID := range eventIDs {
		_, err := r.dynamoSvc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.dynamoConfig.AnalyticsTableName),
			Key: map[string]*dynamodb.AttributeValue{
				"content_id": {S: aws.String(contentID)},
				"event_id":   {S: aws.String(eventID)},
			},
		})
		if err != nil {
			return &domain.MetadataError{Op: "delete", Err: err}
		}
	}
	return nil
}
