package adapters

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"narration-service/application/ports/outbound"
	"narration-service/config"
	"narration-service/domain"
)

// dynamoGenerationLock implements the per-content lease with a conditional
// put: the write succeeds only when no row exists or the existing lease has
// expired. Crashed holders are healed by takeover, not by manual cleanup.
type dynamoGenerationLock struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoGenerationLock(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.GenerationLockPort {
	return &dynamoGenerationLock{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (l *dynamoGenerationLock) Acquire(ctx context.Context, contentID string, lease time.Duration) (bool, error) {
	now := time.Now()
	expiresAt := now.Add(lease).Unix()

	_, err := l.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.dynamoConfig.LocksTableName),
		Item: map[string]*dynamodb.AttributeValue{
			"content_id": {S: aws.String(contentID)},
			"expires_at": {N: aws.String(strconv.FormatInt(expiresAt, 10))},
		},
		ConditionExpression: aws.String("attribute_not_exists(content_id) OR expires_at < :now"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":now": {N: aws.String(strconv.FormatInt(now.Unix(), 10))},
		},
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
			return false, nil
		}
		l.logger.ErrorWithFields(err, "Failed to acquire generation lease", map[string]interface{}{
			"contentId": contentID,
		})
		return false, &domain.MetadataError{Op: "lock", Err: err}
	}
	return true, nil
}

func (l *dynamoGenerationLock) Release(ctx context.Context, contentID string) error {
	_, err := l.dynamoSvc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(l.dynamoConfig.LocksTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"content_id": {S: aws.String(contentID)},
		},
	})
	if err != nil {
		return &domain.MetadataError{Op: "unlock", Err: err}
	}
	return nil
}
