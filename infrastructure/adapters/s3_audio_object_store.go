package adapters

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"

	"narration-service/application/ports/outbound"
	"narration-service/config"
	"narration-service/domain"
)

type s3AudioObjectStore struct {
	logger   outbound.LoggerPort
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3AudioObjectStore(logger outbound.LoggerPort, s3Svc *s3.S3, s3Config *config.S3Config) outbound.AudioObjectStorePort {
	return &s3AudioObjectStore{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3AudioObjectStore) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000"),
	}

	if _, err := s.s3Svc.PutObjectWithContext(ctx, putInput); err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    key,
		})
		return "", &domain.StorageError{Op: "put", Key: key, Err: err}
	}

	objectURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Config.BucketName, s.s3Config.Region, key)
	s.logger.DebugWithFields("Uploaded object to S3", map[string]interface{}{
		"url":   objectURL,
		"bytes": len(payload),
	})

	return objectURL, nil
}

func (s *s3AudioObjectStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, _ := s.s3Svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	signed, err := req.Presign(ttl)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to presign object URL", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    key,
		})
		return "", &domain.StorageError{Op: "presign", Key: key, Err: err}
	}

	return signed, nil
}

func (s *s3AudioObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.s3Svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, &domain.StorageError{Op: "head", Key: key, Err: err}
	}
	return true, nil
}

func (s *s3AudioObjectStore) HeadMetadata(ctx context.Context, key string) (*outbound.ObjectMetadata, error) {
	out, err := s.s3Svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "head", Key: key, Err: err}
	}

	meta := &outbound.ObjectMetadata{
		Size:        aws.Int64Value(out.ContentLength),
		ContentType: aws.StringValue(out.ContentType),
	}
	if out.LastModified != nil {
		meta.LastModified = *out.LastModified
	}
	return meta, nil
}

func (s *s3AudioObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.s3Svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to delete object from S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    key,
		})
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// isNotFound distinguishes a missing object from a real storage failure.
// HeadObject reports 404 via the request status, not via a usable error
// code, so both paths are checked.
func isNotFound(err error) bool {
	if reqErr, ok := err.(awserr.RequestFailure); ok {
		if reqErr.StatusCode() == http.StatusNotFound {
			return true
		}
	}
	if awsErr, ok := err.(awserr.Error); ok {
		switch awsErr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
