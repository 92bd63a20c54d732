package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// CWLogsAPI is the CloudWatch Logs subset used for gateway log groups.
type CWLogsAPI interface {
	CreateLogGroup(ctx context.Context, params *cw.CreateLogGroupInput, optFns ...func(*cw.Options)) (*cw.CreateLogGroupOutput, error)
	PutRetentionPolicy(ctx context.Context, params *cw.PutRetentionPolicyInput, optFns ...func(*cw.Options)) (*cw.PutRetentionPolicyOutput, error)
	DeleteLogGroup(ctx context.Context, params *cw.DeleteLogGroupInput, optFns ...func(*cw.Options)) (*cw.DeleteLogGroupOutput, error)
}

// CWLogsRepository wraps CloudWatch Logs log group calls.
type CWLogsRepository struct {
	API CWLogsAPI

	// RetryAttempts and RetryDelay tune the retention retry; zero values use
	// 6 attempts starting at 300ms.
	RetryAttempts int
	RetryDelay    time.Duration
}

// CreateLogGroupIfNotExists creates a log group and sets its retention.
func (r *CWLogsRepository) CreateLogGroupIfNotExists(ctx context.Context, name string, retentionDays int32) error {
	_, err := r.API.CreateLogGroup(ctx, &cw.CreateLogGroupInput{LogGroupName: aws.String(name)})
	if err != nil && !isAPIErrorCode(err, "ResourceAlreadyExistsException") {
		return classify(err, "CreateLogGroup", "log group", name)
	}
	if retentionDays <= 0 {
		return nil
	}

	// The new group may not be visible yet.
	err = r.retry(ctx, func() error {
		_, perr := r.API.PutRetentionPolicy(ctx, &cw.PutRetentionPolicyInput{
			LogGroupName:    aws.String(name),
			RetentionInDays: aws.Int32(retentionDays),
		})
		return perr
	})
	if err != nil {
		return fmt.Errorf("PutRetentionPolicy failed after retries: %w", err)
	}
	return nil
}

// DeleteLogGroup deletes a log group; a missing one is ignored.
func (r *CWLogsRepository) DeleteLogGroup(ctx context.Context, name string) error {
	_, err := r.API.DeleteLogGroup(ctx, &cw.DeleteLogGroupInput{LogGroupName: aws.String(name)})
	if err != nil && !isNotFound(err) {
		return classify(err, "DeleteLogGroup", "log group", name)
	}
	return nil
}

// retry runs fn with exponential backoff.
func (r *CWLogsRepository) retry(ctx context.Context, fn func() error) error {
	attempts := r.RetryAttempts
	if attempts <= 0 {
		attempts = 6
	}
	sleep := r.RetryDelay
	if sleep <= 0 {
		sleep = 300 * time.Millisecond
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
			sleep *= 2
		}
	}
	return lastErr
}
