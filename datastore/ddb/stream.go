/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/go-openapi/strfmt"

	"github.com/suparena/metastore/storagemodels"
)

// Stream sends the field records of the bound root in sort key order, one
// DynamoDB page at a time. Failed pages are retried with a linear backoff.
func (s *Store) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[storagemodels.Record] {
	options := storagemodels.ApplyStreamOptions(opts...)
	resultCh := make(chan storagemodels.StreamResult[storagemodels.Record], options.BufferSize)

	root := s.root()
	if root == "" {
		close(resultCh)
		return resultCh
	}

	go s.streamWorker(ctx, root, options, resultCh)
	return resultCh
}

// streamWorker handles the actual streaming logic
func (s *Store) streamWorker(
	ctx context.Context,
	root string,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult[storagemodels.Record],
) {
	defer close(resultCh)

	var itemIndex int64
	var pageNumber int

	input := &dynamodb.QueryInput{
		TableName:              &s.table,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: rootPKPrefix + root},
			":prefix": &types.AttributeValueMemberS{Value: fieldPrefix + options.Prefix},
		},
		Limit: aws.Int32(options.PageSize),
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		out, err := s.queryWithRetry(ctx, input, options)
		if err != nil {
			select {
			case <-ctx.Done():
			case resultCh <- storagemodels.StreamResult[storagemodels.Record]{
				Error: fmt.Errorf("query failed: %w", err),
				Meta: storagemodels.StreamMeta{
					Index:      itemIndex,
					PageNumber: pageNumber,
					Timestamp:  time.Now(),
				},
			}:
			}
			return
		}

		pageNumber++
		for _, raw := range out.Items {
			result := processItem(root, raw, itemIndex, pageNumber)
			itemIndex++

			select {
			case <-ctx.Done():
				return
			case resultCh <- result:
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			return
		}
		s.logger.DebugContext(ctx, "dynamodb stream page", "root", root, "page", pageNumber, "items", itemIndex)
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// queryWithRetry executes a query with configurable retry logic
func (s *Store) queryWithRetry(
	ctx context.Context,
	input *dynamodb.QueryInput,
	options storagemodels.StreamOptions,
) (*dynamodb.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := s.client.Query(ctx, input)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}

		// Don't sleep after last attempt
		if attempt < options.MaxRetries {
			backoff := time.Duration(attempt+1) * options.RetryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", options.MaxRetries, lastErr)
}

// processItem converts a DynamoDB item to a record result
func processItem(root string, raw map[string]types.AttributeValue, index int64, pageNumber int) storagemodels.StreamResult[storagemodels.Record] {
	result := storagemodels.StreamResult[storagemodels.Record]{
		Meta: storagemodels.StreamMeta{
			Index:      index,
			PageNumber: pageNumber,
			Timestamp:  time.Now(),
		},
	}

	var it item
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		result.Error = fmt.Errorf("failed to unmarshal item: %w", err)
		return result
	}
	if it.EntityType != entityTypeField {
		result.Error = fmt.Errorf("unexpected item type %q under %s", it.EntityType, it.SK)
		return result
	}

	result.Item = storagemodels.Record{
		Root:    root,
		Entity:  it.Entity,
		Field:   it.Field,
		Indices: it.Indices,
		Kind:    it.Kind,
		Value:   it.Value,
	}
	if dt, err := strfmt.ParseDateTime(it.UpdatedAt); err == nil {
		result.Item.UpdatedAt = dt
	}
	return result
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var pte *types.ProvisionedThroughputExceededException
	var rle *types.RequestLimitExceeded
	var ise *types.InternalServerError
	if stderrors.As(err, &pte) || stderrors.As(err, &rle) || stderrors.As(err, &ise) {
		return true
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ServiceUnavailable":
			return true
		}
	}

	// Check for AWS SDK retryable errors
	var retryable interface{ RetryableError() bool }
	if stderrors.As(err, &retryable) {
		return retryable.RetryableError()
	}
	return false
}
