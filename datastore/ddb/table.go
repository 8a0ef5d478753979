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
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableAPI is the part of the DynamoDB client EnsureTable calls.
type TableAPI interface {
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
}

// EnsureTable creates table with the store's key layout and roots index if
// it does not exist, then waits up to maxWait for it to become active.
func EnsureTable(ctx context.Context, client TableAPI, table string, index GSIConfig, maxWait time.Duration) error {
	if err := index.Validate(); err != nil {
		return err
	}
	_, err := client.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: &table})
	if err == nil {
		return nil
	}
	var nf *types.ResourceNotFoundException
	if !stderrors.As(err, &nf) {
		return fmt.Errorf("describe table %s: %w", table, err)
	}

	str := types.ScalarAttributeTypeS
	_, err = client.CreateTable(ctx, &sdk.CreateTableInput{
		TableName:   &table,
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: str},
			{AttributeName: aws.String("SK"), AttributeType: str},
			{AttributeName: aws.String(index.PartitionKeyName), AttributeType: str},
			{AttributeName: aws.String(index.SortKeyName), AttributeType: str},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{{
			IndexName: aws.String(index.IndexName),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(index.PartitionKeyName), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String(index.SortKeyName), KeyType: types.KeyTypeRange},
			},
			Projection: &types.Projection{
				ProjectionType:   types.ProjectionTypeInclude,
				NonKeyAttributes: []string{"EntityType", "CreatedAt"},
			},
		}},
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !stderrors.As(err, &inUse) {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}

	waiter := sdk.NewTableExistsWaiter(client, func(o *sdk.TableExistsWaiterOptions) {
		o.MinDelay = 500 * time.Millisecond
		o.MaxDelay = 5 * time.Second
	})
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: &table}, maxWait); err != nil {
		return fmt.Errorf("wait for table %s: %w", table, err)
	}
	return nil
}
