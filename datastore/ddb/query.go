/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Roots lists the roots recorded in the table, oldest first. It queries the
// roots GSI, so roots written moments ago may be missing.
func (s *Store) Roots(ctx context.Context) ([]string, error) {
	keyCond := "#pk = :pk"
	p := sdk.NewQueryPaginator(s.client, &sdk.QueryInput{
		TableName:              &s.table,
		IndexName:              aws.String(s.index.IndexName),
		KeyConditionExpression: &keyCond,
		ExpressionAttributeNames: map[string]string{
			"#pk": s.index.PartitionKeyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: rootsPartition},
		},
		ScanIndexForward: aws.Bool(true),
	})

	var ids []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query roots on %s: %w", s.index.IndexName, err)
		}
		var rows []item
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &rows); err != nil {
			return nil, fmt.Errorf("failed to unmarshal root items: %w", err)
		}
		for _, r := range rows {
			if r.EntityType != entityTypeRoot {
				continue
			}
			ids = append(ids, strings.TrimPrefix(r.PK, rootPKPrefix))
		}
	}
	return ids, nil
}
