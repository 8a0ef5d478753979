/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/suparena/metastore/datastore"
	"github.com/suparena/metastore/errors"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
	"github.com/suparena/metastore/storagemodels"
)

// Key layout of the single table. Every item of a root shares its
// partition; the root item itself sorts under rootSK and field values under
// fieldPrefix + FieldKey.
const (
	rootPKPrefix = "ROOT#"
	rootSK       = "ROOT"
	fieldPrefix  = "FIELD#"

	entityTypeRoot  = "Root"
	entityTypeField = "Field"
)

// API is the part of the DynamoDB client the store calls. *dynamodb.Client
// satisfies it.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// item is the stored shape of both root and field items.
type item struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Entity     string `dynamodbav:"Entity,omitempty"`
	Field      string `dynamodbav:"Field,omitempty"`
	Indices    string `dynamodbav:"Indices,omitempty"`
	Kind       string `dynamodbav:"Kind,omitempty"`
	Value      string `dynamodbav:"Value,omitempty"`
	UpdatedAt  string `dynamodbav:"UpdatedAt,omitempty"`
	CreatedAt  string `dynamodbav:"CreatedAt,omitempty"`
}

// ClientConfig holds what NewClient needs to reach DynamoDB. Empty keys fall
// back to the default AWS credential chain; Endpoint targets DynamoDB Local
// or another compatible service.
type ClientConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// NewClient initializes a DynamoDB client.
func NewClient(ctx context.Context, cc ClientConfig) (*sdk.Client, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cc.Region)}
	if cc.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cc.AccessKey, cc.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if cc.Endpoint != "" {
			o.BaseEndpoint = aws.String(cc.Endpoint)
		}
	}), nil
}

// Store keeps metadata in a DynamoDB table, one partition per root.
type Store struct {
	client API
	table  string
	index  GSIConfig
	reg    *schema.Registry
	logger *slog.Logger

	mu       sync.RWMutex
	rootID   string
	recorded string
}

var _ datastore.Backend = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithRegistry sets the schema used for validation.
func WithRegistry(reg *schema.Registry) Option {
	return func(s *Store) { s.reg = reg }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithRootID binds the store to an existing or future root.
func WithRootID(id string) Option {
	return func(s *Store) { s.rootID = id }
}

// WithRootsIndex sets the GSI root items are listed under.
func WithRootsIndex(cfg GSIConfig) Option {
	return func(s *Store) { s.index = cfg }
}

// New creates a store on table using client.
func New(client API, table string, opts ...Option) *Store {
	s := &Store{
		client: client,
		table:  table,
		index:  defaultIndex(),
		reg:    schema.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a client from cc and a store on table.
func Open(ctx context.Context, cc ClientConfig, table string, opts ...Option) (*Store, error) {
	if table == "" {
		return nil, errors.NewValidationError("table", "table name is required")
	}
	client, err := NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	s := New(client, table, opts...)
	s.logger.Info("dynamodb store opened", "table", table, "region", cc.Region, "root", s.rootID)
	return s, nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (s *Store) Close() error { return nil }

func fieldKey(root string, id schema.FieldID, indices []int) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: rootPKPrefix + root},
		"SK": &types.AttributeValueMemberS{Value: fieldPrefix + storagemodels.FieldKey(string(id), indices)},
	}
}

func (s *Store) root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootID
}

func (s *Store) Get(ctx context.Context, id schema.FieldID, indices ...int) (meta.Value, error) {
	f, err := datastore.CheckRead(s.reg, id, indices)
	if err != nil {
		return meta.Absent(), err
	}
	root := s.root()
	if root == "" {
		return meta.Absent(), nil
	}

	if f.Kind == schema.KindCount {
		n, err := s.count(ctx, root, f, indices)
		if err != nil {
			return meta.Absent(), err
		}
		return meta.Count(n), nil
	}

	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &s.table,
		Key:            fieldKey(root, id, indices),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return meta.Absent(), fmt.Errorf("GetItem %s: %w", id, err)
	}
	if out.Item == nil {
		return meta.Absent(), nil
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return meta.Absent(), fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return meta.Decode(it.Kind, it.Value)
}

// count derives a count from the index tuples stored under every entity of
// the field's count scope, one prefix query per entity.
func (s *Store) count(ctx context.Context, root string, f schema.Field, parent []int) (int, error) {
	var tuples [][]int
	for _, entity := range datastore.CountScope(s.reg, f) {
		keys, err := s.indexKeys(ctx, root, fieldPrefix+entity+".")
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", f.ID, err)
		}
		for _, key := range keys {
			t, err := storagemodels.ParseIndexKey(key)
			if err != nil {
				return 0, err
			}
			tuples = append(tuples, t)
		}
	}
	return storagemodels.DeriveCount(tuples, parent), nil
}

func (s *Store) indexKeys(ctx context.Context, root, prefix string) ([]string, error) {
	p := sdk.NewQueryPaginator(s.client, &sdk.QueryInput{
		TableName:              &s.table,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: rootPKPrefix + root},
			":prefix": &types.AttributeValueMemberS{Value: prefix},
		},
		ProjectionExpression:     aws.String("#i"),
		ExpressionAttributeNames: map[string]string{"#i": "Indices"},
		ConsistentRead:           aws.Bool(true),
	})

	var keys []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var rows []item
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &rows); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		for _, r := range rows {
			keys = append(keys, r.Indices)
		}
	}
	return keys, nil
}

func (s *Store) Set(ctx context.Context, id schema.FieldID, v meta.Value, indices ...int) error {
	f, err := datastore.CheckWrite(s.reg, id, v, indices)
	if err != nil {
		return err
	}

	if !v.IsPresent() {
		root := s.root()
		if root == "" {
			return nil
		}
		if _, err := s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
			TableName: &s.table,
			Key:       fieldKey(root, id, indices),
		}); err != nil {
			return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
		}
		return nil
	}

	root, err := s.bindRoot(ctx)
	if err != nil {
		return err
	}
	kind, text, err := meta.Encode(v)
	if err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(item{
		PK:         rootPKPrefix + root,
		SK:         fieldPrefix + storagemodels.FieldKey(string(id), indices),
		EntityType: entityTypeField,
		Entity:     f.Entity,
		Field:      string(id),
		Indices:    storagemodels.IndexKey(indices),
		Kind:       kind,
		Value:      text,
		UpdatedAt:  now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &sdk.PutItemInput{TableName: &s.table, Item: av}); err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

func now() string {
	return strfmt.DateTime(time.Now().UTC()).String()
}

// CreateRoot binds the store to a new root if it has none and makes sure
// the bound root has a root item.
func (s *Store) CreateRoot(ctx context.Context) error {
	_, err := s.bindRoot(ctx)
	return err
}

// bindRoot is CreateRoot returning the root it settled on, read under the
// same lock that recorded it.
func (s *Store) bindRoot(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rootID == "" {
		s.rootID = uuid.NewString()
		s.logger.DebugContext(ctx, "dynamodb root created", "root", s.rootID)
	}
	if err := s.ensureRoot(ctx, s.rootID); err != nil {
		return "", err
	}
	return s.rootID, nil
}

// ensureRoot writes the root item of id unless it exists. Callers hold s.mu.
func (s *Store) ensureRoot(ctx context.Context, id string) error {
	if s.recorded == id {
		return nil
	}

	created := now()
	av, err := attributevalue.MarshalMap(item{
		PK:         rootPKPrefix + id,
		SK:         rootSK,
		EntityType: entityTypeRoot,
		CreatedAt:  created,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal root item: %w", err)
	}
	for name, v := range s.index.rootKeys(created, id) {
		av[name] = &types.AttributeValueMemberS{Value: v}
	}

	_, err = s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &s.table,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	var cfe *types.ConditionalCheckFailedException
	if err != nil && !stderrors.As(err, &cfe) {
		return fmt.Errorf("create root %s: %w", id, err)
	}
	s.recorded = id
	return nil
}

func (s *Store) GetRoot(ctx context.Context) (meta.Root, error) {
	root := s.root()
	if root == "" {
		return nil, nil
	}
	return meta.RootRef(root), nil
}

// SetRoot binds the store to root.RootID(), writing its root item if it is
// new. A nil root unbinds the store without deleting anything.
func (s *Store) SetRoot(ctx context.Context, root meta.Root) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if root == nil {
		s.rootID = ""
		return nil
	}
	id := root.RootID()
	if id == "" {
		return errors.NewValidationError("root", "root identifier is empty")
	}
	if err := s.ensureRoot(ctx, id); err != nil {
		return err
	}
	s.rootID = id
	return nil
}
