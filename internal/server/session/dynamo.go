package session

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/iudanet/xbookmarks/internal/crypto"
	"github.com/iudanet/xbookmarks/internal/models"
)

//go:generate moq -out dynamo_mock_test.go . DynamoAPI

// DynamoAPI is the part of the DynamoDB client the session store uses
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

const dynamoKeyAttr = "session_key"

// dynamoItem is the stored shape. expires_at is the table's TTL attribute;
// DynamoDB deletes lazily, so reads check it too.
type dynamoItem struct {
	Session   *models.Session `dynamodbav:"session"`
	Key       string          `dynamodbav:"session_key"`
	ExpiresAt int64           `dynamodbav:"expires_at"`
}

// DynamoStore keeps sessions in a DynamoDB table shared by all instances.
type DynamoStore struct {
	client DynamoAPI
	table  string
	opts   Options
}

// NewDynamoStore creates a store over table, whose partition key is the
// string attribute "session_key"
func NewDynamoStore(client DynamoAPI, table string, opts Options) *DynamoStore {
	return &DynamoStore{client: client, table: table, opts: opts.withDefaults()}
}

// Check verifies the table exists, is active and is keyed as expected
func (s *DynamoStore) Check(ctx context.Context) error {
	out, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.table)})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", s.table, err)
	}
	if out.Table == nil {
		return fmt.Errorf("table %s: empty description", s.table)
	}
	if out.Table.TableStatus != types.TableStatusActive {
		return fmt.Errorf("table %s is %s", s.table, out.Table.TableStatus)
	}
	for _, k := range out.Table.KeySchema {
		if k.KeyType == types.KeyTypeHash && aws.ToString(k.AttributeName) == dynamoKeyAttr {
			return nil
		}
	}
	return fmt.Errorf("table %s must have hash key %q", s.table, dynamoKeyAttr)
}

func (s *DynamoStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		dynamoKeyAttr: &types.AttributeValueMemberS{Value: crypto.HashToken(id)},
	}
}

func (s *DynamoStore) Get(ctx context.Context, id string) (*models.Session, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if item.Session == nil || item.ExpiresAt <= s.opts.Now().Unix() {
		return nil, ErrNotFound
	}

	item.Session.ID = id
	return item.Session, nil
}

func (s *DynamoStore) Save(ctx context.Context, sess *models.Session) error {
	s.opts.stamp(sess)

	av, err := attributevalue.MarshalMap(dynamoItem{
		Key:       crypto.HashToken(sess.ID),
		Session:   sess,
		ExpiresAt: sess.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put session: %w", err)
	}

	return nil
}

func (s *DynamoStore) Destroy(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing
func (s *DynamoStore) Close() error {
	return nil
}
