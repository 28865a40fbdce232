// Package dynamostore keeps catalog documents in a single DynamoDB table.
//
// Items are keyed by "pk" ("MOVIE#<id>" or "MESSAGE#<id>") and carry the JSON
// document in "doc", plus "kind" and "year" for scans.
package dynamostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

const (
	kindMovie   = "MOVIE"
	kindMessage = "MESSAGE"

	condExists    = "attribute_exists(pk)"
	condNotExists = "attribute_not_exists(pk)"
)

// dynamodbAPI is the minimal DynamoDB interface required by Store.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Store wraps a DynamoDB table.
type Store struct {
	api       dynamodbAPI
	tableName string
	logger    *slog.Logger
}

var _ store.Store = (*Store)(nil)

// New creates a Store over an existing table.
func New(api dynamodbAPI, tableName string, logger *slog.Logger) (*Store, error) {
	if api == nil {
		return nil, errors.New("dynamostore: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("dynamostore: table name must not be empty")
	}
	return &Store{api: api, tableName: tableName, logger: logger}, nil
}

// Open builds a client from the default AWS configuration chain (environment,
// shared config, instance role). A non-empty endpoint points the client at a
// local DynamoDB.
func Open(ctx context.Context, tableName, endpoint string, logger *slog.Logger) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("dynamostore: load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s, err := New(client, tableName, logger)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("DynamoDB store configured", "table", tableName, "region", cfg.Region)
	}
	return s, nil
}

// Driver implements store.Store.
func (s *Store) Driver() string { return store.DriverDynamoDB }

// Ping checks that the table exists and is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.tableName)})
	if err != nil {
		return fmt.Errorf("dynamostore: describe table: %w", err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no connection state.
func (s *Store) Close() error { return nil }

func pk(kind, id string) string {
	return kind + "#" + id
}

func keyOf(kind, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pk(kind, id)},
	}
}

// put writes an item under condition, mapping a failed condition to onConflict.
func (s *Store) put(ctx context.Context, item map[string]types.AttributeValue, condition string, onConflict error) error {
	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String(condition),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return onConflict
	}
	if err != nil {
		return fmt.Errorf("dynamostore: put item: %w", err)
	}
	return nil
}

func (s *Store) getDoc(ctx context.Context, kind, id string, dest any) error {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            keyOf(kind, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("dynamostore: get item: %w", err)
	}
	if len(out.Item) == 0 {
		return store.ErrNotFound
	}
	return decodeDoc(out.Item, dest)
}

func movieItem(m *domain.Movie) (map[string]types.AttributeValue, error) {
	doc, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("dynamostore: marshal movie: %w", err)
	}
	return map[string]types.AttributeValue{
		"pk":   &types.AttributeValueMemberS{Value: pk(kindMovie, m.ID)},
		"kind": &types.AttributeValueMemberS{Value: kindMovie},
		"year": &types.AttributeValueMemberN{Value: strconv.Itoa(m.Year)},
		"doc":  &types.AttributeValueMemberS{Value: string(doc)},
	}, nil
}

func decodeDoc(item map[string]types.AttributeValue, dest any) error {
	av, ok := item["doc"].(*types.AttributeValueMemberS)
	if !ok {
		return errors.New("dynamostore: item has no doc attribute")
	}
	if err := json.Unmarshal([]byte(av.Value), dest); err != nil {
		return fmt.Errorf("dynamostore: unmarshal doc: %w", err)
	}
	return nil
}

// CreateMovie implements store.MovieStore.
func (s *Store) CreateMovie(ctx context.Context, m *domain.Movie) error {
	item, err := movieItem(m)
	if err != nil {
		return err
	}
	return s.put(ctx, item, condNotExists, store.ErrAlreadyExists)
}

// GetMovie implements store.MovieStore.
func (s *Store) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	var m domain.Movie
	if err := s.getDoc(ctx, kindMovie, id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMovie implements store.MovieStore. The write is conditional on the
// item existing, so a missing id never creates one.
func (s *Store) UpdateMovie(ctx context.Context, m *domain.Movie) error {
	item, err := movieItem(m)
	if err != nil {
		return err
	}
	return s.put(ctx, item, condExists, store.ErrNotFound)
}

// DeleteMovie implements store.MovieStore.
func (s *Store) DeleteMovie(ctx context.Context, id string) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 keyOf(kindMovie, id),
		ConditionExpression: aws.String(condExists),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("dynamostore: delete item: %w", err)
	}
	return nil
}

// ListMovies implements store.MovieStore with a full table scan.
func (s *Store) ListMovies(ctx context.Context, filter domain.MovieFilter) ([]*domain.Movie, error) {
	return store.SelectMovies(s.scanMovies(ctx), filter)
}

func (s *Store) scanMovies(ctx context.Context) iter.Seq2[*domain.Movie, error] {
	return func(yield func(*domain.Movie, error) bool) {
		in := &dynamodb.ScanInput{
			TableName:        aws.String(s.tableName),
			FilterExpression: aws.String("#kind = :kind"),
			ExpressionAttributeNames: map[string]string{
				"#kind": "kind",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":kind": &types.AttributeValueMemberS{Value: kindMovie},
			},
		}
		for {
			out, err := s.api.Scan(ctx, in)
			if err != nil {
				yield(nil, fmt.Errorf("dynamostore: scan: %w", err))
				return
			}
			for _, item := range out.Items {
				var m domain.Movie
				if err := decodeDoc(item, &m); err != nil {
					yield(nil, err)
					return
				}
				if !yield(&m, nil) {
					return
				}
			}
			if len(out.LastEvaluatedKey) == 0 {
				return
			}
			in.ExclusiveStartKey = out.LastEvaluatedKey
		}
	}
}

// CreateMessage implements store.MessageStore.
func (s *Store) CreateMessage(ctx context.Context, msg *domain.Message) error {
	doc, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("dynamostore: marshal message: %w", err)
	}
	item := map[string]types.AttributeValue{
		"pk":   &types.AttributeValueMemberS{Value: pk(kindMessage, msg.ID)},
		"kind": &types.AttributeValueMemberS{Value: kindMessage},
		"doc":  &types.AttributeValueMemberS{Value: string(doc)},
	}
	return s.put(ctx, item, condNotExists, store.ErrAlreadyExists)
}

// GetMessage implements store.MessageStore.
func (s *Store) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	if err := s.getDoc(ctx, kindMessage, id, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
