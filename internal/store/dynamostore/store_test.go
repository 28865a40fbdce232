package dynamostore

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
	"github.com/filmarkiv/filmarkiv-server/internal/store/storetest"
)

// fakeDynamo is an in-memory table keyed by "pk". It understands the two
// condition expressions the store issues and pages scans by pageSize.
type fakeDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	scans    int
	scanErr  error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}, pageSize: 2}
}

func keyString(key map[string]types.AttributeValue) string {
	return key["pk"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) checkCondition(cond *string, exists bool) error {
	switch aws.ToString(cond) {
	case condExists:
		if !exists {
			return &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	case condNotExists:
		if exists {
			return &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	return nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[keyString(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyString(in.Item)
	_, exists := f.items[k]
	if err := f.checkCondition(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyString(in.Key)
	_, exists := f.items[k]
	if err := f.checkCondition(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	delete(f.items, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
	if f.scanErr != nil {
		return nil, f.scanErr
	}

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		start = slices.Index(keys, keyString(in.ExclusiveStartKey)) + 1
	}
	end := min(start+f.pageSize, len(keys))

	kind := in.ExpressionAttributeValues[":kind"].(*types.AttributeValueMemberS).Value
	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		item := f.items[k]
		if item["kind"].(*types.AttributeValueMemberS).Value == kind {
			out.Items = append(out.Items, item)
		}
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{"pk": &types.AttributeValueMemberS{Value: keys[end-1]}}
	}
	return out, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableName: in.TableName}}, nil
}

func mustNewStore(t *testing.T, db *fakeDynamo) *Store {
	t.Helper()
	s, err := New(db, "filmarkiv-test", nil)
	require.NoError(t, err)
	return s
}

func TestDynamoContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return mustNewStore(t, newFakeDynamo()) })
}

func TestNew_RejectsBadArguments(t *testing.T) {
	_, err := New(nil, "table", nil)
	assert.Error(t, err)

	_, err = New(newFakeDynamo(), "  ", nil)
	assert.Error(t, err)
}

func TestListMovies_FollowsScanPages(t *testing.T) {
	db := newFakeDynamo()
	s := mustNewStore(t, db)
	ctx := context.Background()

	for i, title := range []string{"A", "B", "C", "D", "E"} {
		require.NoError(t, s.CreateMovie(ctx, storetest.NewMovie(title, 2000+i, "Drama")))
	}
	msg := &domain.Message{Name: "x"}
	msg.ID = "msg-1"
	require.NoError(t, s.CreateMessage(ctx, msg))

	movies, err := s.ListMovies(ctx, domain.MovieFilter{})
	require.NoError(t, err)
	assert.Len(t, movies, 5, "messages are filtered out by kind")
	assert.Equal(t, 2004, movies[0].Year)
	assert.Equal(t, 3, db.scans, "six items at two per page")
}

func TestListMovies_ScanError(t *testing.T) {
	db := newFakeDynamo()
	db.scanErr = errors.New("throttled")
	s := mustNewStore(t, db)

	_, err := s.ListMovies(context.Background(), domain.MovieFilter{})
	assert.ErrorContains(t, err, "throttled")
}

func TestMovieItem_Attributes(t *testing.T) {
	m := storetest.NewMovie("Heat", 1995, "Crime")

	item, err := movieItem(m)
	require.NoError(t, err)
	assert.Equal(t, "MOVIE#"+m.ID, item["pk"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "MOVIE", item["kind"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "1995", item["year"].(*types.AttributeValueMemberN).Value)
	assert.Contains(t, item["doc"].(*types.AttributeValueMemberS).Value, `"title":"Heat"`)
}

func TestGetMovie_CorruptItem(t *testing.T) {
	db := newFakeDynamo()
	db.items["MOVIE#mov-broken"] = map[string]types.AttributeValue{
		"pk":   &types.AttributeValueMemberS{Value: "MOVIE#mov-broken"},
		"kind": &types.AttributeValueMemberS{Value: "MOVIE"},
	}
	s := mustNewStore(t, db)

	_, err := s.GetMovie(context.Background(), "mov-broken")
	assert.ErrorContains(t, err, "no doc attribute")
}
