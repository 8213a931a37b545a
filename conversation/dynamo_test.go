package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremesh/caremesh/core"
)

// fakeDynamo is an in-memory stand-in for the DynamoDB API surface the store
// uses.
type fakeDynamo struct {
	items  map[string]map[string]types.AttributeValue
	getErr error
	putErr error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	pk := in.Key["PK"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[pk]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	pk := in.Item["PK"].(*types.AttributeValueMemberS).Value
	f.items[pk] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestNewDynamoStore_Validation(t *testing.T) {
	_, err := NewDynamoStore(nil, "conversations")
	assert.Error(t, err)

	_, err = NewDynamoStore(newFakeDynamo(), "  ")
	assert.Error(t, err)

	store, err := NewDynamoStore(newFakeDynamo(), "conversations")
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestDynamoStore_CreatePersistsItem(t *testing.T) {
	fake := newFakeDynamo()
	store, err := NewDynamoStore(fake, "conversations")
	require.NoError(t, err)

	cctx, err := store.GetOrCreate(context.Background(), "conv-1", "cust-1", core.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, "conv-1", cctx.ConversationID)

	item, ok := fake.items["CONV#conv-1"]
	require.True(t, ok)
	assert.Contains(t, item, "ttl")
	assert.Contains(t, item, "updated_at")
}

func TestDynamoStore_UpdateRoundTrip(t *testing.T) {
	fake := newFakeDynamo()
	store, err := NewDynamoStore(fake, "conversations")
	require.NoError(t, err)

	_, err = store.GetOrCreate(context.Background(), "conv-1", "cust-1", core.ChannelChat)
	require.NoError(t, err)

	err = store.Update(context.Background(), "conv-1", core.TurnResult{
		CustomerMessage: "my app keeps crashing",
		ResponseText:    "let's troubleshoot",
		Intent:          "technical_support",
		DominantEmotion: "fear",
		Language:        core.LanguageEnglish,
	})
	require.NoError(t, err)

	cctx, err := store.GetOrCreate(context.Background(), "conv-1", "cust-1", core.ChannelChat)
	require.NoError(t, err)
	assert.Equal(t, 1, cctx.TurnCount)
	require.Len(t, cctx.History, 2)
	assert.Equal(t, "my app keeps crashing", cctx.History[0].Text)
	assert.Equal(t, []string{"technical_support"}, cctx.PreviousIntents)
	assert.Equal(t, []string{"fear"}, cctx.EmotionTrend)
}

func TestDynamoStore_UpdateMiss(t *testing.T) {
	store, err := NewDynamoStore(newFakeDynamo(), "conversations")
	require.NoError(t, err)

	err = store.Update(context.Background(), "missing", core.TurnResult{})
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}

func TestDynamoStore_BackendErrorsPropagate(t *testing.T) {
	fake := newFakeDynamo()
	fake.getErr = errors.New("throttled")
	store, err := NewDynamoStore(fake, "conversations")
	require.NoError(t, err)

	_, err = store.GetOrCreate(context.Background(), "conv-1", "cust-1", core.ChannelChat)
	assert.ErrorContains(t, err, "throttled")
}
