package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/caremesh/caremesh/core"
)

const (
	dynamoPKPrefix = "CONV#"
	dynamoTTL      = 30 * 24 * time.Hour
)

// dynamoAPI is the minimal DynamoDB interface required by DynamoStore.
// Defined here for testability.
type dynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore is a ContextStore backed by a single DynamoDB table with one
// item per conversation. Items carry a 30-day TTL so retention is handled by
// the table, not this store.
type DynamoStore struct {
	api       dynamoAPI
	tableName string
	now       func() time.Time
}

// dynamoRecord is the marshalled item shape.
type dynamoRecord struct {
	PK              string              `dynamodbav:"PK"`
	CustomerID      string              `dynamodbav:"customer_id"`
	Channel         string              `dynamodbav:"channel"`
	Language        string              `dynamodbav:"language"`
	History         []core.HistoryEntry `dynamodbav:"history"`
	PreviousIntents []string            `dynamodbav:"previous_intents"`
	EmotionTrend    []string            `dynamodbav:"emotion_trend"`
	TurnCount       int                 `dynamodbav:"turn_count"`
	UnresolvedTurns int                 `dynamodbav:"unresolved_turns"`
	IsEscalated     bool                `dynamodbav:"is_escalated"`
	UpdatedAt       string              `dynamodbav:"updated_at"`
	TTL             int64               `dynamodbav:"ttl"`
}

// NewDynamoStore creates a store over an existing table.
func NewDynamoStore(api dynamoAPI, tableName string) (*DynamoStore, error) {
	if api == nil {
		return nil, errors.New("conversation: dynamo api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("conversation: table name must not be empty")
	}
	return &DynamoStore{api: api, tableName: tableName, now: time.Now}, nil
}

func dynamoPK(conversationID string) string {
	return dynamoPKPrefix + conversationID
}

// GetOrCreate returns an existing conversation or writes a zeroed item,
// allocating a fresh identifier when none is supplied.
func (s *DynamoStore) GetOrCreate(ctx context.Context, conversationID, customerID string, channel core.Channel) (*core.ConversationContext, error) {
	if conversationID != "" {
		cctx, err := s.load(ctx, conversationID)
		if err == nil {
			return cctx, nil
		}
		if !errors.Is(err, core.ErrConversationNotFound) {
			return nil, err
		}
	}

	id := conversationID
	if id == "" {
		id = uuid.NewString()
	}
	cctx := core.NewConversationContext(id, customerID, channel)
	if err := s.put(ctx, cctx); err != nil {
		return nil, err
	}
	return cctx, nil
}

// Update folds a completed turn into the stored conversation. DynamoDB gives
// no cross-call transaction here; the read-modify-write is last-writer-wins
// per conversation key, which the store contract permits.
func (s *DynamoStore) Update(ctx context.Context, conversationID string, turn core.TurnResult) error {
	cctx, err := s.load(ctx, conversationID)
	if err != nil {
		return err
	}
	cctx.ApplyTurn(turn, s.now().UTC())
	return s.put(ctx, cctx)
}

func (s *DynamoStore) load(ctx context.Context, conversationID string) (*core.ConversationContext, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: dynamoPK(conversationID)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", conversationID, err)
	}
	if len(out.Item) == 0 {
		return nil, core.ErrConversationNotFound
	}

	var rec dynamoRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode conversation %s: %w", conversationID, err)
	}

	cctx := core.NewConversationContext(conversationID, rec.CustomerID, core.Channel(rec.Channel))
	cctx.Language = core.Language(rec.Language)
	if rec.History != nil {
		cctx.History = rec.History
	}
	if rec.PreviousIntents != nil {
		cctx.PreviousIntents = rec.PreviousIntents
	}
	if rec.EmotionTrend != nil {
		cctx.EmotionTrend = rec.EmotionTrend
	}
	cctx.TurnCount = rec.TurnCount
	cctx.UnresolvedTurns = rec.UnresolvedTurns
	cctx.IsEscalated = rec.IsEscalated
	return cctx, nil
}

func (s *DynamoStore) put(ctx context.Context, cctx *core.ConversationContext) error {
	now := s.now().UTC()
	item, err := attributevalue.MarshalMap(dynamoRecord{
		PK:              dynamoPK(cctx.ConversationID),
		CustomerID:      cctx.CustomerID,
		Channel:         string(cctx.Channel),
		Language:        string(cctx.Language),
		History:         cctx.History,
		PreviousIntents: cctx.PreviousIntents,
		EmotionTrend:    cctx.EmotionTrend,
		TurnCount:       cctx.TurnCount,
		UnresolvedTurns: cctx.UnresolvedTurns,
		IsEscalated:     cctx.IsEscalated,
		UpdatedAt:       now.Format(time.RFC3339Nano),
		TTL:             now.Add(dynamoTTL).Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode conversation %s: %w", cctx.ConversationID, err)
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to store conversation %s: %w", cctx.ConversationID, err)
	}
	return nil
}
