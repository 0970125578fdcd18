package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	repository "github.com/chemarena/arena/internal/adapters/repository"
	model "github.com/chemarena/arena/internal/domain/model"
	types "github.com/chemarena/arena/internal/domain/types"
	"github.com/chemarena/arena/pkg/metrics"
)

// battleRecord is the battle row shape stored in the battles table.
type battleRecord struct {
	BattleID  string    `dynamodbav:"battle_id"`
	Category  string    `dynamodbav:"category"`
	PromptID  string    `dynamodbav:"prompt_id"`
	Prompt    string    `dynamodbav:"prompt"`
	ModelA    string    `dynamodbav:"model_a"`
	ModelB    string    `dynamodbav:"model_b"`
	ResponseA string    `dynamodbav:"response_a"`
	ResponseB string    `dynamodbav:"response_b"`
	Voted     bool      `dynamodbav:"voted"`
	Outcome   string    `dynamodbav:"outcome"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	VotedAt   time.Time `dynamodbav:"voted_at"`
}

func battleRecordFrom(b model.Battle) battleRecord {
	return battleRecord{
		BattleID:  b.ID,
		Category:  b.Category,
		PromptID:  b.PromptID,
		Prompt:    b.Prompt,
		ModelA:    b.ModelA,
		ModelB:    b.ModelB,
		ResponseA: b.ResponseA,
		ResponseB: b.ResponseB,
		Voted:     b.Voted,
		Outcome:   string(b.Outcome),
		CreatedAt: b.CreatedAt,
		VotedAt:   b.VotedAt,
	}
}

func (r battleRecord) toBattle() model.Battle {
	return model.Battle{
		ID:        r.BattleID,
		Category:  r.Category,
		PromptID:  r.PromptID,
		Prompt:    r.Prompt,
		ModelA:    r.ModelA,
		ModelB:    r.ModelB,
		ResponseA: r.ResponseA,
		ResponseB: r.ResponseB,
		Voted:     r.Voted,
		Outcome:   types.Outcome(r.Outcome),
		CreatedAt: r.CreatedAt,
		VotedAt:   r.VotedAt,
	}
}

// PutBattle implements repository.BattleStore.
func (c *Client) PutBattle(ctx context.Context, b model.Battle) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	av, err := attributevalue.MarshalMap(battleRecordFrom(b))
	if err != nil {
		return fmt.Errorf("failed to marshal battle: %w", err)
	}
	_, err = c.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tables.Battles),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put battle: %w", err)
	}
	return nil
}

// GetBattle implements repository.BattleStore.
func (c *Client) GetBattle(ctx context.Context, id string) (model.Battle, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	output, err := c.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tables.Battles),
		Key: map[string]ddbtypes.AttributeValue{
			"battle_id": &ddbtypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return model.Battle{}, fmt.Errorf("failed to get battle: %w", err)
	}
	if output.Item == nil {
		metrics.RecordErrorByComponent("dynamostore", "not_found")
		return model.Battle{}, ErrBattleNotFound
	}

	var record battleRecord
	if err := attributevalue.UnmarshalMap(output.Item, &record); err != nil {
		return model.Battle{}, fmt.Errorf("failed to unmarshal battle: %w", err)
	}
	return record.toBattle(), nil
}

// RecordOutcome implements repository.BattleStore. A conditional update
// enforces the one-outcome-per-battle rule on the server side.
func (c *Client) RecordOutcome(ctx context.Context, id string, outcome types.Outcome, at time.Time) (model.Battle, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	votedAt, err := attributevalue.Marshal(at)
	if err != nil {
		return model.Battle{}, fmt.Errorf("failed to marshal voted-at: %w", err)
	}

	output, err := c.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(c.tables.Battles),
		Key: map[string]ddbtypes.AttributeValue{
			"battle_id": &ddbtypes.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET voted = :voted, outcome = :outcome, voted_at = :voted_at"),
		ConditionExpression: aws.String("attribute_exists(battle_id) AND voted = :not_voted"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":voted":     &ddbtypes.AttributeValueMemberBOOL{Value: true},
			":not_voted": &ddbtypes.AttributeValueMemberBOOL{Value: false},
			":outcome":   &ddbtypes.AttributeValueMemberS{Value: string(outcome)},
			":voted_at":  votedAt,
		},
		ReturnValues: ddbtypes.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			// The condition covers both a missing battle and a prior
			// vote; a read tells the two apart.
			if _, getErr := c.GetBattle(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
				return model.Battle{}, ErrBattleNotFound
			}
			metrics.RecordErrorByComponent("dynamostore", "already_voted")
			return model.Battle{}, ErrBattleAlreadyVoted
		}
		return model.Battle{}, fmt.Errorf("failed to record outcome: %w", err)
	}

	var record battleRecord
	if err := attributevalue.UnmarshalMap(output.Attributes, &record); err != nil {
		return model.Battle{}, fmt.Errorf("failed to unmarshal battle: %w", err)
	}
	return record.toBattle(), nil
}

// ListMatches implements repository.BattleStore.
func (c *Client) ListMatches(ctx context.Context, category string) ([]model.MatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	items, err := c.scanAll(ctx, c.votedScanInput(category))
	if err != nil {
		return nil, fmt.Errorf("failed to scan voted battles: %w", err)
	}

	var records []battleRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal battles: %w", err)
	}

	out := make([]model.MatchResult, 0, len(records))
	for _, r := range records {
		out = append(out, model.MatchResult{
			ModelA:   r.ModelA,
			ModelB:   r.ModelB,
			Outcome:  types.Outcome(r.Outcome),
			Category: r.Category,
		})
	}
	return out, nil
}

// CountMatches implements repository.BattleStore.
func (c *Client) CountMatches(ctx context.Context, category string) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	n, err := c.countScan(ctx, c.votedScanInput(category))
	if err != nil {
		return 0, fmt.Errorf("failed to count voted battles: %w", err)
	}
	return n, nil
}

// votedScanInput builds the Scan input selecting voted battles, narrowed to
// one category when set.
func (c *Client) votedScanInput(category string) *dynamodb.ScanInput {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(c.tables.Battles),
		FilterExpression: aws.String("voted = :voted"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":voted": &ddbtypes.AttributeValueMemberBOOL{Value: true},
		},
	}
	if category != "" {
		input.FilterExpression = aws.String("voted = :voted AND category = :category")
		input.ExpressionAttributeValues[":category"] = &ddbtypes.AttributeValueMemberS{Value: category}
	}
	return input
}
