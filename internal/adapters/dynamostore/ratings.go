package dynamostore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	model "github.com/chemarena/arena/internal/domain/model"
	types "github.com/chemarena/arena/internal/domain/types"
	"github.com/chemarena/arena/pkg/metrics"
)

// ratingMetaID is the reserved sort-key value of the per-scope meta row
// that carries the scope's last-write timestamp. Real model ids never
// collide with it.
const ratingMetaID = "#meta"

// ratingRecord is the rating row shape stored in the ratings table.
type ratingRecord struct {
	ScopeKey     string    `dynamodbav:"scope_key"`
	ModelID      string    `dynamodbav:"model_id"`
	Rating       int       `dynamodbav:"rating"`
	Strength     float64   `dynamodbav:"strength"`
	Wins         int       `dynamodbav:"wins"`
	Losses       int       `dynamodbav:"losses"`
	Ties         int       `dynamodbav:"ties"`
	WinRate      float64   `dynamodbav:"win_rate"`
	Confidence   float64   `dynamodbav:"confidence"`
	TotalMatches int       `dynamodbav:"total_matches"`
	UpdatedAt    time.Time `dynamodbav:"updated_at"`
}

func ratingRecordFrom(scopeKey string, row model.RatingRow) ratingRecord {
	return ratingRecord{
		ScopeKey:     scopeKey,
		ModelID:      row.ModelID,
		Rating:       row.Rating,
		Strength:     row.Strength,
		Wins:         row.Wins,
		Losses:       row.Losses,
		Ties:         row.Ties,
		WinRate:      row.WinRate,
		Confidence:   row.Confidence,
		TotalMatches: row.TotalMatches,
		UpdatedAt:    row.UpdatedAt,
	}
}

func (r ratingRecord) toRow() model.RatingRow {
	return model.RatingRow{
		ModelID:      r.ModelID,
		Rating:       r.Rating,
		Strength:     r.Strength,
		Wins:         r.Wins,
		Losses:       r.Losses,
		Ties:         r.Ties,
		WinRate:      r.WinRate,
		Confidence:   r.Confidence,
		TotalMatches: r.TotalMatches,
		UpdatedAt:    r.UpdatedAt,
	}
}

// PutRatings implements repository.RatingStore. Rows are upserted one by
// one, rows for competitors absent from the new set are deleted, and the
// scope's meta row advances last so LastUpdated only moves on a complete
// write.
func (c *Client) PutRatings(ctx context.Context, scope types.Scope, rows []model.RatingRow) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	scopeKey := scope.Key()
	now := time.Now().UTC()

	existing, err := c.queryRatingRecords(ctx, scopeKey)
	if err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		keep[row.ModelID] = struct{}{}

		record := ratingRecordFrom(scopeKey, row)
		if record.UpdatedAt.IsZero() {
			record.UpdatedAt = now
		}
		av, err := attributevalue.MarshalMap(record)
		if err != nil {
			return fmt.Errorf("failed to marshal rating: %w", err)
		}
		if _, err := c.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(c.tables.Ratings),
			Item:      av,
		}); err != nil {
			return fmt.Errorf("failed to put rating: %w", err)
		}
	}

	for _, record := range existing {
		if record.ModelID == ratingMetaID {
			continue
		}
		if _, ok := keep[record.ModelID]; ok {
			continue
		}
		if _, err := c.dynamodb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(c.tables.Ratings),
			Key: map[string]ddbtypes.AttributeValue{
				"scope_key": &ddbtypes.AttributeValueMemberS{Value: scopeKey},
				"model_id":  &ddbtypes.AttributeValueMemberS{Value: record.ModelID},
			},
		}); err != nil {
			return fmt.Errorf("failed to delete stale rating: %w", err)
		}
	}

	meta := ratingRecord{ScopeKey: scopeKey, ModelID: ratingMetaID, UpdatedAt: now}
	av, err := attributevalue.MarshalMap(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal rating meta: %w", err)
	}
	if _, err := c.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tables.Ratings),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to put rating meta: %w", err)
	}
	return nil
}

// ListRatings implements repository.RatingStore. Rows come back ordered by
// model id.
func (c *Client) ListRatings(ctx context.Context, scope types.Scope) ([]model.RatingRow, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	records, err := c.queryRatingRecords(ctx, scope.Key())
	if err != nil {
		return nil, err
	}

	out := make([]model.RatingRow, 0, len(records))
	for _, r := range records {
		if r.ModelID == ratingMetaID {
			continue
		}
		out = append(out, r.toRow())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelID < out[j].ModelID })
	return out, nil
}

// GetRating implements repository.RatingStore.
func (c *Client) GetRating(ctx context.Context, scope types.Scope, modelID string) (model.RatingRow, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	output, err := c.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tables.Ratings),
		Key: map[string]ddbtypes.AttributeValue{
			"scope_key": &ddbtypes.AttributeValueMemberS{Value: scope.Key()},
			"model_id":  &ddbtypes.AttributeValueMemberS{Value: modelID},
		},
	})
	if err != nil {
		return model.RatingRow{}, fmt.Errorf("failed to get rating: %w", err)
	}
	if output.Item == nil {
		metrics.RecordErrorByComponent("dynamostore", "not_found")
		return model.RatingRow{}, ErrRatingNotFound
	}

	var record ratingRecord
	if err := attributevalue.UnmarshalMap(output.Item, &record); err != nil {
		return model.RatingRow{}, fmt.Errorf("failed to unmarshal rating: %w", err)
	}
	return record.toRow(), nil
}

// LastUpdated implements repository.RatingStore.
func (c *Client) LastUpdated(ctx context.Context, scope types.Scope) (time.Time, error) {
	output, err := c.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tables.Ratings),
		Key: map[string]ddbtypes.AttributeValue{
			"scope_key": &ddbtypes.AttributeValueMemberS{Value: scope.Key()},
			"model_id":  &ddbtypes.AttributeValueMemberS{Value: ratingMetaID},
		},
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get rating meta: %w", err)
	}
	if output.Item == nil {
		return time.Time{}, nil
	}

	var meta ratingRecord
	if err := attributevalue.UnmarshalMap(output.Item, &meta); err != nil {
		return time.Time{}, fmt.Errorf("failed to unmarshal rating meta: %w", err)
	}
	return meta.UpdatedAt, nil
}

// queryRatingRecords drains the paginated query for one scope's rows,
// meta row included.
func (c *Client) queryRatingRecords(ctx context.Context, scopeKey string) ([]ratingRecord, error) {
	var records []ratingRecord
	var lastKey map[string]ddbtypes.AttributeValue
	for {
		output, err := c.dynamodb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(c.tables.Ratings),
			KeyConditionExpression: aws.String("scope_key = :scope"),
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":scope": &ddbtypes.AttributeValueMemberS{Value: scopeKey},
			},
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query ratings: %w", err)
		}

		var page []ratingRecord
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ratings: %w", err)
		}
		records = append(records, page...)

		if output.LastEvaluatedKey == nil {
			return records, nil
		}
		lastKey = output.LastEvaluatedKey
	}
}
