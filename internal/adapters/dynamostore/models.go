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
	"github.com/chemarena/arena/pkg/metrics"
)

// modelRecord is the catalog row shape stored in the models table.
type modelRecord struct {
	ModelID     string `dynamodbav:"model_id"`
	Name        string `dynamodbav:"name"`
	Provider    string `dynamodbav:"provider"`
	Description string `dynamodbav:"description"`
	IsNew       bool   `dynamodbav:"is_new"`
	Active      bool   `dynamodbav:"active"`
}

func modelRecordFrom(m model.Model) modelRecord {
	return modelRecord{
		ModelID:     m.ID,
		Name:        m.Name,
		Provider:    m.Provider,
		Description: m.Description,
		IsNew:       m.IsNew,
		Active:      m.Active,
	}
}

func (r modelRecord) toModel() model.Model {
	return model.Model{
		ID:          r.ModelID,
		Name:        r.Name,
		Provider:    r.Provider,
		Description: r.Description,
		IsNew:       r.IsNew,
		Active:      r.Active,
	}
}

// PutModel upserts a catalog entry. Used to seed the configured catalog at
// startup; not part of the repository interfaces.
func (c *Client) PutModel(ctx context.Context, m model.Model) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	av, err := attributevalue.MarshalMap(modelRecordFrom(m))
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	_, err = c.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tables.Models),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put model: %w", err)
	}
	return nil
}

// ListModels implements repository.ModelStore. Rows come back ordered by
// model id.
func (c *Client) ListModels(ctx context.Context) ([]model.Model, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	items, err := c.scanAll(ctx, &dynamodb.ScanInput{
		TableName: aws.String(c.tables.Models),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan models: %w", err)
	}

	var records []modelRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal models: %w", err)
	}

	out := make([]model.Model, 0, len(records))
	for _, r := range records {
		out = append(out, r.toModel())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetModel implements repository.ModelStore.
func (c *Client) GetModel(ctx context.Context, id string) (model.Model, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	output, err := c.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tables.Models),
		Key: map[string]ddbtypes.AttributeValue{
			"model_id": &ddbtypes.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return model.Model{}, fmt.Errorf("failed to get model: %w", err)
	}
	if output.Item == nil {
		metrics.RecordErrorByComponent("dynamostore", "not_found")
		return model.Model{}, ErrModelNotFound
	}

	var record modelRecord
	if err := attributevalue.UnmarshalMap(output.Item, &record); err != nil {
		return model.Model{}, fmt.Errorf("failed to unmarshal model: %w", err)
	}
	return record.toModel(), nil
}

// ListActiveIDs implements repository.ModelStore. Ids come back sorted.
func (c *Client) ListActiveIDs(ctx context.Context) ([]string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	items, err := c.scanAll(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(c.tables.Models),
		FilterExpression: aws.String("active = :active"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":active": &ddbtypes.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan active models: %w", err)
	}

	var records []modelRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal models: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ModelID)
	}
	sort.Strings(ids)
	return ids, nil
}
