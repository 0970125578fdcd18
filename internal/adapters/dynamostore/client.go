// Package dynamostore implements the arena store on DynamoDB.
package dynamostore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	repository "github.com/chemarena/arena/internal/adapters/repository"
)

// api is the slice of the DynamoDB client the store depends on.
type api interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Tables names the DynamoDB tables backing the store.
type Tables struct {
	Models  string // partition key model_id
	Battles string // partition key battle_id
	Ratings string // partition key scope_key, sort key model_id
}

// Client implements repository.Store on DynamoDB tables.
type Client struct {
	dynamodb api
	tables   Tables
}

var _ repository.Store = (*Client)(nil)

// NewClient wraps an existing DynamoDB client. Empty table names fall back
// to the arena defaults.
func NewClient(dynamoClient api, tables Tables) *Client {
	if tables.Models == "" {
		tables.Models = "arena-models"
	}
	if tables.Battles == "" {
		tables.Battles = "arena-battles"
	}
	if tables.Ratings == "" {
		tables.Ratings = "arena-ratings"
	}
	return &Client{
		dynamodb: dynamoClient,
		tables:   tables,
	}
}

// NewFromConfig builds a Client from the ambient AWS configuration. An
// empty region keeps the environment's default; a non-empty endpoint
// overrides the service endpoint, which is how local DynamoDB is reached.
func NewFromConfig(ctx context.Context, region, endpoint string, tables Tables) (*Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	var optFns []func(*dynamodb.Options)
	if endpoint != "" {
		optFns = append(optFns, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	return NewClient(dynamodb.NewFromConfig(cfg, optFns...), tables), nil
}

// scanAll drains a paginated Scan and returns the collected items.
func (c *Client) scanAll(ctx context.Context, input *dynamodb.ScanInput) ([]map[string]ddbtypes.AttributeValue, error) {
	var items []map[string]ddbtypes.AttributeValue
	for {
		output, err := c.dynamodb.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

// countScan drains a paginated COUNT Scan and returns the total.
func (c *Client) countScan(ctx context.Context, input *dynamodb.ScanInput) (int, error) {
	input.Select = ddbtypes.SelectCount
	var total int
	for {
		output, err := c.dynamodb.Scan(ctx, input)
		if err != nil {
			return 0, err
		}
		total += int(output.Count)
		if output.LastEvaluatedKey == nil {
			return total, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}
