package ledger

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the interface for the DynamoDB operations the ledger
// needs. *dynamodb.Client satisfies it; tests supply a fake.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DDBLedger implements Ledger on a DynamoDB table, so batch runs can
// resume across processes and hosts.
//
// Table schema:
//   - Partition key: scope (string)
//   - Sort key: input (string)
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name prism-runs \
//	  --attribute-definitions AttributeName=scope,AttributeType=S AttributeName=input,AttributeType=S \
//	  --key-schema AttributeName=scope,KeyType=HASH AttributeName=input,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBLedger struct {
	client    DDBClient
	tableName string
}

// NewDDBLedger creates a DynamoDB-backed ledger on the given table.
func NewDDBLedger(client DDBClient, tableName string) *DDBLedger {
	return &DDBLedger{
		client:    client,
		tableName: tableName,
	}
}

// Completed reports whether an entry for (scope, input) exists.
func (l *DDBLedger) Completed(ctx context.Context, scope, input string) (bool, error) {
	out, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.tableName),
		Key: map[string]types.AttributeValue{
			"scope": &types.AttributeValueMemberS{Value: scope},
			"input": &types.AttributeValueMemberS{Value: input},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, err
	}
	return len(out.Item) > 0, nil
}

// Record persists an entry, replacing any previous one for the same key.
func (l *DDBLedger) Record(ctx context.Context, e Entry) error {
	completedAt := e.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.tableName),
		Item: map[string]types.AttributeValue{
			"scope":        &types.AttributeValueMemberS{Value: e.Scope},
			"input":        &types.AttributeValueMemberS{Value: e.Input},
			"output":       &types.AttributeValueMemberS{Value: e.Output},
			"in_points":    &types.AttributeValueMemberN{Value: strconv.Itoa(e.InPoints)},
			"out_points":   &types.AttributeValueMemberN{Value: strconv.Itoa(e.OutPoints)},
			"completed_at": &types.AttributeValueMemberS{Value: completedAt.Format(time.RFC3339Nano)},
		},
	})
	return err
}
