package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	done, err := l.Completed(ctx, "out/", "a.ply")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, l.Record(ctx, Entry{
		Scope:     "out/",
		Input:     "a.ply",
		Output:    "a.ply",
		InPoints:  100,
		OutPoints: 10,
	}))

	done, err = l.Completed(ctx, "out/", "a.ply")
	require.NoError(t, err)
	assert.True(t, done)

	// Different scope is independent.
	done, err = l.Completed(ctx, "other/", "a.ply")
	require.NoError(t, err)
	assert.False(t, done)

	assert.Equal(t, 1, l.Len())
}

// fakeDDB captures puts and serves gets from them.
type fakeDDB struct {
	items map[string]map[string]types.AttributeValue
}

func newFakeDDB() *fakeDDB {
	return &fakeDDB{items: make(map[string]map[string]types.AttributeValue)}
}

func itemKey(item map[string]types.AttributeValue) string {
	scope := item["scope"].(*types.AttributeValueMemberS).Value
	input := item["input"].(*types.AttributeValueMemberS).Value
	return scope + "|" + input
}

func (f *fakeDDB) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.items[itemKey(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDB) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	item, ok := f.items[itemKey(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func TestDDBLedger(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDDB()
	l := NewDDBLedger(fake, "prism-runs")

	done, err := l.Completed(ctx, "s3://bucket/out", "site/a.ply")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, l.Record(ctx, Entry{
		Scope:       "s3://bucket/out",
		Input:       "site/a.ply",
		Output:      "site/a.ply",
		InPoints:    5000,
		OutPoints:   120,
		CompletedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}))

	done, err = l.Completed(ctx, "s3://bucket/out", "site/a.ply")
	require.NoError(t, err)
	assert.True(t, done)

	item := fake.items["s3://bucket/out|site/a.ply"]
	require.NotNil(t, item)
	assert.Equal(t, "120", item["out_points"].(*types.AttributeValueMemberN).Value)
	assert.Equal(t, "2025-06-01T12:00:00Z", item["completed_at"].(*types.AttributeValueMemberS).Value)
}
