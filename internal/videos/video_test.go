package videos

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"buitube/internal/testsupport/dynamostub"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, ddb *dynamostub.Stub, docs ...map[string]any) {
	t.Helper()
	for _, d := range docs {
		item, err := attributevalue.MarshalMap(d)
		require.NoError(t, err)
		_, err = ddb.PutItem(context.Background(), putInput("videos", item))
		require.NoError(t, err)
	}
	ddb.Puts = nil
}

func newStub() *dynamostub.Stub {
	ddb := dynamostub.New()
	ddb.CreateTable("videos", "id")
	return ddb
}

func stored(t *testing.T, ddb *dynamostub.Stub, id string) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, attributevalue.UnmarshalMap(ddb.Item("videos", id), &got))
	return got
}

func TestMergeKeepsUntouchedFields(t *testing.T) {
	ddb := newStub()
	seed(t, ddb, map[string]any{"id": "v1", "title": "Old", "description": "D"})

	err := NewStore(ddb, "videos").Merge(context.Background(), Video{ID: "v1", Title: aws.String("New Title")})
	require.NoError(t, err)

	require.Equal(t, map[string]any{
		"id":          "v1",
		"title":       "New Title",
		"description": "D",
	}, stored(t, ddb, "v1"))
}

func TestMergeCreatesMissingDocument(t *testing.T) {
	ddb := newStub()

	err := NewStore(ddb, "videos").Merge(context.Background(), Video{
		ID:     "v9",
		UID:    aws.String("u1"),
		Status: aws.String(StatusProcessing),
	})
	require.NoError(t, err)

	require.Equal(t, map[string]any{
		"id":     "v9",
		"uid":    "u1",
		"status": "processing",
	}, stored(t, ddb, "v9"))
}

func TestMergeEmptyStringIsAWrite(t *testing.T) {
	ddb := newStub()
	seed(t, ddb, map[string]any{"id": "v1", "description": "D"})

	err := NewStore(ddb, "videos").Merge(context.Background(), Video{ID: "v1", Description: aws.String("")})
	require.NoError(t, err)

	require.Equal(t, "", stored(t, ddb, "v1")["description"])
}

func TestMergeNeverTouchesKey(t *testing.T) {
	ddb := newStub()

	err := NewStore(ddb, "videos").Merge(context.Background(), Video{
		ID:          "v1",
		UID:         aws.String("u1"),
		Filename:    aws.String("u1-1.mp4"),
		Status:      aws.String(StatusProcessed),
		Title:       aws.String("t"),
		Description: aws.String("d"),
	})
	require.NoError(t, err)
	require.Len(t, ddb.Updates, 1)

	in := ddb.Updates[0]
	require.Equal(t, "SET #f0 = :f0, #f1 = :f1, #f2 = :f2, #f3 = :f3, #f4 = :f4", aws.ToString(in.UpdateExpression))
	require.NotContains(t, in.ExpressionAttributeNames, "id")
	for _, name := range in.ExpressionAttributeNames {
		require.NotEqual(t, "id", name)
	}
}

func TestMergeWithoutIDDoesNotWrite(t *testing.T) {
	ddb := newStub()

	err := NewStore(ddb, "videos").Merge(context.Background(), Video{Title: aws.String("x")})
	require.Error(t, err)
	require.Empty(t, ddb.Updates)
}

func TestMergeKeysByIDAsSent(t *testing.T) {
	ddb := newStub()

	err := NewStore(ddb, "videos").Merge(context.Background(), Video{ID: " v1 ", Title: aws.String("x")})
	require.NoError(t, err)
	require.Len(t, ddb.Updates, 1)
	require.Equal(t, &types.AttributeValueMemberS{Value: " v1 "}, ddb.Updates[0].Key["id"])
}

func TestMergePropagatesDynamoErrors(t *testing.T) {
	ddb := newStub()
	ddb.Err = errors.New("boom")

	err := NewStore(ddb, "videos").Merge(context.Background(), Video{ID: "v1", Title: aws.String("x")})
	require.ErrorIs(t, err, ddb.Err)
}

func TestListCapsAtLimit(t *testing.T) {
	ddb := newStub()
	for i := 0; i < 25; i++ {
		seed(t, ddb, map[string]any{"id": fmt.Sprintf("v%02d", i), "title": fmt.Sprintf("t%d", i)})
	}
	store := NewStore(ddb, "videos")

	docs, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 10)
	require.Equal(t, int32(10), aws.ToInt32(ddb.Scans[0].Limit))
	require.Nil(t, ddb.Scans[0].ExclusiveStartKey)

	again, err := store.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, docs, again)
}

func TestListReturnsRawDocuments(t *testing.T) {
	ddb := newStub()
	seed(t, ddb, map[string]any{"id": "v1", "uid": "u1", "status": "processed", "extra": "kept"})

	docs, err := NewStore(ddb, "videos").List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []map[string]any{{"id": "v1", "uid": "u1", "status": "processed", "extra": "kept"}}, docs)
}

func TestListEmptyTable(t *testing.T) {
	docs, err := NewStore(newStub(), "videos").List(context.Background())
	require.NoError(t, err)
	require.Empty(t, docs)
}
