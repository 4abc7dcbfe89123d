package users

import (
	"context"
	"errors"
	"testing"

	"buitube/internal/testsupport/dynamostub"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/stretchr/testify/require"
)

func TestNewProfileDefaults(t *testing.T) {
	p := NewProfile(" u1 ", "a@example.com", "")

	require.Equal(t, "u1", p.UID)
	require.Equal(t, "a@example.com", p.Email)
	require.Empty(t, p.PhotoURL)
	require.False(t, p.Roles.Viewer)
	require.Nil(t, p.Roles.Admin)
	require.Nil(t, p.Roles.Uploader)
}

func TestStorePutWritesProfileKeyedByUID(t *testing.T) {
	ddb := dynamostub.New()
	ddb.CreateTable("users", "uid")
	store := NewStore(ddb, "users")

	require.NoError(t, store.Put(context.Background(), NewProfile("u1", "a@example.com", "https://img/p.png")))

	item := ddb.Item("users", "u1")
	require.NotNil(t, item)

	var got map[string]any
	require.NoError(t, attributevalue.UnmarshalMap(item, &got))
	require.Equal(t, map[string]any{
		"uid":      "u1",
		"email":    "a@example.com",
		"photoUrl": "https://img/p.png",
		"roles":    map[string]any{"viewer": false},
	}, got)
}

func TestStorePutOverwrites(t *testing.T) {
	ddb := dynamostub.New()
	ddb.CreateTable("users", "uid")
	store := NewStore(ddb, "users")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, NewProfile("u1", "old@example.com", "https://img/old.png")))
	require.NoError(t, store.Put(ctx, NewProfile("u1", "new@example.com", "")))

	var got Profile
	require.NoError(t, attributevalue.UnmarshalMap(ddb.Item("users", "u1"), &got))
	require.Equal(t, "new@example.com", got.Email)
	require.Empty(t, got.PhotoURL)
	require.Len(t, ddb.Puts, 2)
	require.Nil(t, ddb.Puts[1].ConditionExpression)
}

func TestStorePutRequiresUID(t *testing.T) {
	ddb := dynamostub.New()
	ddb.CreateTable("users", "uid")

	err := NewStore(ddb, "users").Put(context.Background(), NewProfile("", "a@example.com", ""))
	require.Error(t, err)
	require.Empty(t, ddb.Puts)
}

func TestStorePutPropagatesDynamoErrors(t *testing.T) {
	ddb := dynamostub.New()
	ddb.CreateTable("users", "uid")
	ddb.Err = errors.New("throttled")

	err := NewStore(ddb, "users").Put(context.Background(), NewProfile("u1", "", ""))
	require.ErrorIs(t, err, ddb.Err)
}
