package users

import (
	"context"
	"fmt"
	"strings"

	"buitube/internal/db"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Roles are never promoted by this service; viewer starts false.
type Roles struct {
	Admin    *bool `dynamodbav:"admin,omitempty" json:"admin,omitempty"`
	Uploader *bool `dynamodbav:"uploader,omitempty" json:"uploader,omitempty"`
	Viewer   bool  `dynamodbav:"viewer" json:"viewer"`
}

// Profile is the users table item. PK = uid.
type Profile struct {
	UID      string `dynamodbav:"uid" json:"uid"`
	Email    string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	PhotoURL string `dynamodbav:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Roles    Roles  `dynamodbav:"roles" json:"roles"`
}

// NewProfile builds the initial profile for a freshly created account.
func NewProfile(uid, email, photoURL string) Profile {
	return Profile{
		UID:      strings.TrimSpace(uid),
		Email:    strings.TrimSpace(email),
		PhotoURL: strings.TrimSpace(photoURL),
		Roles:    Roles{Viewer: false},
	}
}

type Store struct {
	ddb   db.DynamoAPI
	table string
}

func NewStore(ddb db.DynamoAPI, table string) *Store {
	return &Store{ddb: ddb, table: table}
}

// Put writes p unconditionally, replacing whatever was stored under p.UID.
func (s *Store) Put(ctx context.Context, p Profile) error {
	if p.UID == "" {
		return fmt.Errorf("missing uid")
	}

	av, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("ddb put profile %s: %w", p.UID, err)
	}
	return nil
}
