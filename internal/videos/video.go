package videos

import (
	"context"
	"fmt"
	"strings"

	"buitube/internal/db"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PageSize caps every listing.
const PageSize int32 = 10

const (
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
)

// Video is the videos table item. PK = id. Items are created by the
// processing service; this package only lists and patches them.
//
// Optional fields are pointers so a patch can tell "absent" from "empty".
type Video struct {
	ID          string  `dynamodbav:"id" json:"id" validate:"required,notblank"`
	UID         *string `dynamodbav:"uid,omitempty" json:"uid,omitempty"`
	Filename    *string `dynamodbav:"filename,omitempty" json:"filename,omitempty"`
	Status      *string `dynamodbav:"status,omitempty" json:"status,omitempty" validate:"omitempty,oneof=processing processed"`
	Title       *string `dynamodbav:"title,omitempty" json:"title,omitempty"`
	Description *string `dynamodbav:"description,omitempty" json:"description,omitempty"`
}

// fields lists the attributes present in v, in a stable order.
func (v Video) fields() []field {
	var out []field
	add := func(name string, val *string) {
		if val != nil {
			out = append(out, field{name: name, value: *val})
		}
	}
	add("uid", v.UID)
	add("filename", v.Filename)
	add("status", v.Status)
	add("title", v.Title)
	add("description", v.Description)
	return out
}

type field struct {
	name  string
	value string
}

type Store struct {
	ddb   db.DynamoAPI
	table string
}

func NewStore(ddb db.DynamoAPI, table string) *Store {
	return &Store{ddb: ddb, table: table}
}

// List returns up to PageSize documents in the table's own scan order, as
// stored. There is no cursor: every call starts from the beginning.
func (s *Store) List(ctx context.Context) ([]map[string]any, error) {
	limit := PageSize
	out, err := s.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
		Limit:     aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("ddb scan videos: %w", err)
	}

	items := out.Items
	if len(items) > int(limit) {
		items = items[:limit]
	}

	docs := make([]map[string]any, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal videos: %w", err)
	}
	return docs, nil
}

// Merge writes the fields present in v into videos/{v.ID}, leaving every other
// attribute alone. The item is created if it does not exist yet.
func (s *Store) Merge(ctx context.Context, v Video) error {
	if v.ID == "" {
		return fmt.Errorf("missing video id")
	}

	in := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: v.ID},
		},
	}

	if fs := v.fields(); len(fs) > 0 {
		sets := make([]string, 0, len(fs))
		names := make(map[string]string, len(fs))
		values := make(map[string]types.AttributeValue, len(fs))
		for i, f := range fs {
			n := fmt.Sprintf("#f%d", i)
			val := fmt.Sprintf(":f%d", i)
			sets = append(sets, fmt.Sprintf("%s = %s", n, val))
			names[n] = f.name
			values[val] = &types.AttributeValueMemberS{Value: f.value}
		}
		in.UpdateExpression = aws.String("SET " + strings.Join(sets, ", "))
		in.ExpressionAttributeNames = names
		in.ExpressionAttributeValues = values
	}

	if _, err := s.ddb.UpdateItem(ctx, in); err != nil {
		return fmt.Errorf("ddb update video %s: %w", v.ID, err)
	}
	return nil
}
