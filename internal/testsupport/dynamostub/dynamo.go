// Package dynamostub is an in-memory stand-in for the DynamoDB calls the
// stores make. It understands plain "SET a = :v, ..." update expressions and
// Scan limits, nothing more.
package dynamostub

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type table struct {
	key   string
	order []string
	items map[string]map[string]types.AttributeValue
}

type Stub struct {
	mu     sync.Mutex
	tables map[string]*table

	// Err, when set, fails every call.
	Err error

	Puts    []*dynamodb.PutItemInput
	Updates []*dynamodb.UpdateItemInput
	Scans   []*dynamodb.ScanInput
}

func New() *Stub {
	return &Stub{tables: map[string]*table{}}
}

// CreateTable registers a table whose partition key is the string attribute keyAttr.
func (s *Stub) CreateTable(name, keyAttr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = &table{key: keyAttr, items: map[string]map[string]types.AttributeValue{}}
}

// Item returns a copy of the stored item, or nil.
func (s *Stub) Item(tableName, key string) map[string]types.AttributeValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[tableName]
	if !ok {
		return nil
	}
	it, ok := t.items[key]
	if !ok {
		return nil
	}
	return copyItem(it)
}

func (s *Stub) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Puts = append(s.Puts, in)
	if s.Err != nil {
		return nil, s.Err
	}

	t, err := s.table(in.TableName)
	if err != nil {
		return nil, err
	}
	key, err := keyValue(in.Item, t.key)
	if err != nil {
		return nil, err
	}
	t.store(key, copyItem(in.Item))
	return &dynamodb.PutItemOutput{}, nil
}

func (s *Stub) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Updates = append(s.Updates, in)
	if s.Err != nil {
		return nil, s.Err
	}

	t, err := s.table(in.TableName)
	if err != nil {
		return nil, err
	}
	key, err := keyValue(in.Key, t.key)
	if err != nil {
		return nil, err
	}

	item, ok := t.items[key]
	if !ok {
		item = copyItem(in.Key)
	}

	if expr := strings.TrimSpace(aws.ToString(in.UpdateExpression)); expr != "" {
		if !strings.HasPrefix(strings.ToUpper(expr), "SET ") {
			return nil, fmt.Errorf("dynamostub: unsupported update expression %q", expr)
		}
		for _, clause := range strings.Split(expr[4:], ",") {
			parts := strings.SplitN(clause, "=", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("dynamostub: bad SET clause %q", clause)
			}
			name := strings.TrimSpace(parts[0])
			if strings.HasPrefix(name, "#") {
				resolved, ok := in.ExpressionAttributeNames[name]
				if !ok {
					return nil, fmt.Errorf("dynamostub: unknown name %s", name)
				}
				name = resolved
			}
			ref := strings.TrimSpace(parts[1])
			v, ok := in.ExpressionAttributeValues[ref]
			if !ok {
				return nil, fmt.Errorf("dynamostub: unknown value %s", ref)
			}
			if name == t.key {
				return nil, fmt.Errorf("dynamostub: cannot update key attribute %s", name)
			}
			item[name] = v
		}
	}

	t.store(key, item)
	return &dynamodb.UpdateItemOutput{}, nil
}

func (s *Stub) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Scans = append(s.Scans, in)
	if s.Err != nil {
		return nil, s.Err
	}

	t, err := s.table(in.TableName)
	if err != nil {
		return nil, err
	}

	limit := len(t.order)
	if in.Limit != nil && int(*in.Limit) < limit {
		limit = int(*in.Limit)
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range t.order[:limit] {
		out.Items = append(out.Items, copyItem(t.items[k]))
	}
	out.Count = int32(len(out.Items))
	out.ScannedCount = out.Count
	if limit > 0 && limit < len(t.order) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			t.key: &types.AttributeValueMemberS{Value: t.order[limit-1]},
		}
	}
	return out, nil
}

func (s *Stub) table(name *string) (*table, error) {
	t, ok := s.tables[aws.ToString(name)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("table not found: " + aws.ToString(name))}
	}
	return t, nil
}

func (t *table) store(key string, item map[string]types.AttributeValue) {
	if _, ok := t.items[key]; !ok {
		t.order = append(t.order, key)
	}
	t.items[key] = item
}

func keyValue(item map[string]types.AttributeValue, attr string) (string, error) {
	v, ok := item[attr].(*types.AttributeValueMemberS)
	if !ok || v.Value == "" {
		return "", fmt.Errorf("dynamostub: missing string key %s", attr)
	}
	return v.Value, nil
}

func copyItem(in map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
