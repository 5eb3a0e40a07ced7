package lib

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// fakeDynamoDB is an in memory table keyed by memoId. It applies the subset
// of update expressions this module sends, and rejects empty key values the
// way dynamodb does.
type fakeDynamoDB struct {
	mu       sync.Mutex
	items    map[string]map[string]ddbtypes.AttributeValue
	err      error
	pageSize int

	scans   []*dynamodb.ScanInput
	puts    []*dynamodb.PutItemInput
	updates []*dynamodb.UpdateItemInput

	tables   map[string]*ddbtypes.TableDescription
	statuses []ddbtypes.TableStatus
	created  []*dynamodb.CreateTableInput
	altered  []*dynamodb.UpdateTableInput
}

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{
		items:  map[string]map[string]ddbtypes.AttributeValue{},
		tables: map[string]*ddbtypes.TableDescription{},
	}
}

func fakeValidationError(msg string) error {
	return &smithy.GenericAPIError{Code: "ValidationException", Message: msg}
}

func fakeKey(key map[string]ddbtypes.AttributeValue) (string, error) {
	val, ok := key[MemoKeyID].(*ddbtypes.AttributeValueMemberS)
	if !ok {
		return "", fakeValidationError("The provided key element does not match the schema")
	}
	if val.Value == "" {
		return "", fakeValidationError("One or more parameter values are not valid. The AttributeValue for a key attribute cannot contain an empty string value. Key: memoId")
	}
	return val.Value, nil
}

func (f *fakeDynamoDB) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans = append(f.scans, params)
	if f.err != nil {
		return nil, f.err
	}
	var keys []string
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if params.ExclusiveStartKey != nil {
		start, err := fakeKey(params.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		i := sort.SearchStrings(keys, start)
		if i < len(keys) && keys[i] == start {
			i++
		}
		keys = keys[i:]
	}
	out := &dynamodb.ScanOutput{}
	last := ""
	for _, k := range keys {
		if f.pageSize > 0 && len(out.Items) == f.pageSize {
			out.LastEvaluatedKey = map[string]ddbtypes.AttributeValue{
				MemoKeyID: &ddbtypes.AttributeValueMemberS{Value: last},
			}
			break
		}
		out.Items = append(out.Items, f.items[k])
		last = k
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func (f *fakeDynamoDB) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, params)
	if f.err != nil {
		return nil, f.err
	}
	key, err := fakeKey(params.Item)
	if err != nil {
		return nil, err
	}
	item := map[string]ddbtypes.AttributeValue{}
	for k, v := range params.Item {
		item[k] = v
	}
	f.items[key] = item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, params)
	if f.err != nil {
		return nil, f.err
	}
	key, err := fakeKey(params.Key)
	if err != nil {
		return nil, err
	}
	expr := aws.ToString(params.UpdateExpression)
	if !strings.HasPrefix(strings.ToLower(expr), "set ") {
		return nil, fakeValidationError("unsupported update expression: " + expr)
	}
	item, ok := f.items[key]
	if !ok {
		item = map[string]ddbtypes.AttributeValue{}
		for k, v := range params.Key {
			item[k] = v
		}
	}
	for _, assignment := range strings.Split(expr[4:], ",") {
		name, placeholder, err := SplitOnce(assignment, "=")
		if err != nil {
			return nil, fakeValidationError("bad update expression: " + expr)
		}
		name = strings.TrimSpace(name)
		placeholder = strings.TrimSpace(placeholder)
		if strings.HasPrefix(name, "#") {
			resolved, ok := params.ExpressionAttributeNames[name]
			if !ok {
				return nil, fakeValidationError("missing expression attribute name: " + name)
			}
			name = resolved
		}
		value, ok := params.ExpressionAttributeValues[placeholder]
		if !ok {
			return nil, fakeValidationError("missing expression attribute value: " + placeholder)
		}
		item[name] = value
	}
	f.items[key] = item
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamoDB) DescribeTable(_ context.Context, params *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table, ok := f.tables[aws.ToString(params.TableName)]
	if !ok {
		return nil, &ddbtypes.ResourceNotFoundException{Message: aws.String(fmt.Sprintf("Requested resource not found: Table: %s not found", aws.ToString(params.TableName)))}
	}
	if len(f.statuses) > 0 {
		table.TableStatus = f.statuses[0]
		f.statuses = f.statuses[1:]
	}
	return &dynamodb.DescribeTableOutput{Table: table}, nil
}

func (f *fakeDynamoDB) CreateTable(_ context.Context, params *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, params)
	table := &ddbtypes.TableDescription{
		TableName:            params.TableName,
		KeySchema:            params.KeySchema,
		AttributeDefinitions: params.AttributeDefinitions,
		TableStatus:          ddbtypes.TableStatusCreating,
		BillingModeSummary:   &ddbtypes.BillingModeSummary{BillingMode: params.BillingMode},
	}
	f.tables[aws.ToString(params.TableName)] = table
	return &dynamodb.CreateTableOutput{TableDescription: table}, nil
}

func (f *fakeDynamoDB) UpdateTable(_ context.Context, params *dynamodb.UpdateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.altered = append(f.altered, params)
	return &dynamodb.UpdateTableOutput{}, nil
}

func (f *fakeDynamoDB) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
