package lib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const memoCompleteExpression = "set #status = :status, doneAt = :doneAt"

// MemoStore reads and writes memo records in a single DynamoDB table keyed
// by memoId. Each method is exactly one logical store operation.
type MemoStore struct {
	client DynamoDBAPI
	table  string
	loc    *time.Location
	now    func() time.Time
	newID  func() (string, error)
}

func NewMemoStore(client DynamoDBAPI, table string, loc *time.Location) *MemoStore {
	return &MemoStore{
		client: client,
		table:  table,
		loc:    loc,
		now:    time.Now,
		newID:  NewMemoID,
	}
}

func (s *MemoStore) Table() string {
	return s.table
}

func (s *MemoStore) scan(ctx context.Context, page func([]map[string]ddbtypes.AttributeValue) error) error {
	var start map[string]ddbtypes.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: start,
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		err = page(out.Items)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		start = out.LastEvaluatedKey
	}
}

// List scans the whole table with strong consistency. Items are returned as
// stored, so pending and completed records differ in which keys they have.
func (s *MemoStore) List(ctx context.Context) ([]map[string]any, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "MemoStore.List"}
		defer d.Log()
	}
	items := []map[string]any{}
	err := s.scan(ctx, func(avs []map[string]ddbtypes.AttributeValue) error {
		var page []map[string]any
		err := attributevalue.UnmarshalListOfMaps(avs, &page)
		if err != nil {
			return err
		}
		items = append(items, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListMemos is List decoded into the typed view.
func (s *MemoStore) ListMemos(ctx context.Context) ([]Memo, error) {
	var memos []Memo
	err := s.scan(ctx, func(avs []map[string]ddbtypes.AttributeValue) error {
		var page []Memo
		err := attributevalue.UnmarshalListOfMaps(avs, &page)
		if err != nil {
			return err
		}
		memos = append(memos, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return memos, nil
}

// Create inserts a new record with a fresh memoId and createdAt. imageData is
// taken from input as whatever json value the caller sent. A missing key
// leaves the attribute out, an explicit null is stored as NULL.
func (s *MemoStore) Create(ctx context.Context, input map[string]any) (map[string]any, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "MemoStore.Create"}
		defer d.Log()
	}
	id, err := s.newID()
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	record := map[string]any{
		MemoKeyID:        id,
		MemoKeyCreatedAt: FormatMemoTimestamp(s.now(), s.loc),
	}
	imageData, hasImageData := input[MemoKeyImageData]
	if hasImageData && imageData != nil {
		record[MemoKeyImageData] = imageData
	}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	if hasImageData && imageData == nil {
		record[MemoKeyImageData] = nil
		item[MemoKeyImageData] = &ddbtypes.AttributeValueMemberNULL{Value: true}
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return record, nil
}

// Complete sets status and doneAt on the record. The record is not checked
// for existence first, and an empty memoId is passed to the store as is.
func (s *MemoStore) Complete(ctx context.Context, memoID string) (string, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "MemoStore.Complete"}
		defer d.Log()
	}
	doneAt := FormatMemoTimestamp(s.now(), s.loc)
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]ddbtypes.AttributeValue{
			MemoKeyID: &ddbtypes.AttributeValueMemberS{Value: memoID},
		},
		UpdateExpression: aws.String(memoCompleteExpression),
		ExpressionAttributeNames: map[string]string{
			"#status": MemoKeyStatus,
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":status": &ddbtypes.AttributeValueMemberS{Value: MemoStatusCompleted},
			":doneAt": &ddbtypes.AttributeValueMemberS{Value: doneAt},
		},
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	return doneAt, nil
}

var memoStore *MemoStore
var memoStoreLock sync.Mutex

// MemoStoreDefault returns the process wide store, built from the
// environment on first use.
func MemoStoreDefault() (*MemoStore, error) {
	memoStoreLock.Lock()
	defer memoStoreLock.Unlock()
	if memoStore == nil {
		conf, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		if conf.TableName == "" {
			err := fmt.Errorf("missing environment variable: %s", EnvTableName)
			Logger.Println("error:", err)
			return nil, err
		}
		memoStore = NewMemoStore(DynamoDBClient(), conf.TableName, conf.Location())
	}
	return memoStore, nil
}
