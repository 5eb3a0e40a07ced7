package lib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/r3labs/diff/v2"
)

const (
	infraSetTagName = "memo-app.infraset"

	dynamoDBLocalRegion = "us-east-1"
)

// DynamoDBAPI is the subset of *dynamodb.Client used by this module.
type DynamoDBAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	UpdateTable(ctx context.Context, params *dynamodb.UpdateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateTableOutput, error)
}

var dynamoDBClient *dynamodb.Client
var dynamoDBClientLock sync.Mutex

// DynamoDBClient returns the process wide client. When DYNAMODB_ENDPOINT is
// set the client targets that endpoint with static local credentials.
func DynamoDBClient() *dynamodb.Client {
	dynamoDBClientLock.Lock()
	defer dynamoDBClientLock.Unlock()
	if dynamoDBClient == nil {
		endpoint := os.Getenv(EnvDynamoDBEndpoint)
		if endpoint == "" {
			dynamoDBClient = dynamodb.NewFromConfig(*Session())
		} else {
			region := getEnvOrDefault("AWS_REGION", dynamoDBLocalRegion)
			dynamoDBClient = dynamodb.NewFromConfig(*SessionExplicit("local", "local", region), func(o *dynamodb.Options) {
				o.BaseEndpoint = aws.String(endpoint)
			})
		}
	}
	return dynamoDBClient
}

func dynamoDBTableAttrShortcut(s string) string {
	s2, ok := map[string]string{
		"read":   "ProvisionedThroughput.ReadCapacityUnits",
		"write":  "ProvisionedThroughput.WriteCapacityUnits",
		"stream": "StreamSpecification.StreamViewType",
	}[s]
	if ok {
		return s2
	}
	return s
}

// DynamoDBEnsureInput builds a CreateTableInput from keys like "memoId:s:hash"
// and attrs like "read=5" or "Tags.0.Key=owner".
func DynamoDBEnsureInput(infraSetName, tableName string, keys []string, attrs []string) (*dynamodb.CreateTableInput, error) {
	input := &dynamodb.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: ddbtypes.BillingModePayPerRequest,
	}
	if len(keys) == 0 {
		err := fmt.Errorf("table %s needs at least one key", tableName)
		Logger.Println("error:", err)
		return nil, err
	}
	for _, key := range keys {
		attrName, attrType, keyType, err := SplitTwice(key, ":")
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		attrType = strings.ToUpper(attrType)
		keyType = strings.ToUpper(keyType)
		if !Contains([]string{"S", "N", "B"}, attrType) {
			err := fmt.Errorf("unknown attribute type: %s", key)
			Logger.Println("error:", err)
			return nil, err
		}
		if !Contains([]string{"HASH", "RANGE"}, keyType) {
			err := fmt.Errorf("unknown key type: %s", key)
			Logger.Println("error:", err)
			return nil, err
		}
		input.KeySchema = append(input.KeySchema, ddbtypes.KeySchemaElement{
			AttributeName: aws.String(attrName),
			KeyType:       ddbtypes.KeyType(keyType),
		})
		input.AttributeDefinitions = append(input.AttributeDefinitions, ddbtypes.AttributeDefinition{
			AttributeName: aws.String(attrName),
			AttributeType: ddbtypes.ScalarAttributeType(attrType),
		})
	}
	for _, line := range attrs {
		attr, value, err := SplitOnce(line, "=")
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		head, tail, err := SplitOnce(dynamoDBTableAttrShortcut(attr), ".")
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		switch head {
		case "ProvisionedThroughput":
			units, err := strconv.Atoi(value)
			if err != nil {
				Logger.Println("error:", err)
				return nil, err
			}
			if input.ProvisionedThroughput == nil {
				input.ProvisionedThroughput = &ddbtypes.ProvisionedThroughput{}
			}
			input.BillingMode = ddbtypes.BillingModeProvisioned
			switch tail {
			case "ReadCapacityUnits":
				input.ProvisionedThroughput.ReadCapacityUnits = aws.Int64(int64(units))
			case "WriteCapacityUnits":
				input.ProvisionedThroughput.WriteCapacityUnits = aws.Int64(int64(units))
			default:
				err := fmt.Errorf("unknown attr: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}
		case "StreamSpecification":
			if tail != "StreamViewType" {
				err := fmt.Errorf("unknown attr: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}
			input.StreamSpecification = &ddbtypes.StreamSpecification{
				StreamEnabled:  aws.Bool(true),
				StreamViewType: ddbtypes.StreamViewType(strings.ToUpper(value)),
			}
		case "SSESpecification":
			if tail != "KMSMasterKeyId" {
				err := fmt.Errorf("unknown attr: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}
			input.SSESpecification = &ddbtypes.SSESpecification{
				Enabled:        aws.Bool(true),
				KMSMasterKeyId: aws.String(value),
				SSEType:        ddbtypes.SSETypeKms,
			}
		case "Tags":
			index, field, err := SplitOnce(tail, ".")
			if err != nil {
				Logger.Println("error:", err)
				return nil, err
			}
			i, err := strconv.Atoi(index)
			if err != nil {
				Logger.Println("error:", err)
				return nil, err
			}
			switch len(input.Tags) {
			case i:
				input.Tags = append(input.Tags, ddbtypes.Tag{})
			case i + 1:
			default:
				err := fmt.Errorf("attrs with indices must be in ascending order: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}
			switch field {
			case "Key":
				input.Tags[i].Key = aws.String(value)
			case "Value":
				input.Tags[i].Value = aws.String(value)
			default:
				err := fmt.Errorf("unknown attr: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}
		default:
			err := fmt.Errorf("unknown attr: %s", line)
			Logger.Println("error:", err)
			return nil, err
		}
	}
	if input.ProvisionedThroughput != nil && (input.ProvisionedThroughput.ReadCapacityUnits == nil || input.ProvisionedThroughput.WriteCapacityUnits == nil) {
		err := fmt.Errorf("provisioned tables need both read and write capacity: %s", tableName)
		Logger.Println("error:", err)
		return nil, err
	}
	if infraSetName != "" {
		input.Tags = append(input.Tags, ddbtypes.Tag{
			Key:   aws.String(infraSetTagName),
			Value: aws.String(infraSetName),
		})
	}
	return input, nil
}

type dynamoDBTableShape struct {
	Keys        []string `diff:"keys"`
	BillingMode string   `diff:"billing"`
}

func dynamoDBShapeFromInput(input *dynamodb.CreateTableInput) dynamoDBTableShape {
	return dynamoDBTableShape{
		Keys:        dynamoDBKeys(input.KeySchema, input.AttributeDefinitions),
		BillingMode: string(input.BillingMode),
	}
}

func dynamoDBShapeFromTable(table *ddbtypes.TableDescription) dynamoDBTableShape {
	shape := dynamoDBTableShape{
		Keys:        dynamoDBKeys(table.KeySchema, table.AttributeDefinitions),
		BillingMode: string(ddbtypes.BillingModeProvisioned),
	}
	if table.BillingModeSummary != nil && table.BillingModeSummary.BillingMode != "" {
		shape.BillingMode = string(table.BillingModeSummary.BillingMode)
	}
	return shape
}

// DynamoDBTableKeys formats a table's key schema the way keys are given to
// DynamoDBEnsureInput, lowercased and sorted.
func DynamoDBTableKeys(table *ddbtypes.TableDescription) []string {
	return dynamoDBKeys(table.KeySchema, table.AttributeDefinitions)
}

func dynamoDBKeys(schema []ddbtypes.KeySchemaElement, defs []ddbtypes.AttributeDefinition) []string {
	types := map[string]string{}
	for _, def := range defs {
		types[aws.ToString(def.AttributeName)] = string(def.AttributeType)
	}
	var keys []string
	for _, elem := range schema {
		name := aws.ToString(elem.AttributeName)
		keys = append(keys, strings.ToLower(fmt.Sprintf("%s:%s:%s", name, types[name], elem.KeyType)))
	}
	sort.Strings(keys)
	return keys
}

// DynamoDBEnsure creates the table if missing. An existing table may have its
// billing mode updated; key schema changes are refused.
func DynamoDBEnsure(ctx context.Context, client DynamoDBAPI, input *dynamodb.CreateTableInput, preview bool) error {
	if doDebug {
		d := &Debug{start: time.Now(), name: "DynamoDBEnsure"}
		defer d.Log()
	}
	tableName := aws.ToString(input.TableName)
	out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: input.TableName,
	})
	if err != nil {
		var notFound *ddbtypes.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			Logger.Println("error:", err)
			return err
		}
		if !preview {
			_, err := client.CreateTable(ctx, input)
			if err != nil {
				Logger.Println("error:", err)
				return err
			}
			err = DynamoDBWaitForActive(ctx, client, tableName)
			if err != nil {
				Logger.Println("error:", err)
				return err
			}
		}
		Logger.Println(PreviewString(preview)+"created table:", tableName)
		return nil
	}
	changes, err := diff.Diff(dynamoDBShapeFromTable(out.Table), dynamoDBShapeFromInput(input))
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	billingChanged := false
	for _, change := range changes {
		switch change.Path[0] {
		case "keys":
			err := fmt.Errorf("cannot change keys of table %s: %s %v -> %v", tableName, change.Type, change.From, change.To)
			Logger.Println("error:", err)
			return err
		case "billing":
			billingChanged = true
			Logger.Println(PreviewString(preview)+"update table billing:", tableName, change.From, "->", change.To)
		}
	}
	if billingChanged && !preview {
		_, err := client.UpdateTable(ctx, &dynamodb.UpdateTableInput{
			TableName:             input.TableName,
			BillingMode:           input.BillingMode,
			ProvisionedThroughput: input.ProvisionedThroughput,
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
	}
	return nil
}

var dynamoDBWaitDelay = time.Second

const dynamoDBWaitAttempts = 120

func DynamoDBWaitForActive(ctx context.Context, client DynamoDBAPI, tableName string) error {
	return retry.Do(
		func() error {
			out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
				TableName: aws.String(tableName),
			})
			if err != nil {
				return err
			}
			if out.Table.TableStatus != ddbtypes.TableStatusActive {
				return fmt.Errorf("table %s not active: %s", tableName, out.Table.TableStatus)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(dynamoDBWaitAttempts),
		retry.Delay(dynamoDBWaitDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
