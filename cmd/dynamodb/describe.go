package memoapp

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dustin/go-humanize"
	"github.com/nathants/memo-app/lib"
)

func init() {
	lib.Commands["dynamodb-describe"] = dynamodbDescribe
	lib.Args["dynamodb-describe"] = dynamodbDescribeArgs{}
}

type dynamodbDescribeArgs struct {
	Table string `arg:"positional" help:"defaults to $TABLE_NAME"`
}

func (dynamodbDescribeArgs) Description() string {
	return "\ndescribe the memo table: keys, status, billing, item count\n"
}

func dynamodbDescribe() {
	var args dynamodbDescribeArgs
	arg.MustParse(&args)
	ctx := context.Background()
	if args.Table == "" {
		conf, err := lib.LoadConfig()
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		args.Table = conf.TableName
	}
	if args.Table == "" {
		lib.Logger.Fatal("error: ", "table name required, pass it or set "+lib.EnvTableName)
	}
	out, err := lib.DynamoDBClient().DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(args.Table),
	})
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, key := range lib.DynamoDBTableKeys(out.Table) {
		fmt.Println("key:", key)
	}
	fmt.Println("status:", out.Table.TableStatus)
	if out.Table.BillingModeSummary != nil {
		fmt.Println("billing:", out.Table.BillingModeSummary.BillingMode)
	}
	fmt.Println("items:", humanize.Comma(aws.ToInt64(out.Table.ItemCount)))
	fmt.Println("size:", humanize.Bytes(uint64(aws.ToInt64(out.Table.TableSizeBytes))))
}
