package memoapp

import (
	"context"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/nathants/memo-app/lib"
)

func init() {
	lib.Commands["dynamodb-ensure"] = dynamodbEnsure
	lib.Args["dynamodb-ensure"] = dynamodbEnsureArgs{}
}

type dynamodbEnsureArgs struct {
	Name    string   `arg:"positional,required"`
	Attrs   []string `arg:"positional,required"`
	Preview bool     `arg:"-p,--preview"`
}

func (dynamodbEnsureArgs) Description() string {
	return `
ensure a dynamodb table

example:
 - memo-app dynamodb-ensure memo_table memoId:s:hash Tags.0.Key=owner Tags.0.Value=memo

required attrs:
 - NAME:ATTR_TYPE:KEY_TYPE

optional attrs:
 - SSESpecification.KMSMasterKeyId=VALUE

 - ProvisionedThroughput.ReadCapacityUnits=VALUE
 - ProvisionedThroughput.WriteCapacityUnits=VALUE

 - StreamSpecification.StreamViewType=VALUE

 - Tags.INTEGER.Key=VALUE
 - Tags.INTEGER.Value=VALUE
`
}

func dynamodbEnsure() {
	var args dynamodbEnsureArgs
	arg.MustParse(&args)
	ctx := context.Background()
	var keys []string
	var attrs []string
	for _, param := range args.Attrs {
		if strings.Contains(param, "=") {
			attrs = append(attrs, param)
		} else {
			keys = append(keys, param)
		}
	}
	input, err := lib.DynamoDBEnsureInput("", args.Name, keys, attrs)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	err = lib.DynamoDBEnsure(ctx, lib.DynamoDBClient(), input, args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
