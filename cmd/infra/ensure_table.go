package memoapp

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/nathants/memo-app/lib"
)

func init() {
	lib.Commands["infra-ensure-table"] = infraEnsureTable
	lib.Args["infra-ensure-table"] = infraEnsureTableArgs{}
}

type infraEnsureTableArgs struct {
	YamlPath string `arg:"positional" default:"infra.yaml"`
	Preview  bool   `arg:"-p,--preview"`
}

func (infraEnsureTableArgs) Description() string {
	return `

ensure the dynamodb tables named in an infra.yaml file

>> memo-app infra-ensure-table infra.yaml --preview

`
}

func infraEnsureTable() {
	var args infraEnsureTableArgs
	arg.MustParse(&args)
	ctx := context.Background()
	infraSet, err := lib.InfraParse(args.YamlPath)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	err = lib.InfraEnsureDynamoDB(ctx, lib.DynamoDBClient(), infraSet, args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
