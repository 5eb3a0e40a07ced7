package memoapp

import (
	"context"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/nathants/memo-app/lib"
)

func init() {
	lib.Commands["infra-url-api"] = infraUrlApi
	lib.Args["infra-url-api"] = infraUrlApiArgs{}
}

type infraUrlApiArgs struct {
	YamlPath   string `arg:"positional,required"`
	LambdaName string `arg:"positional,required"`
}

func (infraUrlApiArgs) Description() string {
	return "\nget the api url of a lambda with an api trigger in infra.yaml\n"
}

func infraUrlApi() {
	var args infraUrlApiArgs
	arg.MustParse(&args)
	ctx := context.Background()
	infraSet, err := lib.InfraParse(args.YamlPath)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	infraLambda, ok := infraSet.Lambda[args.LambdaName]
	if !ok {
		lib.Logger.Println("error: no such lambda:", args.LambdaName)
		os.Exit(1)
	}
	for _, trigger := range infraLambda.Trigger {
		if trigger.Type == "api" {
			url, err := lib.ApiUrl(ctx, lib.ApiClient(), args.LambdaName, lib.Region())
			if err != nil {
				lib.Logger.Fatal("error: ", err)
			}
			fmt.Println(url)
			os.Exit(0)
		}
	}
	lib.Logger.Println("error: lambda has no api trigger:", args.LambdaName)
	os.Exit(1)
}
