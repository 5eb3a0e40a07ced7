package memoapp

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/nathants/memo-app/lib"
)

func init() {
	lib.Commands["memo-serve"] = memoServe
	lib.Args["memo-serve"] = memoServeArgs{}
}

type memoServeArgs struct {
	Port  string `arg:"-p,--port" help:"defaults to $PORT or 8080"`
	Table string `arg:"-t,--table" help:"defaults to $TABLE_NAME"`
}

func (memoServeArgs) Description() string {
	return `

serve the memo api over http for local development

>> DYNAMODB_ENDPOINT=http://localhost:8000 memo-app memo-serve --table memo_table
>> curl -X POST localhost:8080/item -d '{"imageData": "abc123"}'
>> curl localhost:8080/items

`
}

func memoServe() {
	var args memoServeArgs
	arg.MustParse(&args)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	store, conf, err := memoStore(args.Table)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	port := args.Port
	if port == "" {
		port = conf.Port
	}
	err = lib.MemoServe(ctx, ":"+port, lib.NewMemoApi(store))
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
