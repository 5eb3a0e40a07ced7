package memoapp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/mattn/go-isatty"
	"github.com/nathants/memo-app/lib"
)

func init() {
	lib.Commands["memo-ls"] = memoLs
	lib.Args["memo-ls"] = memoLsArgs{}
}

type memoLsArgs struct {
	Table string `arg:"-t,--table" help:"defaults to $TABLE_NAME"`
	Json  bool   `arg:"-j,--json" help:"print raw records as json lines"`
}

func (memoLsArgs) Description() string {
	return `

list memos

>> memo-app memo-ls
>> memo-app memo-ls --json | jq .memoId

`
}

func memoLs() {
	var args memoLsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	store, conf, err := memoStore(args.Table)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	tty := isatty.IsTerminal(os.Stdout.Fd())
	if args.Json || !tty {
		items, err := store.List(ctx)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		for _, item := range items {
			data, err := json.Marshal(item)
			if err != nil {
				lib.Logger.Fatal("error: ", err)
			}
			fmt.Println(string(data))
		}
		return
	}
	memos, err := store.ListMemos(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	lib.SortMemos(memos)
	now := time.Now()
	for _, memo := range memos {
		fmt.Println(lib.MemoLine(memo, conf.Location(), now, true))
	}
}
