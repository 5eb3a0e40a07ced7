package memoapp

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/nathants/memo-app/lib"
	"golang.org/x/sync/errgroup"
)

func init() {
	lib.Commands["memo-complete"] = memoComplete
	lib.Args["memo-complete"] = memoCompleteArgs{}
}

type memoCompleteArgs struct {
	MemoIDs     []string `arg:"positional,required"`
	Table       string   `arg:"-t,--table" help:"defaults to $TABLE_NAME"`
	Concurrency int      `arg:"-c,--concurrency" default:"8"`
}

func (memoCompleteArgs) Description() string {
	return `

mark memos completed

>> memo-app memo-complete 0b8a5f8e-6c1d-4f5e-9a57-2f0f1c3c2a11

`
}

func memoComplete() {
	var args memoCompleteArgs
	arg.MustParse(&args)
	ctx := context.Background()
	store, _, err := memoStore(args.Table)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	doneAt := make([]string, len(args.MemoIDs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, args.Concurrency))
	for i, memoID := range args.MemoIDs {
		i, memoID := i, memoID
		eg.Go(func() error {
			at, err := store.Complete(ctx, memoID)
			if err != nil {
				return err
			}
			doneAt[i] = at
			return nil
		})
	}
	err = eg.Wait()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for i, memoID := range args.MemoIDs {
		fmt.Println(memoID, doneAt[i])
	}
}
