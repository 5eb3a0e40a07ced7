package memoapp

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/nathants/memo-app/lib"
)

func init() {
	lib.Commands["memo-new"] = memoNew
	lib.Args["memo-new"] = memoNewArgs{}
}

type memoNewArgs struct {
	ImageData string `arg:"positional" help:"opaque image payload"`
	File      string `arg:"-f,--file" help:"read the image from a file and base64 encode it"`
	Table     string `arg:"-t,--table" help:"defaults to $TABLE_NAME"`
}

func (memoNewArgs) Description() string {
	return `

create a memo and print its memoId

>> memo-app memo-new aGVsbG8=
>> memo-app memo-new --file sketch.png

`
}

func memoNew() {
	var args memoNewArgs
	arg.MustParse(&args)
	ctx := context.Background()
	store, _, err := memoStore(args.Table)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	input := map[string]any{}
	switch {
	case args.File != "" && args.ImageData != "":
		lib.Logger.Fatal("error: ", "use either IMAGEDATA or --file, not both")
	case args.File != "":
		data, err := os.ReadFile(args.File)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		input[lib.MemoKeyImageData] = base64.StdEncoding.EncodeToString(data)
	case args.ImageData != "":
		input[lib.MemoKeyImageData] = args.ImageData
	}
	record, err := store.Create(ctx, input)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(record[lib.MemoKeyID])
}
