package memoapp

import (
	"fmt"

	"github.com/nathants/memo-app/lib"
)

func memoStore(table string) (*lib.MemoStore, *lib.Config, error) {
	conf, err := lib.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if table == "" {
		table = conf.TableName
	}
	if table == "" {
		return nil, nil, fmt.Errorf("missing table, use --table or %s", lib.EnvTableName)
	}
	return lib.NewMemoStore(lib.DynamoDBClient(), table, conf.Location()), conf, nil
}
