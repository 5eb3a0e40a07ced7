package memoapp

import (
	"fmt"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/nathants/memo-app/lib"
	"gopkg.in/yaml.v3"
)

func init() {
	lib.Commands["memo-config"] = memoConfig
	lib.Args["memo-config"] = memoConfigArgs{}
}

type memoConfigArgs struct {
}

func (memoConfigArgs) Description() string {
	return "\nprint the effective config from env and .env\n"
}

type memoConfigOutput struct {
	TableName        string `yaml:"table_name"`
	UTCOffsetHours   int    `yaml:"utc_offset_hours"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint,omitempty"`
	Port             string `yaml:"port"`
	Now              string `yaml:"now"`
}

func memoConfig() {
	var args memoConfigArgs
	arg.MustParse(&args)
	conf, err := lib.LoadConfig()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	data, err := yaml.Marshal(memoConfigOutput{
		TableName:        conf.TableName,
		UTCOffsetHours:   conf.UTCOffsetHours,
		DynamoDBEndpoint: conf.DynamoDBEndpoint,
		Port:             conf.Port,
		Now:              lib.FormatMemoTimestamp(time.Now(), conf.Location()),
	})
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Print(string(data))
}
