package lib

import (
	"context"
	"path"
	"reflect"
	"testing"

	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestInfraParseRepoFile(t *testing.T) {
	infraSet, err := InfraParse("../infra.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if infraSet.Name != "memo-app" {
		t.Errorf("bad name: %s", infraSet.Name)
	}
	table, ok := infraSet.DynamoDB["memo_table"]
	if !ok || !reflect.DeepEqual(table.Key, []string{"memoId:s:hash"}) {
		t.Errorf("bad table: %#v", infraSet.DynamoDB)
	}
	for _, name := range []string{"memo-app-list", "memo-app-create", "memo-app-complete"} {
		infraLambda, ok := infraSet.Lambda[name]
		if !ok {
			t.Errorf("missing lambda: %s", name)
			continue
		}
		if !path.IsAbs(infraLambda.Entrypoint) {
			t.Errorf("%s: entrypoint should be resolved: %s", name, infraLambda.Entrypoint)
		}
		env, err := infraLambda.EnvMap()
		if err != nil {
			t.Fatal(err)
		}
		if env[EnvTableName] != "memo_table" {
			t.Errorf("%s: bad env: %#v", name, env)
		}
		if len(infraLambda.Trigger) != 1 || infraLambda.Trigger[0].Type != lambdaTriggerApi {
			t.Errorf("%s: bad trigger: %#v", name, infraLambda.Trigger)
		}
	}
}

func TestInfraParseBytes(t *testing.T) {
	type test struct {
		name string
		yaml string
		err  bool
	}
	tests := []test{
		{"minimal", "name: x\ndynamodb:\n  t:\n    key: ['id:s:hash']\n", false},
		{"env var", "name: ${MEMO_TEST_INFRA_NAME}\n", false},
		{"missing env var", "name: ${MEMO_TEST_INFRA_MISSING}\n", true},
		{"no name", "dynamodb:\n  t:\n    key: ['id:s:hash']\n", true},
		{"unknown top key", "name: x\ns3: {}\n", true},
		{"bad key type", "name: x\ndynamodb:\n  t:\n    key: ['id:q:hash']\n", true},
		{"unknown table field", "name: x\ndynamodb:\n  t:\n    keys: [id:s:hash]\n", true},
		{"key not a list", "name: x\ndynamodb:\n  t:\n    key: id:s:hash\n", true},
		{"entrypoint not go", "name: x\nlambda:\n  f:\n    entrypoint: main.py\n", true},
		{"missing entrypoint", "name: x\nlambda:\n  f:\n    attr: [memory=128]\n", true},
		{"bad attr", "name: x\nlambda:\n  f:\n    entrypoint: main.go\n    attr: [disk=1]\n", true},
		{"non digit attr", "name: x\nlambda:\n  f:\n    entrypoint: main.go\n    attr: [memory=lots]\n", true},
		{"concurrency attr", "name: x\nlambda:\n  f:\n    entrypoint: main.go\n    attr: [concurrency=1]\n", true},
		{"logs ttl attr", "name: x\nlambda:\n  f:\n    entrypoint: main.go\n    attr: [logs-ttl-days=7]\n", true},
		{"cloudwatch trigger", "name: x\nlambda:\n  f:\n    entrypoint: main.go\n    trigger: [{type: cloudwatch}]\n", true},
		{"bad trigger", "name: x\nlambda:\n  f:\n    entrypoint: main.go\n    trigger: [{type: sqs}]\n", true},
		{"undeclared table", "name: x\nlambda:\n  f:\n    entrypoint: main.go\n    env: [TABLE_NAME=nope]\n", true},
		{"declared table", "name: x\ndynamodb:\n  t:\n    key: ['id:s:hash']\nlambda:\n  f:\n    entrypoint: main.go\n    env: [TABLE_NAME=t]\n", false},
	}
	t.Setenv("MEMO_TEST_INFRA_NAME", "from-env")
	for _, test := range tests {
		infraSet, err := InfraParseBytes([]byte(test.yaml), "/tmp")
		if test.err {
			if err == nil {
				t.Errorf("%s: expected error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if test.name == "env var" && infraSet.Name != "from-env" {
			t.Errorf("%s: got name %s", test.name, infraSet.Name)
		}
		if test.name == "declared table" && infraSet.Lambda["f"].Entrypoint != "/tmp/main.go" {
			t.Errorf("%s: got entrypoint %s", test.name, infraSet.Lambda["f"].Entrypoint)
		}
	}
}

func TestInfraEnsureDynamoDB(t *testing.T) {
	withFastDynamoDBWait(t)
	infraSet, err := InfraParseBytes([]byte("name: x\ndynamodb:\n  b:\n    key: ['id:s:hash']\n  a:\n    key: ['id:s:hash']\n"), "/tmp")
	if err != nil {
		t.Fatal(err)
	}
	db := newFakeDynamoDB()
	db.statuses = []ddbtypes.TableStatus{ddbtypes.TableStatusActive, ddbtypes.TableStatusActive}
	err = InfraEnsureDynamoDB(context.Background(), db, infraSet, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(db.created) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(db.created))
	}
	if *db.created[0].TableName != "a" || *db.created[1].TableName != "b" {
		t.Errorf("tables should be created in name order")
	}
}
