package lib

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	infraKeyName     = "name"
	infraKeyLambda   = "lambda"
	infraKeyDynamoDB = "dynamodb"
)

// InfraSet is the parsed infra.yaml: one table and the functions in front of it.
type InfraSet struct {
	Name     string                    `yaml:"name,omitempty"`
	Lambda   map[string]*InfraLambda   `yaml:"lambda,omitempty"`
	DynamoDB map[string]*InfraDynamoDB `yaml:"dynamodb,omitempty"`
}

const (
	infraKeyDynamoDBKey  = "key"
	infraKeyDynamoDBAttr = "attr"
)

type InfraDynamoDB struct {
	Key  []string `json:"key,omitempty"  yaml:"key,omitempty"`
	Attr []string `json:"attr,omitempty" yaml:"attr,omitempty"`
}

const (
	infraKeyLambdaEntrypoint = "entrypoint"
	infraKeyLambdaPolicy     = "policy"
	infraKeyLambdaAllow      = "allow"
	infraKeyLambdaTrigger    = "trigger"
	infraKeyLambdaAttr       = "attr"
	infraKeyLambdaEnv        = "env"

	lambdaAttrMemory  = "memory"
	lambdaAttrTimeout = "timeout"

	lambdaTriggerApi = "api"
)

type InfraLambda struct {
	dir string // parent dir of infra.yaml file

	Entrypoint string          `json:"entrypoint,omitempty" yaml:"entrypoint,omitempty"`
	Policy     []string        `json:"policy,omitempty"     yaml:"policy,omitempty"`
	Allow      []string        `json:"allow,omitempty"      yaml:"allow,omitempty"`
	Attr       []string        `json:"attr,omitempty"       yaml:"attr,omitempty"`
	Env        []string        `json:"env,omitempty"        yaml:"env,omitempty"`
	Trigger    []*InfraTrigger `json:"trigger,omitempty"    yaml:"trigger,omitempty"`
}

// EnvMap returns the lambda's env lines as a map.
func (l *InfraLambda) EnvMap() (map[string]string, error) {
	env := map[string]string{}
	for _, line := range l.Env {
		k, v, err := SplitOnce(line, "=")
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		env[k] = v
	}
	return env, nil
}

const (
	infraKeyTriggerType = "type"
	infraKeyTriggerAttr = "attr"
)

type InfraTrigger struct {
	Type string   `json:"type,omitempty" yaml:"type,omitempty"`
	Attr []string `json:"attr,omitempty" yaml:"attr,omitempty"`
}

func resolveEnvVars(s string) (string, error) {
	for _, variable := range regexp.MustCompile(`(\$\{[^\}]+})`).FindAllString(s, -1) {
		variableName := variable[2 : len(variable)-1]
		variableValue := os.Getenv(variableName)
		if variableValue == "" {
			err := fmt.Errorf("missing environment variable: %s", variableName)
			Logger.Println("error:", err)
			return "", err
		}
		s = strings.Replace(s, variable, variableValue, 1)
	}
	return s, nil
}

func infraParseValidateStrings(kind, k string, v interface{}) error {
	xs, ok := v.([]interface{})
	if !ok {
		err := fmt.Errorf("%s key %s should be type: []string, got: %#v", kind, k, v)
		Logger.Println("error:", err)
		return err
	}
	for _, x := range xs {
		_, ok := x.(string)
		if !ok {
			err := fmt.Errorf("%s key %s should be type: []string, got: %#v", kind, k, v)
			Logger.Println("error:", err)
			return err
		}
	}
	return nil
}

func infraParseValidateDynamoDB(val interface{}) error {
	tables, ok := val.(map[string]interface{})
	if !ok {
		err := fmt.Errorf("infraDynamoDB should be type: map[string]interface{}, got: %#v", val)
		Logger.Println("error:", err)
		return err
	}
	for name, table := range tables {
		fields, ok := table.(map[string]interface{})
		if !ok {
			err := fmt.Errorf("infraDynamoDB should be type: map[string]interface{}, got: %s %#v", name, table)
			Logger.Println("error:", err)
			return err
		}
		for k, v := range fields {
			switch k {
			case infraKeyDynamoDBKey, infraKeyDynamoDBAttr:
				err := infraParseValidateStrings("infraDynamoDB", k, v)
				if err != nil {
					return err
				}
			default:
				err := fmt.Errorf("unknown infraDynamoDB key: %s: %v", k, v)
				Logger.Println("error:", err)
				return err
			}
		}
	}
	return nil
}

func infraParseValidateTrigger(val interface{}) error {
	triggers, ok := val.([]interface{})
	if !ok {
		err := fmt.Errorf("infraTrigger should be type: []interface{}, got: %#v", val)
		Logger.Println("error:", err)
		return err
	}
	for _, trigger := range triggers {
		fields, ok := trigger.(map[string]interface{})
		if !ok {
			err := fmt.Errorf("infraTrigger should be type: map[string]interface{}, got: %#v", trigger)
			Logger.Println("error:", err)
			return err
		}
		for k, v := range fields {
			switch k {
			case infraKeyTriggerType:
				_, ok := v.(string)
				if !ok {
					err := fmt.Errorf("infraTrigger key %s should be type: string, got: %#v", k, v)
					Logger.Println("error:", err)
					return err
				}
			case infraKeyTriggerAttr:
				err := infraParseValidateStrings("infraTrigger", k, v)
				if err != nil {
					return err
				}
			default:
				err := fmt.Errorf("unknown infraTrigger key: %s: %v", k, v)
				Logger.Println("error:", err)
				return err
			}
		}
	}
	return nil
}

func infraParseValidateLambda(val interface{}) error {
	lambdas, ok := val.(map[string]interface{})
	if !ok {
		err := fmt.Errorf("infraLambda should be type: map[string]interface{}, got: %#v", val)
		Logger.Println("error:", err)
		return err
	}
	for name, lambda := range lambdas {
		fields, ok := lambda.(map[string]interface{})
		if !ok {
			err := fmt.Errorf("infraLambda should be type: map[string]interface{}, got: %s %#v", name, lambda)
			Logger.Println("error:", err)
			return err
		}
		for k, v := range fields {
			switch k {
			case infraKeyLambdaEntrypoint:
				x, ok := v.(string)
				if !ok || !strings.HasSuffix(x, ".go") {
					err := fmt.Errorf("infraLambda key %s should be a *.go file, got: %#v", k, v)
					Logger.Println("error:", err)
					return err
				}
			case infraKeyLambdaTrigger:
				err := infraParseValidateTrigger(v)
				if err != nil {
					return err
				}
			case infraKeyLambdaPolicy, infraKeyLambdaAllow, infraKeyLambdaEnv, infraKeyLambdaAttr:
				err := infraParseValidateStrings("infraLambda", k, v)
				if err != nil {
					return err
				}
			default:
				err := fmt.Errorf("unknown infraLambda key: %s: %v", k, v)
				Logger.Println("error:", err)
				return err
			}
		}
	}
	return nil
}

func InfraParse(yamlPath string) (*InfraSet, error) {
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	yamlPath, err = filepath.Abs(yamlPath)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return InfraParseBytes(data, path.Dir(yamlPath))
}

// InfraParseBytes validates an infra.yaml document. Entrypoints are resolved
// relative to dir.
func InfraParseBytes(data []byte, dir string) (*InfraSet, error) {
	resolved, err := resolveEnvVars(string(data))
	if err != nil {
		return nil, err
	}
	val := make(map[string]interface{})
	err = yaml.Unmarshal([]byte(resolved), &val)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	for k, v := range val {
		switch k {
		case infraKeyName:
			name, ok := v.(string)
			if !ok || name == "" {
				err := fmt.Errorf("infraSet name cannot be empty")
				Logger.Println("error:", err)
				return nil, err
			}
		case infraKeyLambda:
			err := infraParseValidateLambda(v)
			if err != nil {
				return nil, err
			}
		case infraKeyDynamoDB:
			err := infraParseValidateDynamoDB(v)
			if err != nil {
				return nil, err
			}
		default:
			err := fmt.Errorf("unknown infra key: %s: %v", k, v)
			Logger.Println("error:", err)
			return nil, err
		}
	}
	infraSet := &InfraSet{}
	err = yaml.Unmarshal([]byte(resolved), infraSet)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	if infraSet.Name == "" {
		err := fmt.Errorf("infraSet name cannot be empty")
		Logger.Println("error:", err)
		return nil, err
	}
	for tableName, table := range infraSet.DynamoDB {
		_, err := DynamoDBEnsureInput(infraSet.Name, tableName, table.Key, table.Attr)
		if err != nil {
			return nil, err
		}
	}
	for name, infraLambda := range infraSet.Lambda {
		infraLambda.dir = dir
		if infraLambda.Entrypoint == "" {
			err := fmt.Errorf("missing entrypoint for lambda: %s", name)
			Logger.Println("error:", err)
			return nil, err
		}
		infraLambda.Entrypoint = path.Join(infraLambda.dir, infraLambda.Entrypoint)
		for _, attr := range infraLambda.Attr {
			k, v, err := SplitOnce(attr, "=")
			if err != nil {
				Logger.Println("error:", err)
				return nil, err
			}
			validAttrs := []string{lambdaAttrMemory, lambdaAttrTimeout}
			if !Contains(validAttrs, k) {
				err := fmt.Errorf("unknown attr: %s", k)
				Logger.Println("error:", err)
				return nil, err
			}
			if !IsDigit(v) {
				err := fmt.Errorf("conf value should be digits: %s %s", k, v)
				Logger.Println("error:", err)
				return nil, err
			}
		}
		for _, trigger := range infraLambda.Trigger {
			if trigger.Type != lambdaTriggerApi {
				err := fmt.Errorf("unknown trigger: %#v", trigger)
				Logger.Println("error:", err)
				return nil, err
			}
		}
		env, err := infraLambda.EnvMap()
		if err != nil {
			return nil, err
		}
		if table, ok := env[EnvTableName]; ok {
			if _, ok := infraSet.DynamoDB[table]; !ok {
				err := fmt.Errorf("lambda %s uses %s=%s which is not a table in this infra set", name, EnvTableName, table)
				Logger.Println("error:", err)
				return nil, err
			}
		}
	}
	return infraSet, nil
}

// InfraEnsureDynamoDB ensures every table in the set, in name order.
func InfraEnsureDynamoDB(ctx context.Context, client DynamoDBAPI, infraSet *InfraSet, preview bool) error {
	var names []string
	for tableName := range infraSet.DynamoDB {
		names = append(names, tableName)
	}
	sort.Strings(names)
	for _, tableName := range names {
		infraDynamoDB := infraSet.DynamoDB[tableName]
		input, err := DynamoDBEnsureInput(infraSet.Name, tableName, infraDynamoDB.Key, infraDynamoDB.Attr)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		err = DynamoDBEnsure(ctx, client, input, preview)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
	}
	return nil
}
