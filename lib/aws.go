package lib

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

const sessionMaxAttempts = 5

var sess *aws.Config
var sessLock sync.Mutex

func Session() *aws.Config {
	sessLock.Lock()
	defer sessLock.Unlock()
	if sess == nil {
		cfg, err := config.LoadDefaultConfig(
			context.Background(),
			config.WithRetryMaxAttempts(sessionMaxAttempts),
		)
		if err != nil {
			panic(err)
		}
		sess = &cfg
	}
	return sess
}

// SessionExplicit builds a config from static credentials, skipping the
// shared config chain. Used for DynamoDB Local and other fixed endpoints.
func SessionExplicit(accessKeyID, accessKeySecret, region string) *aws.Config {
	cfg, err := config.LoadDefaultConfig(
		context.Background(),
		config.WithRegion(region),
		config.WithRetryMaxAttempts(sessionMaxAttempts),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
	)
	if err != nil {
		panic(err)
	}
	return &cfg
}

func Region() string {
	return Session().Region
}
