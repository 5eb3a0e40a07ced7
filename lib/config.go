package lib

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvTableName        = "TABLE_NAME"
	EnvUTCOffsetHours   = "MEMO_UTC_OFFSET_HOURS"
	EnvDynamoDBEndpoint = "DYNAMODB_ENDPOINT"
	EnvPort             = "PORT"

	DefaultUTCOffsetHours = 9
	DefaultPort           = "8080"
)

type Config struct {
	TableName        string
	UTCOffsetHours   int
	DynamoDBEndpoint string
	Port             string
}

// LoadConfig reads the environment, after an optional .env in the working
// directory. Values already in the environment win over .env.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	conf := &Config{
		TableName:        os.Getenv(EnvTableName),
		UTCOffsetHours:   DefaultUTCOffsetHours,
		DynamoDBEndpoint: os.Getenv(EnvDynamoDBEndpoint),
		Port:             getEnvOrDefault(EnvPort, DefaultPort),
	}
	if val := os.Getenv(EnvUTCOffsetHours); val != "" {
		hours, err := strconv.Atoi(val)
		if err != nil {
			err := fmt.Errorf("%s should be an integer, got: %q", EnvUTCOffsetHours, val)
			Logger.Println("error:", err)
			return nil, err
		}
		if hours < -12 || hours > 14 {
			err := fmt.Errorf("%s out of range [-12, 14]: %d", EnvUTCOffsetHours, hours)
			Logger.Println("error:", err)
			return nil, err
		}
		conf.UTCOffsetHours = hours
	}
	return conf, nil
}

func (c *Config) Location() *time.Location {
	return MemoLocation(c.UTCOffsetHours)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
