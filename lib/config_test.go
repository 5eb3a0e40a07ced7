package lib

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv(EnvTableName, "memo_table")
	t.Setenv(EnvUTCOffsetHours, "")
	t.Setenv(EnvDynamoDBEndpoint, "")
	t.Setenv(EnvPort, "")
	conf, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := Config{TableName: "memo_table", UTCOffsetHours: DefaultUTCOffsetHours, Port: DefaultPort}
	if *conf != want {
		t.Errorf("\ngot:\n%#v\nwant:\n%#v\n", *conf, want)
	}
	at := time.Date(2021, 1, 2, 15, 4, 5, 0, time.UTC)
	if FormatMemoTimestamp(at, conf.Location()) != "2021/01/03T00:04:05" {
		t.Errorf("default location should be utc+9")
	}
}

func TestLoadConfigOffset(t *testing.T) {
	type test struct {
		value  string
		offset int
		err    bool
	}
	tests := []test{
		{"0", 0, false},
		{"-5", -5, false},
		{"14", 14, false},
		{"-12", -12, false},
		{"15", 0, true},
		{"-13", 0, true},
		{"nine", 0, true},
	}
	for _, test := range tests {
		t.Setenv(EnvUTCOffsetHours, test.value)
		conf, err := LoadConfig()
		if test.err {
			if err == nil {
				t.Errorf("%s: expected error", test.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.value, err)
			continue
		}
		if conf.UTCOffsetHours != test.offset {
			t.Errorf("%s: got %d want %d", test.value, conf.UTCOffsetHours, test.offset)
		}
	}
}
