package lib

import (
	"regexp"
	"testing"
	"time"
)

var memoTimestampRe = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}T\d{2}:\d{2}:\d{2}$`)

var memoUUIDv4Re = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestFormatMemoTimestamp(t *testing.T) {
	type test struct {
		input  time.Time
		offset int
		output string
	}
	tests := []test{
		{time.Date(2021, 1, 2, 15, 4, 5, 0, time.UTC), 9, "2021/01/03T00:04:05"},
		{time.Date(2021, 12, 31, 14, 59, 59, 0, time.UTC), 9, "2021/12/31T23:59:59"},
		{time.Date(2021, 12, 31, 15, 0, 0, 0, time.UTC), 9, "2022/01/01T00:00:00"},
		{time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC), 0, "2021/03/04T05:06:07"},
		{time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC), -5, "2021/03/04T00:06:07"},
		{time.Date(2021, 3, 4, 5, 6, 7, 0, time.FixedZone("X", -3*60*60)), 9, "2021/03/04T17:06:07"},
	}
	for _, test := range tests {
		output := FormatMemoTimestamp(test.input, MemoLocation(test.offset))
		if output != test.output {
			t.Errorf("got:\n%s\nwant:\n%s\n", output, test.output)
		}
		if !memoTimestampRe.MatchString(output) {
			t.Errorf("malformed timestamp: %s", output)
		}
	}
}

func TestParseMemoTimestamp(t *testing.T) {
	loc := MemoLocation(DefaultUTCOffsetHours)
	parsed, err := ParseMemoTimestamp("2021/01/03T00:04:05", loc)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2021, 1, 2, 15, 4, 5, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Errorf("got: %s want: %s", parsed, want)
	}
	_, err = ParseMemoTimestamp("2021-01-03 00:04:05", loc)
	if err == nil {
		t.Errorf("expected error")
	}
}

func TestNewMemoID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id, err := NewMemoID()
		if err != nil {
			t.Fatal(err)
		}
		if !memoUUIDv4Re.MatchString(id) {
			t.Errorf("not a v4 uuid: %s", id)
		}
		if seen[id] {
			t.Errorf("duplicate id: %s", id)
		}
		seen[id] = true
	}
}

func TestMemoPending(t *testing.T) {
	type test struct {
		memo    Memo
		pending bool
	}
	tests := []test{
		{Memo{MemoID: "a"}, true},
		{Memo{MemoID: "a", Status: "something"}, true},
		{Memo{MemoID: "a", Status: MemoStatusCompleted, DoneAt: "2021/01/03T00:04:05"}, false},
	}
	for _, test := range tests {
		if test.memo.Pending() != test.pending {
			t.Errorf("got: %v want: %v for %#v", test.memo.Pending(), test.pending, test.memo)
		}
	}
}
