package lib

import (
	"testing"
)

func TestSplitOnce(t *testing.T) {
	type test struct {
		input string
		head  string
		tail  string
		err   bool
	}
	tests := []test{
		{"a", "", "", true},
		{"a.b", "a", "b", false},
		{"a.b.c", "a", "b.c", false},
		{".", "", "", false},
	}
	for _, test := range tests {
		head, tail, err := SplitOnce(test.input, ".")
		if test.err {
			if err == nil {
				t.Errorf("\nexpected error: %s", test.input)
			}
			continue
		}
		if head != test.head || tail != test.tail {
			t.Errorf("\ngot:\n%s %s\nwant:\n%s %s\n", head, tail, test.head, test.tail)
		}
	}
}

func TestSplitTwice(t *testing.T) {
	type test struct {
		input string
		head  string
		mid   string
		tail  string
		err   bool
	}
	tests := []test{
		{"memoId:s", "", "", "", true},
		{"memoId:s:hash", "memoId", "s", "hash", false},
		{"a:b:c:d", "a", "b", "c:d", false},
	}
	for _, test := range tests {
		head, mid, tail, err := SplitTwice(test.input, ":")
		if test.err {
			if err == nil {
				t.Errorf("\nexpected error: %s", test.input)
			}
			continue
		}
		if head != test.head || mid != test.mid || tail != test.tail {
			t.Errorf("\ngot:\n%s %s %s\nwant:\n%s %s %s\n", head, mid, tail, test.head, test.mid, test.tail)
		}
	}
}

func TestIsDigit(t *testing.T) {
	type test struct {
		input  string
		output bool
	}
	tests := []test{
		{"", false},
		{"128", true},
		{"12a", false},
		{"-1", false},
		{"٣", false},
	}
	for _, test := range tests {
		if IsDigit(test.input) != test.output {
			t.Errorf("%q: got %v want %v", test.input, !test.output, test.output)
		}
	}
}

func TestContainsAndPreview(t *testing.T) {
	parts := []string{"GET", "OPTIONS"}
	if !Contains(parts, "GET") || Contains(parts, "POST") {
		t.Errorf("bad contains")
	}
	if PreviewString(true) != "preview: " || PreviewString(false) != "" {
		t.Errorf("bad preview string")
	}
}
