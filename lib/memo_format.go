package lib

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/buger/goterm"
	"github.com/dustin/go-humanize"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// memoImageSize is the length of a string payload, or of the json encoding of
// any other value.
func memoImageSize(imageData any) int {
	switch v := imageData.(type) {
	case nil:
		return 0
	case string:
		return len(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return 0
		}
		return len(data)
	}
}

// MemoLine renders one memo for terminal listings.
func MemoLine(m Memo, loc *time.Location, now time.Time, color bool) string {
	status := "pending"
	if !m.Pending() {
		status = MemoStatusCompleted
	}
	if color {
		if m.Pending() {
			status = goterm.Color(status, goterm.YELLOW)
		} else {
			status = goterm.Color(status, goterm.GREEN)
		}
	}
	age := "-"
	createdAt, err := ParseMemoTimestamp(m.CreatedAt, loc)
	if err == nil {
		age = strings.ReplaceAll(humanize.RelTime(createdAt, now, "ago", "from now"), " ", "-")
	}
	return fmt.Sprintf(
		"%s %s created=%s done=%s age=%s size=%s",
		m.MemoID,
		status,
		orDash(m.CreatedAt),
		orDash(m.DoneAt),
		age,
		strings.ReplaceAll(humanize.Bytes(uint64(memoImageSize(m.ImageData))), " ", ""),
	)
}

// SortMemos orders memos oldest first. The timestamp format sorts
// lexically, ties and missing timestamps fall back to memoId.
func SortMemos(memos []Memo) {
	sort.SliceStable(memos, func(i, j int) bool {
		if memos[i].CreatedAt != memos[j].CreatedAt {
			return memos[i].CreatedAt < memos[j].CreatedAt
		}
		return memos[i].MemoID < memos[j].MemoID
	})
}
