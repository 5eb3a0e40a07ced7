package lib

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

const (
	MemoKeyID        = "memoId"
	MemoKeyImageData = "imageData"
	MemoKeyCreatedAt = "createdAt"
	MemoKeyStatus    = "status"
	MemoKeyDoneAt    = "doneAt"

	MemoStatusCompleted = "completed"

	// yyyy/MM/ddTHH:mm:ss
	MemoTimestampLayout = "2006/01/02T15:04:05"
)

// Memo is the typed view of a record. Records are schemaless beyond memoId,
// so handlers pass raw items through and only the cli decodes into Memo.
// ImageData holds whatever value was created, usually a string.
type Memo struct {
	MemoID    string `json:"memoId"              dynamodbav:"memoId"`
	ImageData any    `json:"imageData,omitempty" dynamodbav:"imageData,omitempty"`
	CreatedAt string `json:"createdAt,omitempty" dynamodbav:"createdAt,omitempty"`
	Status    string `json:"status,omitempty"    dynamodbav:"status,omitempty"`
	DoneAt    string `json:"doneAt,omitempty"    dynamodbav:"doneAt,omitempty"`
}

// Pending is true until the record has been completed. A missing status
// means pending.
func (m *Memo) Pending() bool {
	return m.Status != MemoStatusCompleted
}

func MemoLocation(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*60*60)
}

func FormatMemoTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(MemoTimestampLayout)
}

func ParseMemoTimestamp(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(MemoTimestampLayout, s, loc)
}

func NewMemoID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
