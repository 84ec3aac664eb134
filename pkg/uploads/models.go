package uploads

import (
	"strings"
	"time"
)

const (
	StatusAwaitingProcessing = "Awaiting Processing"
	StatusProcessed          = "Processed"
	StatusError              = "Error"
)

// Upload records one received spreadsheet and the outcome of validating it.
// Errors holds the validation messages joined by newlines.
type Upload struct {
	ID         uint      `json:"id" gorm:"primaryKey;column:id"`
	Filename   string    `json:"filename" gorm:"column:filename;type:text;not null"`
	StoredPath string    `json:"-" gorm:"column:stored_path;size:500"`
	Status     string    `json:"status" gorm:"column:status;size:50;not null;index"`
	Errors     string    `json:"errors" gorm:"column:errors;type:text"`
	Created    int       `json:"created" gorm:"column:created"`
	Updated    int       `json:"updated" gorm:"column:updated"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Upload) TableName() string {
	return "uploads"
}

func (u *Upload) IsError() bool {
	return u.Status == StatusError
}

// ErrorList splits Errors back into messages.
func (u *Upload) ErrorList() []string {
	if u.Errors == "" {
		return []string{}
	}
	return strings.Split(u.Errors, "\n")
}

func (u *Upload) setErrors(messages []string) {
	u.Errors = strings.Join(messages, "\n")
	if len(messages) > 0 {
		u.Status = StatusError
	} else {
		u.Status = StatusAwaitingProcessing
	}
}
