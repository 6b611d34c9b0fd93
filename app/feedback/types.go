package feedback

import (
	"fmt"
	"time"
)

const (
	AnonymousName    = "익명"
	SuccessMessage   = "피드백이 성공적으로 제출되었습니다!"
	TimestampLayout  = "2006-01-02 15:04:05"
	DefaultRating    = 3
	MinRating        = 1
	MaxRating        = 5
	DefaultWorksheet = "feedback"
)

type Type string

const (
	TypeGeneralComment    Type = "general comment"
	TypeNewListing        Type = "new listing suggestion"
	TypeCorrectionRequest Type = "correction request"
	TypeFeatureSuggestion Type = "feature suggestion"
)

// Types lists the accepted feedback types in display order.
var Types = []Type{
	TypeGeneralComment,
	TypeNewListing,
	TypeCorrectionRequest,
	TypeFeatureSuggestion,
}

func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

type Submission struct {
	UserName string `json:"user_name" form:"user_name"`
	Rating   int    `json:"rating" form:"rating"`
	Type     Type   `json:"feedback_type" form:"feedback_type"`
	Text     string `json:"feedback_text" form:"feedback_text"`
}

type Record struct {
	ID        string
	Timestamp time.Time
	UserName  string
	Rating    int
	Type      Type
	Text      string
}

// Values returns the row appended to the feedback worksheet.
func (r Record) Values() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		r.UserName,
		fmt.Sprintf("%d", r.Rating),
		string(r.Type),
		r.Text,
	}
}

type Result struct {
	Record  Record
	Message string
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// SubmissionError carries a message safe to show to the user.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
