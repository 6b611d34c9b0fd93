package feedback

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Appender adds one row to the append-only feedback store.
type Appender interface {
	Append(ctx context.Context, values []string) error
}

type Submitter struct {
	appender Appender
	now      func() time.Time
}

func NewSubmitter(appender Appender) *Submitter {
	return &Submitter{
		appender: appender,
		now:      time.Now,
	}
}

// Submit validates s, then appends it once. Validation failures return a
// *ValidationError without touching the store; append failures return a
// *SubmissionError and are not retried.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (*Result, error) {
	if err := Validate(sub); err != nil {
		return nil, err
	}

	record := Record{
		ID:        uuid.New().String(),
		Timestamp: s.now(),
		UserName:  strings.TrimSpace(sub.UserName),
		Rating:    sub.Rating,
		Type:      sub.Type,
		Text:      sub.Text,
	}
	if record.UserName == "" {
		record.UserName = AnonymousName
	}

	if err := s.appender.Append(ctx, record.Values()); err != nil {
		slog.Error("Feedback submission failed", "id", record.ID, "type", record.Type, "error", err)

		var subErr *SubmissionError
		if errors.As(err, &subErr) {
			return nil, subErr
		}
		return nil, &SubmissionError{Message: "피드백 제출 중 오류가 발생했습니다", Err: err}
	}

	slog.Info("Feedback submitted", "id", record.ID, "type", record.Type, "rating", record.Rating)

	return &Result{
		Record:  record,
		Message: SuccessMessage,
	}, nil
}

func Validate(sub Submission) error {
	if strings.TrimSpace(sub.Text) == "" {
		return &ValidationError{Field: "feedback_text", Message: "missing feedback text"}
	}
	if sub.Rating < MinRating || sub.Rating > MaxRating {
		return &ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if !sub.Type.Valid() {
		return &ValidationError{Field: "feedback_type", Message: "unknown feedback type"}
	}
	return nil
}
