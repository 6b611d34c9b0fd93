package api

import (
	"context"
	"time"

	"github.com/gqlab/restaurant-board/app/dataset"
	"github.com/gqlab/restaurant-board/app/feedback"
	"github.com/gqlab/restaurant-board/app/sheet"
)

type TableCacheInterface interface {
	GetOrFetch(ctx context.Context, url string, ttl time.Duration) (*sheet.Table, error)
	Invalidate(url string)
	Entry(url string) (sheet.CacheEntry, bool)
	Len() int
}

type SubmitterInterface interface {
	Submit(ctx context.Context, sub feedback.Submission) (*feedback.Result, error)
}

var (
	_ TableCacheInterface = (*sheet.Cache)(nil)
	_ SubmitterInterface  = (*feedback.Submitter)(nil)
)

type Handler struct {
	registry     *dataset.Registry
	cache        TableCacheInterface
	submitter    SubmitterInterface
	sheetBaseURL string
	version      string
}

type feedbackRequest struct {
	UserName string `json:"user_name" form:"user_name"`
	Rating   *int   `json:"rating" form:"rating"`
	Type     string `json:"feedback_type" form:"feedback_type"`
	Text     string `json:"feedback_text" form:"feedback_text"`
}
