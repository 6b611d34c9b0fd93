package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gqlab/restaurant-board/app/dataset"
	"github.com/gqlab/restaurant-board/app/feedback"
	"github.com/gqlab/restaurant-board/app/sheet"
)

// NewHandler wires the HTTP handlers. submitter may be nil, which disables
// feedback submission.
func NewHandler(registry *dataset.Registry, cache TableCacheInterface,
	submitter SubmitterInterface, sheetBaseURL string, version string) *Handler {
	return &Handler{
		registry:     registry,
		cache:        cache,
		submitter:    submitter,
		sheetBaseURL: sheetBaseURL,
		version:      version,
	}
}

// GetDataset returns a dataset's display table, filtered when q is non-blank
func (h *Handler) GetDataset(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing dataset name parameter"})
		return
	}

	config, err := h.registry.GetConfig(name)
	if err != nil {
		slog.Error("Dataset configuration not found", "dataset", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	}

	url := config.ExportURL(h.sheetBaseURL)
	table, err := h.cache.GetOrFetch(c.Request.Context(), url, config.CacheTTL())
	if err != nil {
		h.respondLoadError(c, name, err)
		return
	}

	transformer := sheet.NewTransformer(config.LinkColumn, config.LinkTargets)

	response := gin.H{
		"dataset": config.Name,
		"title":   config.Title,
		"table":   transformer.Transform(table),
		"search":  nil,
	}

	if entry, ok := h.cache.Entry(url); ok {
		response["fetched_at"] = entry.FetchedAt.Format(time.RFC3339)
	}

	term := c.Query("q")
	if !sheet.IsBlankTerm(term) {
		// Match raw values so link targets never match on URLs added for display.
		filtered := sheet.Filter(table, term)
		response["search"] = gin.H{
			"term":  term,
			"count": filtered.Len(),
			"table": transformer.Transform(filtered),
		}
	}

	c.JSON(http.StatusOK, response)
}

// ListDatasets returns all configured datasets
func (h *Handler) ListDatasets(c *gin.Context) {
	configs := h.registry.GetConfigs()

	datasets := make([]gin.H, 0, len(configs))
	for _, config := range configs {
		info := gin.H{
			"name":  config.Name,
			"title": config.Title,
			"ttl":   config.CacheTTL().String(),
		}

		if entry, ok := h.cache.Entry(config.ExportURL(h.sheetBaseURL)); ok {
			info["fetched_at"] = entry.FetchedAt.Format(time.RFC3339)
			info["rows"] = entry.Table.Len()
		}

		datasets = append(datasets, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"datasets": datasets,
		"total":    len(datasets),
	})
}

// GetFeedbackTypes returns the feedback options and rating bounds
func (h *Handler) GetFeedbackTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"enabled": h.submitter != nil,
		"types":   feedback.Types,
		"rating": gin.H{
			"min":     feedback.MinRating,
			"max":     feedback.MaxRating,
			"default": feedback.DefaultRating,
		},
	})
}

// SubmitFeedback validates and appends one feedback row
func (h *Handler) SubmitFeedback(c *gin.Context) {
	if h.submitter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Feedback submission is not configured"})
		return
	}

	var req feedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	sub := feedback.Submission{
		UserName: req.UserName,
		Rating:   feedback.DefaultRating,
		Type:     feedback.Type(req.Type),
		Text:     req.Text,
	}
	if req.Rating != nil {
		sub.Rating = *req.Rating
	}

	result, err := h.submitter.Submit(c.Request.Context(), sub)
	if err != nil {
		var validationErr *feedback.ValidationError
		var submissionErr *feedback.SubmissionError

		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": validationErr.Message,
				"field": validationErr.Field,
			})
		case errors.As(err, &submissionErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": submissionErr.Message})
		default:
			slog.Error("Unexpected feedback error", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": result.Message,
		"id":      result.Record.ID,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":        time.Now().In(time.Local).Format(time.RFC3339),
		"version":          h.version,
		"datasets":         h.registry.GetConfigCount(),
		"cached_tables":    h.cache.Len(),
		"feedback_enabled": h.submitter != nil,
	})
}

// APIRefreshDataset drops the cached table and fetches it again
func (h *Handler) APIRefreshDataset(c *gin.Context) {
	name := c.Param("name")

	config, err := h.registry.GetConfig(name)
	if err != nil {
		slog.Error("Dataset configuration not found", "dataset", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	}

	url := config.ExportURL(h.sheetBaseURL)
	h.cache.Invalidate(url)

	table, err := h.cache.GetOrFetch(c.Request.Context(), url, config.CacheTTL())
	if err != nil {
		h.respondLoadError(c, name, err)
		return
	}

	slog.Info("Dataset refreshed", "dataset", name, "rows", table.Len())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dataset": name,
		"rows":    table.Len(),
		"columns": len(table.Columns),
	})
}

func (h *Handler) respondLoadError(c *gin.Context, name string, err error) {
	var loadErr *sheet.DataLoadError
	if errors.As(err, &loadErr) {
		slog.Error("Table load error", "dataset", name, "url", loadErr.URL, "error", loadErr.Err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "데이터를 불러오는 데 실패했습니다.",
			"details": loadErr.Err.Error(),
		})
		return
	}

	slog.Error("Unexpected table error", "dataset", name, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}
