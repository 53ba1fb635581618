package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/policy-rating-engine/internal/domain"
)

// rectifyRequest is the body of POST /api/v1/rectify. Exactly one of
// AnalysisID, Policy or Categories must identify the categories to rectify.
type rectifyRequest struct {
	AnalysisID string                  `json:"analysis_id"`
	Policy     map[string]any          `json:"policy"`
	Categories []domain.CategoryResult `json:"categories"`
	Exclusions []string                `json:"exclusions"`
}

func (r *rectifyRequest) sourceCount() int {
	count := 0
	if r.AnalysisID != "" {
		count++
	}
	if r.Policy != nil {
		count++
	}
	if r.Categories != nil {
		count++
	}
	return count
}

// handleAnalyze evaluates a raw policy document against the rating rules.
func (s *Server) handleAnalyze(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "request body must be a policy JSON object")
		return
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "request body is not valid JSON: "+err.Error())
		return
	}

	analysis, err := s.analyzer.AnalyzeRaw(c.Request.Context(), raw)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer, err.Error())
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// handleRectify recomputes an overall tier without the excluded categories.
// The prior results come from a cached analysis ID, a re-submitted policy or
// an explicit category list.
func (s *Server) handleRectify(c *gin.Context) {
	var req rectifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid rectify request: "+err.Error())
		return
	}

	if req.sourceCount() != 1 {
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeInvalidInput,
			"exactly one of analysis_id, policy or categories is required")
		return
	}

	ctx := c.Request.Context()

	var (
		rectified *domain.InsuranceAnalysis
		err       error
	)
	switch {
	case req.AnalysisID != "":
		rectified, err = s.analyzer.Rectify(ctx, req.AnalysisID, req.Exclusions)
	case req.Policy != nil:
		var analysis *domain.InsuranceAnalysis
		analysis, err = s.analyzer.AnalyzeRaw(ctx, req.Policy)
		if err == nil {
			rectified, err = s.analyzer.RectifyResults(ctx, analysis.Categories, req.Exclusions)
		}
	default:
		rectified, err = s.analyzer.RectifyResults(ctx, req.Categories, req.Exclusions)
	}

	if err != nil {
		s.respondRectifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, rectified)
}

// handleGetAnalysis returns a previously computed analysis by ID.
func (s *Server) handleGetAnalysis(c *gin.Context) {
	analysis, err := s.analyzer.GetAnalysis(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisNotFound) {
			s.respondError(c, http.StatusNotFound, domain.ErrCodeAnalysisNotFound, err.Error())
			return
		}
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer, err.Error())
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	stats := s.analyzer.CacheStats()

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"version":        Version,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"cache":          stats,
		"timestamp":      time.Now().UTC(),
	})
}

func (s *Server) respondRectifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAnalysisNotFound):
		s.respondError(c, http.StatusNotFound, domain.ErrCodeAnalysisNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyCategorySet),
		errors.Is(err, domain.ErrInvalidCategorySet),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidColor):
		s.respondError(c, http.StatusBadRequest, domain.ErrCodeRectification, err.Error())
	default:
		s.respondError(c, http.StatusInternalServerError, domain.ErrCodeInternalServer, err.Error())
	}
}

func (s *Server) respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, domain.NewRatingError(code, message, "", c.GetString("correlation_id")))
}
