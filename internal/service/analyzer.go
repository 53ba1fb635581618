// Package service orchestrates the rating pipeline around the rule engine:
// input normalization, analysis caching and rectification by analysis ID.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/policy-rating-engine/internal/domain"
	"github.com/policy-rating-engine/internal/metrics"
	"github.com/policy-rating-engine/internal/rules"
)

// DefaultCacheSize bounds the analysis caches when the configuration does not
// say otherwise.
const DefaultCacheSize = 1000

// CacheStats reports analysis cache performance for health endpoints.
type CacheStats struct {
	CachedAnalyses int   `json:"cached_analyses"`
	Hits           int64 `json:"hits"`
	Misses         int64 `json:"misses"`
	HashHits       int64 `json:"hash_hits"`
}

// AnalyzerService runs the full rating pipeline. Completed analyses are kept
// in a bounded LRU so rectification can refer back to them by ID, and a
// second cache keyed by policy content hash makes re-analysis of the same
// policy idempotent.
type AnalyzerService struct {
	engine     *rules.Engine
	normalizer *Normalizer
	metrics    *metrics.Metrics
	logger     *logrus.Logger

	analyses *lru.Cache[string, *domain.InsuranceAnalysis]
	byHash   *lru.Cache[string, string]

	statsMu sync.Mutex
	stats   CacheStats
}

// NewAnalyzerService creates an analyzer service with caches bounded to
// maxEntries (DefaultCacheSize when zero or negative).
func NewAnalyzerService(engine *rules.Engine, normalizer *Normalizer, m *metrics.Metrics, logger *logrus.Logger, maxEntries int) (*AnalyzerService, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}

	analyses, err := lru.New[string, *domain.InsuranceAnalysis](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("creating analysis cache: %w", err)
	}
	byHash, err := lru.New[string, string](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("creating hash cache: %w", err)
	}

	return &AnalyzerService{
		engine:     engine,
		normalizer: normalizer,
		metrics:    m,
		logger:     logger,
		analyses:   analyses,
		byHash:     byHash,
	}, nil
}

// AnalyzeRaw normalizes extraction-shaped policy data and analyzes it.
func (s *AnalyzerService) AnalyzeRaw(ctx context.Context, raw map[string]any) (*domain.InsuranceAnalysis, error) {
	return s.AnalyzeInput(ctx, s.normalizer.Normalize(raw))
}

// AnalyzeInput evaluates a typed policy. The same policy content returns the
// cached analysis instead of a fresh one.
func (s *AnalyzerService) AnalyzeInput(ctx context.Context, policy *domain.PolicyInput) (*domain.InsuranceAnalysis, error) {
	if policy == nil {
		return nil, domain.ErrNilPolicy
	}

	normalized := policy.WithDefaults()
	hash, err := policyHash(normalized)
	if err == nil {
		if id, ok := s.byHash.Get(hash); ok {
			if analysis, ok := s.analyses.Get(id); ok {
				s.recordHashHit()
				s.logger.WithFields(logrus.Fields{
					"analysis_id": analysis.AnalysisID,
					"policy_hash": hash,
				}).Debug("Returning cached analysis for identical policy")
				return analysis, nil
			}
		}
	}

	start := time.Now()
	analysis, err := s.engine.Evaluate(ctx, normalized)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	analysis.AnalysisID = uuid.New().String()
	s.analyses.Add(analysis.AnalysisID, analysis)
	if hash != "" {
		s.byHash.Add(hash, analysis.AnalysisID)
	}
	s.metrics.ObserveAnalysis(analysis.OverallTier.String(), duration)
	s.metrics.SetCachedAnalyses(s.analyses.Len())

	s.logger.WithFields(logrus.Fields{
		"analysis_id":  analysis.AnalysisID,
		"overall_tier": analysis.OverallTier.String(),
		"duration_ms":  duration.Milliseconds(),
	}).Info("Analyzed policy")

	return analysis, nil
}

// Rectify looks up a prior analysis by ID and recomputes its tier without
// the excluded categories. The rectified analysis gets its own ID and is
// cached like any other.
func (s *AnalyzerService) Rectify(ctx context.Context, analysisID string, exclusions []string) (*domain.InsuranceAnalysis, error) {
	analysis, ok := s.analyses.Get(analysisID)
	if !ok {
		s.recordMiss()
		return nil, fmt.Errorf("rectifying analysis %q: %w", analysisID, domain.ErrAnalysisNotFound)
	}
	s.recordHit()

	return s.RectifyResults(ctx, analysis.Categories, exclusions)
}

// RectifyResults rectifies an explicit category result set, for callers that
// kept the prior analysis themselves.
func (s *AnalyzerService) RectifyResults(ctx context.Context, categories []domain.CategoryResult, exclusions []string) (*domain.InsuranceAnalysis, error) {
	rectified, err := s.engine.Rectify(ctx, categories, exclusions)
	if err != nil {
		return nil, err
	}

	rectified.AnalysisID = uuid.New().String()
	s.analyses.Add(rectified.AnalysisID, rectified)
	s.metrics.ObserveRectification()
	s.metrics.SetCachedAnalyses(s.analyses.Len())

	s.logger.WithFields(logrus.Fields{
		"analysis_id":  rectified.AnalysisID,
		"overall_tier": rectified.OverallTier.String(),
		"categories":   len(rectified.Categories),
	}).Info("Rectified analysis")

	return rectified, nil
}

// GetAnalysis returns a cached analysis by ID.
func (s *AnalyzerService) GetAnalysis(analysisID string) (*domain.InsuranceAnalysis, error) {
	analysis, ok := s.analyses.Get(analysisID)
	if !ok {
		s.recordMiss()
		return nil, fmt.Errorf("loading analysis %q: %w", analysisID, domain.ErrAnalysisNotFound)
	}
	s.recordHit()
	return analysis, nil
}

// CacheStats returns a snapshot of cache performance.
func (s *AnalyzerService) CacheStats() CacheStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	stats := s.stats
	stats.CachedAnalyses = s.analyses.Len()
	return stats
}

func (s *AnalyzerService) recordHit() {
	s.statsMu.Lock()
	s.stats.Hits++
	s.statsMu.Unlock()
}

func (s *AnalyzerService) recordMiss() {
	s.statsMu.Lock()
	s.stats.Misses++
	s.statsMu.Unlock()
}

func (s *AnalyzerService) recordHashHit() {
	s.statsMu.Lock()
	s.stats.HashHits++
	s.stats.Hits++
	s.statsMu.Unlock()
}

// policyHash fingerprints a normalized policy for idempotent re-analysis.
func policyHash(policy *domain.PolicyInput) (string, error) {
	payload, err := json.Marshal(policy)
	if err != nil {
		return "", fmt.Errorf("hashing policy: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
