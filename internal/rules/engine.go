// Package rules implements the policy rating rules: six category evaluators,
// the overall tier aggregation and the rectification of prior results.
package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/policy-rating-engine/internal/domain"
)

// categoryEvaluator binds a category to its rating function.
type categoryEvaluator struct {
	category domain.Category
	evaluate func(policy *domain.PolicyInput) domain.CategoryResult
}

// Engine evaluates policies against the category rule set. Evaluators are
// pure functions; the engine holds no state between calls.
type Engine struct {
	logger     *logrus.Logger
	now        func() time.Time
	evaluators []categoryEvaluator
}

// NewEngine creates a rule engine with the six category evaluators in their
// fixed evaluation order.
func NewEngine(logger *logrus.Logger) *Engine {
	engine := &Engine{
		logger: logger,
		now:    time.Now,
	}

	engine.evaluators = []categoryEvaluator{
		{domain.NATURAL_MEDICINE, engine.evaluateNaturalMedicine},
		{domain.HOSPITALIZATION, engine.evaluateHospitalization},
		{domain.TRAVEL, engine.evaluateTravel},
		{domain.OUTPATIENT_CARE, engine.evaluateOutpatient},
		{domain.ACCIDENT, engine.evaluateAccident},
		{domain.DENTAL, engine.evaluateDental},
	}

	return engine
}

// Evaluate rates every category of the policy and aggregates the overall
// tier. The input is read through a normalized copy and never modified.
// Missing or malformed leaf values fall back to the documented defaults
// rather than failing the evaluation; the only error is a nil policy.
func (e *Engine) Evaluate(ctx context.Context, policy *domain.PolicyInput) (*domain.InsuranceAnalysis, error) {
	if policy == nil {
		return nil, domain.ErrNilPolicy
	}

	normalized := policy.WithDefaults()
	e.logger.WithField("birth_date", normalized.BirthDate).Debug("Evaluating policy")

	results := make([]domain.CategoryResult, 0, len(e.evaluators))
	for _, ev := range e.evaluators {
		result := ev.evaluate(normalized)
		e.logger.WithFields(logrus.Fields(result.LogFields())).Debug("Evaluated category")
		results = append(results, result)
	}

	tier := ComputeTier(results)
	orange, red := CountColors(results)

	e.logger.WithFields(logrus.Fields{
		"overall_tier": tier.String(),
		"orange_count": orange,
		"red_count":    red,
	}).Info("Completed policy evaluation")

	return &domain.InsuranceAnalysis{
		OverallTier: tier,
		Categories:  results,
		AnalyzedAt:  e.now().UTC(),
	}, nil
}

// Rectify recomputes the overall tier over the given category results after
// removing the named exclusions. Only categories already rated are filtered;
// nothing is re-evaluated. Unknown exclusion names are ignored. The category
// set must be one an evaluation could have produced, otherwise an error is
// returned.
func (e *Engine) Rectify(ctx context.Context, categories []domain.CategoryResult, exclusions []string) (*domain.InsuranceAnalysis, error) {
	if len(categories) == 0 {
		return nil, domain.ErrEmptyCategorySet
	}

	seen := make(map[domain.Category]bool, len(categories))
	for i := range categories {
		if err := categories[i].Validate(); err != nil {
			return nil, err
		}
		if seen[categories[i].Name] {
			return nil, fmt.Errorf("%w: duplicate category %q", domain.ErrInvalidCategorySet, categories[i].Name)
		}
		seen[categories[i].Name] = true
	}

	excluded := make(map[domain.Category]bool, len(exclusions))
	for _, name := range exclusions {
		cat, ok := domain.ParseCategory(name)
		if !ok {
			e.logger.WithField("exclusion", name).Debug("Ignoring unknown exclusion name")
			continue
		}
		excluded[cat] = true
	}

	filtered := make([]domain.CategoryResult, 0, len(categories))
	for _, result := range categories {
		if !excluded[result.Name] {
			filtered = append(filtered, result)
		}
	}

	tier := ComputeTier(filtered)

	e.logger.WithFields(logrus.Fields{
		"excluded":     len(categories) - len(filtered),
		"remaining":    len(filtered),
		"overall_tier": tier.String(),
	}).Info("Rectified analysis")

	return &domain.InsuranceAnalysis{
		OverallTier: tier,
		Categories:  filtered,
		AnalyzedAt:  e.now().UTC(),
	}, nil
}
