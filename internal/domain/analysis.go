package domain

import (
	"fmt"
	"time"
)

// CategoryResult is the rating of one coverage category together with the
// facts that drove the decision. Results are immutable once produced.
type CategoryResult struct {
	Name    Category       `json:"name"`
	Color   Color          `json:"color"`
	Details map[string]any `json:"details"`
}

// Validate ensures the category result could have come out of an evaluation.
func (r *CategoryResult) Validate() error {
	if !r.Name.IsValid() {
		return fmt.Errorf("category result validation: %w: %q", ErrInvalidCategory, r.Name)
	}
	if !r.Color.IsValid() {
		return fmt.Errorf("category result validation: %w: %q", ErrInvalidColor, r.Color)
	}
	return nil
}

// LogFields returns structured logging fields for the result.
func (r *CategoryResult) LogFields() map[string]any {
	return map[string]any{
		"category": r.Name.String(),
		"color":    r.Color.String(),
	}
}

// InsuranceAnalysis is the full rating of one policy: the overall tier plus
// the per-category results in fixed category order. Rectification produces a
// new analysis with fewer categories; an analysis is never mutated.
type InsuranceAnalysis struct {
	AnalysisID  string           `json:"analysis_id"`
	OverallTier Tier             `json:"overall_tier"`
	Categories  []CategoryResult `json:"categories"`
	AnalyzedAt  time.Time        `json:"analyzed_at"`
}

// Validate ensures the analysis is internally consistent: a known tier and a
// non-empty, duplicate-free set of valid category results.
func (a *InsuranceAnalysis) Validate() error {
	if !a.OverallTier.IsValid() {
		return fmt.Errorf("analysis validation: %w: %q", ErrInvalidTier, a.OverallTier)
	}
	if len(a.Categories) == 0 {
		return fmt.Errorf("analysis validation: %w", ErrEmptyCategorySet)
	}
	seen := make(map[Category]bool, len(a.Categories))
	for i := range a.Categories {
		if err := a.Categories[i].Validate(); err != nil {
			return err
		}
		if seen[a.Categories[i].Name] {
			return fmt.Errorf("analysis validation: %w: duplicate category %q", ErrInvalidCategorySet, a.Categories[i].Name)
		}
		seen[a.Categories[i].Name] = true
	}
	return nil
}

// Category returns the result for the named category, or nil when the
// category is not part of the analysis (for example after rectification).
func (a *InsuranceAnalysis) Category(name Category) *CategoryResult {
	for i := range a.Categories {
		if a.Categories[i].Name == name {
			return &a.Categories[i]
		}
	}
	return nil
}
