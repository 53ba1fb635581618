// Package domain contains the core business entities and types for
// health-insurance policy coverage rating: the policy input contract,
// per-category results, and the overall analysis.
package domain

import (
	"errors"
	"strings"
)

// Color represents the per-category coverage rating.
// Green is the best rating, Red the worst.
type Color string

const (
	GREEN  Color = "Green"
	ORANGE Color = "Orange"
	RED    Color = "Red"
)

// Tier represents the overall policy rating derived from the
// per-category colors. Gold is the best tier, Bronze the worst.
type Tier string

const (
	GOLD   Tier = "Gold"
	SILVER Tier = "Silver"
	BRONZE Tier = "Bronze"
)

// Category represents one of the six fixed coverage dimensions of a policy.
type Category string

const (
	NATURAL_MEDICINE Category = "Natural Medicine"
	HOSPITALIZATION  Category = "Hospitalization"
	TRAVEL           Category = "Travel"
	OUTPATIENT_CARE  Category = "Outpatient Care"
	ACCIDENT         Category = "Accident"
	DENTAL           Category = "Dental"
)

// WardType represents the hospital ward class a policy covers.
type WardType string

const (
	PRIVATE      WardType = "private"
	SEMI_PRIVATE WardType = "semi_private"
	COMMON       WardType = "common"
)

// CoverageLevel represents how an outpatient service is covered.
type CoverageLevel string

const (
	UNLIMITED CoverageLevel = "unlimited"
	LIMITED   CoverageLevel = "limited"
	ABSENT    CoverageLevel = "absent"
)

// Validation errors for rating data integrity
var (
	ErrNilPolicy          = errors.New("policy input is nil")
	ErrInvalidColor       = errors.New("invalid category color")
	ErrInvalidTier        = errors.New("invalid overall tier")
	ErrInvalidCategory    = errors.New("invalid category name")
	ErrAnalysisNotFound   = errors.New("analysis not found")
	ErrEmptyCategorySet   = errors.New("category result set is empty")
	ErrInvalidCategorySet = errors.New("category result set was not produced by an evaluation")
)

// IsValid reports whether the color is one of the three defined ratings.
func (c Color) IsValid() bool {
	switch c {
	case GREEN, ORANGE, RED:
		return true
	default:
		return false
	}
}

// String returns the string representation of the color.
func (c Color) String() string {
	return string(c)
}

// IsValid reports whether the tier is one of the three defined ratings.
func (t Tier) IsValid() bool {
	switch t {
	case GOLD, SILVER, BRONZE:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// Rank returns the numeric rank of the tier, higher is better.
// Gold=3, Silver=2, Bronze=1, unknown=0.
func (t Tier) Rank() int {
	switch t {
	case GOLD:
		return 3
	case SILVER:
		return 2
	case BRONZE:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether the category is one of the six fixed dimensions.
func (cat Category) IsValid() bool {
	switch cat {
	case NATURAL_MEDICINE, HOSPITALIZATION, TRAVEL, OUTPATIENT_CARE, ACCIDENT, DENTAL:
		return true
	default:
		return false
	}
}

// String returns the display name of the category.
func (cat Category) String() string {
	return string(cat)
}

// IsOptional reports whether the category may be excluded during
// rectification. Only Natural Medicine, Travel and Accident are optional.
func (cat Category) IsOptional() bool {
	switch cat {
	case NATURAL_MEDICINE, TRAVEL, ACCIDENT:
		return true
	default:
		return false
	}
}

// Categories returns the six categories in their fixed evaluation order.
func Categories() []Category {
	return []Category{
		NATURAL_MEDICINE,
		HOSPITALIZATION,
		TRAVEL,
		OUTPATIENT_CARE,
		ACCIDENT,
		DENTAL,
	}
}

// categoryAliases maps lower-cased spellings seen in extraction output and
// legacy clients to canonical categories. French names come from the
// source documents the extraction step reads.
var categoryAliases = map[string]Category{
	"natural medicine":   NATURAL_MEDICINE,
	"natural_medicine":   NATURAL_MEDICINE,
	"naturalmedicine":    NATURAL_MEDICINE,
	"medecine naturelle": NATURAL_MEDICINE,
	"medecine_naturelle": NATURAL_MEDICINE,
	"médecine naturelle": NATURAL_MEDICINE,
	"hospitalization":    HOSPITALIZATION,
	"hospitalisation":    HOSPITALIZATION,
	"travel":             TRAVEL,
	"travelinsurance":    TRAVEL,
	"voyage":             TRAVEL,
	"outpatient care":    OUTPATIENT_CARE,
	"outpatient_care":    OUTPATIENT_CARE,
	"outpatient":         OUTPATIENT_CARE,
	"ambulatoire":        OUTPATIENT_CARE,
	"accident":           ACCIDENT,
	"dental":             DENTAL,
	"dentaire":           DENTAL,
}

// ParseCategory resolves a category name, accepting canonical display names,
// snake_case keys and the French source spellings. The boolean reports
// whether the name was recognized.
func ParseCategory(name string) (Category, bool) {
	cat, ok := categoryAliases[strings.ToLower(strings.TrimSpace(name))]
	return cat, ok
}

// IsValid reports whether the ward type is one of the defined classes.
func (w WardType) IsValid() bool {
	switch w {
	case PRIVATE, SEMI_PRIVATE, COMMON:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ward type.
func (w WardType) String() string {
	return string(w)
}

// IsValid reports whether the coverage level is one of the defined values.
func (cl CoverageLevel) IsValid() bool {
	switch cl {
	case UNLIMITED, LIMITED, ABSENT:
		return true
	default:
		return false
	}
}

// String returns the string representation of the coverage level.
func (cl CoverageLevel) String() string {
	return string(cl)
}
