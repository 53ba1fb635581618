package rules

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/policy-rating-engine/internal/domain"
)

func newTestEngine() *Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	engine := NewEngine(logger)
	// Pin the clock so age-dependent rules are deterministic.
	engine.now = func() time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	return engine
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestEvaluateNaturalMedicine(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name     string
		record   domain.NaturalMedicineRecord
		expected domain.Color
	}{
		{
			name:     "high coverage with generous cap and no deductible is green",
			record:   domain.NaturalMedicineRecord{CoveragePercent: floatPtr(85), SessionCap: 25},
			expected: domain.GREEN,
		},
		{
			name:     "green boundary values",
			record:   domain.NaturalMedicineRecord{CoveragePercent: floatPtr(80), SessionCap: 20},
			expected: domain.GREEN,
		},
		{
			name:     "green coverage with deductible falls through orange to red",
			record:   domain.NaturalMedicineRecord{CoveragePercent: floatPtr(85), SessionCap: 25, Deductible: 50},
			expected: domain.RED,
		},
		{
			name:     "mid coverage with mid cap is orange",
			record:   domain.NaturalMedicineRecord{CoveragePercent: floatPtr(60), SessionCap: 15, Deductible: 100},
			expected: domain.ORANGE,
		},
		{
			name:     "orange lower boundary",
			record:   domain.NaturalMedicineRecord{CoveragePercent: floatPtr(50), SessionCap: 10, Deductible: 199},
			expected: domain.ORANGE,
		},
		{
			name:     "orange deductible boundary excluded",
			record:   domain.NaturalMedicineRecord{CoveragePercent: floatPtr(60), SessionCap: 15, Deductible: 200},
			expected: domain.RED,
		},
		{
			name:     "mid coverage with green-level cap misses both rungs",
			record:   domain.NaturalMedicineRecord{CoveragePercent: floatPtr(60), SessionCap: 25},
			expected: domain.RED,
		},
		{
			name:     "derived percent from per-session amount reaches green",
			record:   domain.NaturalMedicineRecord{AmountPerSession: floatPtr(120), SessionCap: 20},
			expected: domain.GREEN,
		},
		{
			name:     "empty record is red",
			record:   domain.NaturalMedicineRecord{},
			expected: domain.RED,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := &domain.PolicyInput{NaturalMedicine: tt.record}
			result := engine.evaluateNaturalMedicine(policy)

			if result.Name != domain.NATURAL_MEDICINE {
				t.Errorf("Expected category %s, got %s", domain.NATURAL_MEDICINE, result.Name)
			}
			if result.Color != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result.Color)
			}
		})
	}
}

func TestEvaluateHospitalization(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name     string
		record   domain.HospitalizationRecord
		expected domain.Color
	}{
		{
			name:     "private ward fully covered with no deductible is green",
			record:   domain.HospitalizationRecord{WardType: domain.PRIVATE, Coverage: 0, Deductible: 0},
			expected: domain.GREEN,
		},
		{
			name:     "private ward with deductible is red",
			record:   domain.HospitalizationRecord{WardType: domain.PRIVATE, Coverage: 0, Deductible: 100},
			expected: domain.RED,
		},
		{
			name:     "semi private with low cost share is orange",
			record:   domain.HospitalizationRecord{WardType: domain.SEMI_PRIVATE, Coverage: 10},
			expected: domain.ORANGE,
		},
		{
			name:     "semi private above ten percent is red",
			record:   domain.HospitalizationRecord{WardType: domain.SEMI_PRIVATE, Coverage: 11},
			expected: domain.RED,
		},
		{
			name:     "daily amount converts before the ladder",
			record:   domain.HospitalizationRecord{WardType: domain.SEMI_PRIVATE, Coverage: 150},
			expected: domain.ORANGE,
		},
		{
			name:     "common ward is red",
			record:   domain.HospitalizationRecord{WardType: domain.COMMON},
			expected: domain.RED,
		},
		{
			name:     "kpt voluntary deductible private is green despite deductible",
			record:   domain.HospitalizationRecord{WardType: domain.PRIVATE, Coverage: 0, Deductible: 500, Insurer: "KPT", VoluntaryDeductible: true},
			expected: domain.GREEN,
		},
		{
			name:     "kpt voluntary deductible semi private is orange",
			record:   domain.HospitalizationRecord{WardType: domain.SEMI_PRIVATE, Coverage: 10, Deductible: 500, Insurer: "kpt", VoluntaryDeductible: true},
			expected: domain.ORANGE,
		},
		{
			name:     "kpt without voluntary deductible gets no override",
			record:   domain.HospitalizationRecord{WardType: domain.PRIVATE, Coverage: 0, Deductible: 500, Insurer: "kpt"},
			expected: domain.RED,
		},
		{
			name:     "kpt override falls through on common ward",
			record:   domain.HospitalizationRecord{WardType: domain.COMMON, Insurer: "kpt", VoluntaryDeductible: true},
			expected: domain.RED,
		},
		{
			name:     "other insurer with voluntary deductible gets no override",
			record:   domain.HospitalizationRecord{WardType: domain.PRIVATE, Coverage: 0, Deductible: 300, Insurer: "helsana", VoluntaryDeductible: true},
			expected: domain.RED,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := &domain.PolicyInput{Hospitalization: tt.record}
			result := engine.evaluateHospitalization(policy)

			if result.Color != tt.expected {
				t.Errorf("Expected %s, got %s (details %v)", tt.expected, result.Color, result.Details)
			}
		})
	}
}

func TestEvaluateHospitalizationSpecialCaseTag(t *testing.T) {
	engine := newTestEngine()

	policy := &domain.PolicyInput{Hospitalization: domain.HospitalizationRecord{
		WardType:            domain.PRIVATE,
		Insurer:             "kpt",
		VoluntaryDeductible: true,
	}}
	result := engine.evaluateHospitalization(policy)

	if result.Details["special_case"] != "kpt_voluntary_deductible" {
		t.Errorf("Expected special case tag, got %v", result.Details["special_case"])
	}

	// The general ladder must not carry the tag.
	policy.Hospitalization.Insurer = "helsana"
	result = engine.evaluateHospitalization(policy)
	if _, tagged := result.Details["special_case"]; tagged {
		t.Error("Expected no special case tag for the general ladder")
	}
}

func TestEvaluateTravel(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name     string
		record   domain.TravelRecord
		expected domain.Color
	}{
		{"all benefits is green", domain.TravelRecord{EmergencyTreatment: true, Repatriation: true, Cancellation: true}, domain.GREEN},
		{"no cancellation is orange", domain.TravelRecord{EmergencyTreatment: true, Repatriation: true}, domain.ORANGE},
		{"missing repatriation is red", domain.TravelRecord{EmergencyTreatment: true, Cancellation: true}, domain.RED},
		{"missing emergency treatment is red", domain.TravelRecord{Repatriation: true, Cancellation: true}, domain.RED},
		{"no coverage is red", domain.TravelRecord{}, domain.RED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := &domain.PolicyInput{Travel: tt.record}
			result := engine.evaluateTravel(policy)

			if result.Color != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result.Color)
			}
		})
	}
}

func TestEvaluateOutpatient(t *testing.T) {
	engine := newTestEngine()

	allAt := func(level domain.CoverageLevel) map[string]domain.CoverageLevel {
		services := make(map[string]domain.CoverageLevel, 5)
		for _, key := range domain.OutpatientServiceKeys() {
			services[key] = level
		}
		return services
	}

	tests := []struct {
		name     string
		record   domain.OutpatientRecord
		expected domain.Color
	}{
		{
			name:     "all unlimited with low cost share is green",
			record:   domain.OutpatientRecord{Services: allAt(domain.UNLIMITED), CostSharePercent: 5},
			expected: domain.GREEN,
		},
		{
			name:     "all unlimited at the cost share boundary is green",
			record:   domain.OutpatientRecord{Services: allAt(domain.UNLIMITED), CostSharePercent: 10},
			expected: domain.GREEN,
		},
		{
			name:     "all unlimited with high cost share is orange",
			record:   domain.OutpatientRecord{Services: allAt(domain.UNLIMITED), CostSharePercent: 15},
			expected: domain.ORANGE,
		},
		{
			name:     "all limited with low cost share is orange",
			record:   domain.OutpatientRecord{Services: allAt(domain.LIMITED), CostSharePercent: 10},
			expected: domain.ORANGE,
		},
		{
			name:     "all limited with high cost share is red",
			record:   domain.OutpatientRecord{Services: allAt(domain.LIMITED), CostSharePercent: 11},
			expected: domain.RED,
		},
		{
			name: "mixed coverage with low cost share falls through to red",
			record: domain.OutpatientRecord{Services: map[string]domain.CoverageLevel{
				"glasses":             domain.UNLIMITED,
				"psychotherapy":       domain.LIMITED,
				"off_list_medication": domain.UNLIMITED,
				"transport":           domain.LIMITED,
				"rescue":              domain.UNLIMITED,
			}, CostSharePercent: 5},
			expected: domain.RED,
		},
		{
			name: "one absent service is red",
			record: domain.OutpatientRecord{Services: map[string]domain.CoverageLevel{
				"glasses":             domain.UNLIMITED,
				"psychotherapy":       domain.UNLIMITED,
				"off_list_medication": domain.UNLIMITED,
				"transport":           domain.UNLIMITED,
			}, CostSharePercent: 0},
			expected: domain.RED,
		},
		{
			name:     "empty record is red",
			record:   domain.OutpatientRecord{},
			expected: domain.RED,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := &domain.PolicyInput{Outpatient: tt.record}
			result := engine.evaluateOutpatient(policy)

			if result.Color != tt.expected {
				t.Errorf("Expected %s, got %s (details %v)", tt.expected, result.Color, result.Details)
			}
		})
	}
}

func TestEvaluateAccident(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name     string
		record   domain.AccidentRecord
		expected domain.Color
	}{
		{
			name:     "all benefits is green",
			record:   domain.AccidentRecord{PrivateClinic: true, SupplementaryBenefits: true, DeathDisabilityCapital: true},
			expected: domain.GREEN,
		},
		{
			name:     "private clinic alone is orange",
			record:   domain.AccidentRecord{PrivateClinic: true},
			expected: domain.ORANGE,
		},
		{
			name:     "private clinic with one extra benefit is red",
			record:   domain.AccidentRecord{PrivateClinic: true, SupplementaryBenefits: true},
			expected: domain.RED,
		},
		{
			name:     "no private clinic is red regardless of the rest",
			record:   domain.AccidentRecord{SupplementaryBenefits: true, DeathDisabilityCapital: true},
			expected: domain.RED,
		},
		{
			name:     "empty record is red",
			record:   domain.AccidentRecord{},
			expected: domain.RED,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := &domain.PolicyInput{Accident: tt.record}
			result := engine.evaluateAccident(policy)

			if result.Color != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result.Color)
			}
		})
	}
}

func TestEvaluateDental(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name      string
		record    domain.DentalRecord
		birthDate string
		expected  domain.Color
	}{
		{
			name:      "strong coverage with no deductible is green",
			record:    domain.DentalRecord{CoveragePercent: 80, Cap: 3500},
			birthDate: "1990-01-01",
			expected:  domain.GREEN,
		},
		{
			name:      "green boundary values",
			record:    domain.DentalRecord{CoveragePercent: 75, Cap: 3000},
			birthDate: "1990-01-01",
			expected:  domain.GREEN,
		},
		{
			name:      "mid coverage is orange",
			record:    domain.DentalRecord{CoveragePercent: 50, Cap: 1000, Deductible: 199},
			birthDate: "1990-01-01",
			expected:  domain.ORANGE,
		},
		{
			name:      "weak coverage is red",
			record:    domain.DentalRecord{CoveragePercent: 40, Cap: 500},
			birthDate: "1990-01-01",
			expected:  domain.RED,
		},
		{
			name:      "child without orthodontics capital is red despite green numbers",
			record:    domain.DentalRecord{CoveragePercent: 90, Cap: 5000, OrthodonticsAmount: 5000},
			birthDate: "2017-06-01",
			expected:  domain.RED,
		},
		{
			name:      "child with sufficient orthodontics capital escapes the override",
			record:    domain.DentalRecord{CoveragePercent: 90, Cap: 5000, OrthodonticsAmount: 12000},
			birthDate: "2017-06-01",
			expected:  domain.GREEN,
		},
		{
			name:      "twelve year old is not a child",
			record:    domain.DentalRecord{CoveragePercent: 90, Cap: 5000, OrthodonticsAmount: 0},
			birthDate: "2013-05-01",
			expected:  domain.GREEN,
		},
		{
			name:      "unparseable birth date disables the child rule",
			record:    domain.DentalRecord{CoveragePercent: 90, Cap: 5000, OrthodonticsAmount: 0},
			birthDate: "not-a-date",
			expected:  domain.GREEN,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := &domain.PolicyInput{Dental: tt.record, BirthDate: tt.birthDate}
			result := engine.evaluateDental(policy)

			if result.Color != tt.expected {
				t.Errorf("Expected %s, got %s (details %v)", tt.expected, result.Color, result.Details)
			}
		})
	}
}
