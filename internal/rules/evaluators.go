package rules

import (
	"strings"

	"github.com/policy-rating-engine/internal/domain"
)

// Rule thresholds shared by the category ladders.
const (
	// kptInsurer names the insurer whose voluntary-deductible contracts get
	// the special hospitalization treatment.
	kptInsurer = "kpt"

	// childAgeLimit is the age in whole years under which the dental
	// orthodontics protection applies.
	childAgeLimit = 12

	// childOrthodonticsMinimum is the minimum orthodontics capital a child
	// policy must carry to escape the dental protection override.
	childOrthodonticsMinimum = 10000.0
)

// evaluateNaturalMedicine rates natural-medicine coverage. The coverage
// percent is resolved from either the direct percent or the per-session
// amount before the ladder runs.
func (e *Engine) evaluateNaturalMedicine(policy *domain.PolicyInput) domain.CategoryResult {
	record := policy.NaturalMedicine
	coverage := record.EffectiveCoveragePercent()

	details := map[string]any{
		"coverage_percent": coverage,
		"session_cap":      record.SessionCap,
		"deductible":       record.Deductible,
	}

	var color domain.Color
	switch {
	case coverage >= 80 && record.SessionCap >= 20 && record.Deductible == 0:
		color = domain.GREEN
	case coverage >= 50 && coverage < 80 && record.SessionCap >= 10 && record.SessionCap < 20 && record.Deductible < 200:
		color = domain.ORANGE
	default:
		color = domain.RED
	}

	return domain.CategoryResult{Name: domain.NATURAL_MEDICINE, Color: color, Details: details}
}

// evaluateHospitalization rates hospital-stay coverage. Coverage values above
// 100 are read as daily currency amounts and converted against the nightly
// reference rate. KPT contracts with a voluntary deductible get a dedicated
// override before the general ladder.
func (e *Engine) evaluateHospitalization(policy *domain.PolicyInput) domain.CategoryResult {
	record := policy.Hospitalization
	coverage := record.CoveragePercent()

	details := map[string]any{
		"ward_type":        record.WardType.String(),
		"coverage_percent": coverage,
		"deductible":       record.Deductible,
	}

	if strings.ToLower(record.Insurer) == kptInsurer && record.VoluntaryDeductible {
		if record.WardType == domain.PRIVATE && coverage <= 0 {
			details["special_case"] = "kpt_voluntary_deductible"
			return domain.CategoryResult{Name: domain.HOSPITALIZATION, Color: domain.GREEN, Details: details}
		}
		if record.WardType == domain.SEMI_PRIVATE && coverage <= 10 {
			details["special_case"] = "kpt_voluntary_deductible"
			return domain.CategoryResult{Name: domain.HOSPITALIZATION, Color: domain.ORANGE, Details: details}
		}
	}

	var color domain.Color
	switch {
	case record.WardType == domain.PRIVATE && coverage <= 0 && record.Deductible == 0:
		color = domain.GREEN
	case record.WardType == domain.SEMI_PRIVATE && coverage <= 10:
		color = domain.ORANGE
	default:
		color = domain.RED
	}

	return domain.CategoryResult{Name: domain.HOSPITALIZATION, Color: color, Details: details}
}

// evaluateTravel rates travel coverage from the three benefit flags.
func (e *Engine) evaluateTravel(policy *domain.PolicyInput) domain.CategoryResult {
	record := policy.Travel

	details := map[string]any{
		"emergency_treatment": record.EmergencyTreatment,
		"repatriation":        record.Repatriation,
		"cancellation":        record.Cancellation,
	}

	var color domain.Color
	switch {
	case record.EmergencyTreatment && record.Repatriation && record.Cancellation:
		color = domain.GREEN
	case record.EmergencyTreatment && record.Repatriation:
		color = domain.ORANGE
	default:
		color = domain.RED
	}

	return domain.CategoryResult{Name: domain.TRAVEL, Color: color, Details: details}
}

// evaluateOutpatient rates outpatient coverage over the fixed service set.
// The ladder does not partition all combinations; anything not enumerated
// falls through to Red, including mixed limited/unlimited coverage with a
// low cost share.
func (e *Engine) evaluateOutpatient(policy *domain.PolicyInput) domain.CategoryResult {
	record := policy.Outpatient
	levels := record.ServiceLevels()

	allUnlimited := true
	allLimited := true
	anyAbsent := false
	for _, level := range levels {
		if level != domain.UNLIMITED {
			allUnlimited = false
		}
		if level != domain.LIMITED {
			allLimited = false
		}
		if level == domain.ABSENT {
			anyAbsent = true
		}
	}

	services := make(map[string]any, len(levels))
	for key, level := range levels {
		services[key] = level.String()
	}
	details := map[string]any{
		"services":           services,
		"cost_share_percent": record.CostSharePercent,
	}

	var color domain.Color
	switch {
	case allUnlimited && record.CostSharePercent <= 10:
		color = domain.GREEN
	case allUnlimited:
		color = domain.ORANGE
	case allLimited && record.CostSharePercent <= 10:
		color = domain.ORANGE
	case !anyAbsent && record.CostSharePercent > 10:
		color = domain.RED
	case anyAbsent:
		color = domain.RED
	default:
		color = domain.RED
	}

	return domain.CategoryResult{Name: domain.OUTPATIENT_CARE, Color: color, Details: details}
}

// evaluateAccident rates accident coverage from the three benefit flags.
// Private-clinic access alone is worth Orange; adding exactly one of the
// other two benefits drops to Red.
func (e *Engine) evaluateAccident(policy *domain.PolicyInput) domain.CategoryResult {
	record := policy.Accident

	details := map[string]any{
		"private_clinic":           record.PrivateClinic,
		"supplementary_benefits":   record.SupplementaryBenefits,
		"death_disability_capital": record.DeathDisabilityCapital,
	}

	var color domain.Color
	switch {
	case record.PrivateClinic && record.SupplementaryBenefits && record.DeathDisabilityCapital:
		color = domain.GREEN
	case record.PrivateClinic && !record.SupplementaryBenefits && !record.DeathDisabilityCapital:
		color = domain.ORANGE
	default:
		color = domain.RED
	}

	return domain.CategoryResult{Name: domain.ACCIDENT, Color: color, Details: details}
}

// evaluateDental rates dental coverage. Children under twelve without a
// sufficient orthodontics capital are rated Red regardless of the other
// values; an unparseable birth date never fails the evaluation, the subject
// is simply not treated as a child.
func (e *Engine) evaluateDental(policy *domain.PolicyInput) domain.CategoryResult {
	record := policy.Dental

	age, known := policy.AgeYears(e.now())
	isChild := known && age < childAgeLimit

	details := map[string]any{
		"coverage_percent":    record.CoveragePercent,
		"cap":                 record.Cap,
		"deductible":          record.Deductible,
		"orthodontics_amount": record.OrthodonticsAmount,
		"is_child":            isChild,
	}

	var color domain.Color
	switch {
	case isChild && record.OrthodonticsAmount < childOrthodonticsMinimum:
		details["child_protection"] = true
		color = domain.RED
	case record.CoveragePercent >= 75 && record.Cap >= 3000 && record.Deductible == 0:
		color = domain.GREEN
	case record.CoveragePercent >= 50 && record.Cap >= 1000 && record.Deductible < 200:
		color = domain.ORANGE
	default:
		color = domain.RED
	}

	return domain.CategoryResult{Name: domain.DENTAL, Color: color, Details: details}
}
