package domain

import (
	"math"
	"time"
)

// Reference tariffs used to convert currency amounts into coverage percents.
const (
	// SessionReferenceTariff is the reference price of one natural-medicine
	// session in currency units.
	SessionReferenceTariff = 120.0

	// NightlyReferenceRate is the reference price of one hospital night in
	// currency units.
	NightlyReferenceRate = 1500.0
)

// DefaultBirthDate is assumed when a policy carries no birth date.
const DefaultBirthDate = "2000-01-01"

// BirthDateLayout is the wire format of PolicyInput.BirthDate.
const BirthDateLayout = "2006-01-02"

// PolicyInput is the structured description of one policy, as produced by
// the extraction step. All fields are optional on the wire; missing values
// take the documented defaults.
type PolicyInput struct {
	NaturalMedicine NaturalMedicineRecord `json:"natural_medicine"`
	Hospitalization HospitalizationRecord `json:"hospitalization"`
	Travel          TravelRecord          `json:"travel"`
	Outpatient      OutpatientRecord      `json:"outpatient"`
	Accident        AccidentRecord        `json:"accident"`
	Dental          DentalRecord          `json:"dental"`

	// BirthDate is used only to compute the insured's age for the dental
	// orthodontics rule.
	BirthDate string `json:"birth_date,omitempty"`
}

// NaturalMedicineRecord describes natural-medicine coverage. The coverage
// percent may be given directly or as a per-session reimbursement amount.
type NaturalMedicineRecord struct {
	CoveragePercent  *float64 `json:"coverage_percent,omitempty"`
	AmountPerSession *float64 `json:"amount_per_session,omitempty"`
	SessionCap       int      `json:"session_cap"`
	Deductible       float64  `json:"deductible"`
}

// EffectiveCoveragePercent resolves the coverage percent: a directly supplied
// percent wins, otherwise it is derived from the per-session amount against
// the session reference tariff, rounded to 2 decimals. Both absent means 0.
func (r NaturalMedicineRecord) EffectiveCoveragePercent() float64 {
	if r.CoveragePercent != nil {
		return *r.CoveragePercent
	}
	if r.AmountPerSession != nil {
		return math.Round(*r.AmountPerSession/SessionReferenceTariff*100*100) / 100
	}
	return 0
}

// HospitalizationRecord describes hospital-stay coverage. Coverage holds
// either a percent or a daily currency amount; values above 100 are read as
// currency.
type HospitalizationRecord struct {
	WardType            WardType `json:"ward_type"`
	Coverage            float64  `json:"coverage"`
	Deductible          float64  `json:"deductible"`
	Insurer             string   `json:"insurer,omitempty"`
	VoluntaryDeductible bool     `json:"voluntary_deductible"`
}

// CoveragePercent disambiguates the coverage field by magnitude: values above
// 100 are daily currency amounts converted against the nightly reference
// rate, anything else is already a percent.
func (r HospitalizationRecord) CoveragePercent() float64 {
	if r.Coverage > 100 {
		return r.Coverage / NightlyReferenceRate * 100
	}
	return r.Coverage
}

// TravelRecord describes travel coverage.
type TravelRecord struct {
	EmergencyTreatment bool `json:"emergency_treatment"`
	Repatriation       bool `json:"repatriation"`
	Cancellation       bool `json:"cancellation"`
}

// OutpatientRecord describes outpatient coverage over the fixed service set.
type OutpatientRecord struct {
	Services         map[string]CoverageLevel `json:"services,omitempty"`
	CostSharePercent float64                  `json:"cost_share_percent"`
}

// OutpatientServiceKeys returns the fixed outpatient service set.
func OutpatientServiceKeys() []string {
	return []string{"glasses", "psychotherapy", "off_list_medication", "transport", "rescue"}
}

// ServiceLevels returns a complete copy of the services map over the fixed
// key set. Missing or unrecognized levels are reported as absent.
func (r OutpatientRecord) ServiceLevels() map[string]CoverageLevel {
	levels := make(map[string]CoverageLevel, 5)
	for _, key := range OutpatientServiceKeys() {
		level, ok := r.Services[key]
		if !ok || !level.IsValid() {
			level = ABSENT
		}
		levels[key] = level
	}
	return levels
}

// AccidentRecord describes accident coverage.
type AccidentRecord struct {
	PrivateClinic          bool `json:"private_clinic"`
	SupplementaryBenefits  bool `json:"supplementary_benefits"`
	DeathDisabilityCapital bool `json:"death_disability_capital"`
}

// DentalRecord describes dental coverage.
type DentalRecord struct {
	CoveragePercent    float64 `json:"coverage_percent"`
	Cap                float64 `json:"cap"`
	Deductible         float64 `json:"deductible"`
	OrthodonticsAmount float64 `json:"orthodontics_amount"`
}

// AgeYears computes the insured's age in whole years at the given time, as
// elapsed days divided by 365. The boolean is false when the birth date does
// not parse; an unparseable date must not fail an evaluation.
func (p *PolicyInput) AgeYears(now time.Time) (int, bool) {
	birth, err := time.Parse(BirthDateLayout, p.BirthDate)
	if err != nil {
		return 0, false
	}
	days := int(now.Sub(birth).Hours() / 24)
	return days / 365, true
}

// WithDefaults returns a normalized deep copy of the policy: documented
// defaults filled in, negative numbers reset to zero, enum values reduced to
// the defined sets. The receiver is not modified.
func (p *PolicyInput) WithDefaults() *PolicyInput {
	out := *p

	if out.NaturalMedicine.CoveragePercent != nil {
		v := nonNegative(*out.NaturalMedicine.CoveragePercent)
		out.NaturalMedicine.CoveragePercent = &v
	}
	if out.NaturalMedicine.AmountPerSession != nil {
		v := nonNegative(*out.NaturalMedicine.AmountPerSession)
		out.NaturalMedicine.AmountPerSession = &v
	}
	if out.NaturalMedicine.SessionCap < 0 {
		out.NaturalMedicine.SessionCap = 0
	}
	out.NaturalMedicine.Deductible = nonNegative(out.NaturalMedicine.Deductible)

	if !out.Hospitalization.WardType.IsValid() {
		out.Hospitalization.WardType = COMMON
	}
	out.Hospitalization.Coverage = nonNegative(out.Hospitalization.Coverage)
	out.Hospitalization.Deductible = nonNegative(out.Hospitalization.Deductible)

	out.Outpatient.Services = out.Outpatient.ServiceLevels()
	out.Outpatient.CostSharePercent = nonNegative(out.Outpatient.CostSharePercent)

	out.Dental.CoveragePercent = nonNegative(out.Dental.CoveragePercent)
	out.Dental.Cap = nonNegative(out.Dental.Cap)
	out.Dental.Deductible = nonNegative(out.Dental.Deductible)
	out.Dental.OrthodonticsAmount = nonNegative(out.Dental.OrthodonticsAmount)

	if out.BirthDate == "" {
		out.BirthDate = DefaultBirthDate
	}

	return &out
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
