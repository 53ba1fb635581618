package service

import (
	"github.com/sirupsen/logrus"

	"github.com/policy-rating-engine/internal/domain"
	"github.com/policy-rating-engine/pkg/coerce"
)

// Normalizer converts raw, extraction-shaped policy data into the typed
// PolicyInput contract. The extraction step emits French field names and
// loose leaf values (string numbers, keyword booleans, enum synonyms);
// canonical English keys are accepted as well and win when both spellings
// are present. Normalization never fails: bad leaves get the documented
// defaults.
type Normalizer struct {
	logger *logrus.Logger
}

// NewNormalizer creates a normalizer.
func NewNormalizer(logger *logrus.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// wardSynonyms are matched by substring in order; semi-privé must come before
// privé or every semi-private ward would read as private.
var wardSynonyms = []struct {
	match string
	ward  domain.WardType
}{
	{"semi-privé", domain.SEMI_PRIVATE},
	{"semi-prive", domain.SEMI_PRIVATE},
	{"semi_private", domain.SEMI_PRIVATE},
	{"mi-privé", domain.SEMI_PRIVATE},
	{"mi-prive", domain.SEMI_PRIVATE},
	{"privé", domain.PRIVATE},
	{"prive", domain.PRIVATE},
	{"private", domain.PRIVATE},
	{"commune", domain.COMMON},
	{"common", domain.COMMON},
	{"general", domain.COMMON},
	{"générale", domain.COMMON},
}

// levelSynonyms are matched the same way; the negated forms must come before
// their stems (illimité before limité, unlimited before limited).
var levelSynonyms = []struct {
	match string
	level domain.CoverageLevel
}{
	{"illimité", domain.UNLIMITED},
	{"illimite", domain.UNLIMITED},
	{"unlimited", domain.UNLIMITED},
	{"limité", domain.LIMITED},
	{"limite", domain.LIMITED},
	{"limited", domain.LIMITED},
	{"absent", domain.ABSENT},
	{"aucun", domain.ABSENT},
	{"none", domain.ABSENT},
}

// serviceAliases maps the French outpatient service names from the source
// documents to the canonical service keys.
var serviceAliases = map[string]string{
	"lunettes":               "glasses",
	"psychotherapie":         "psychotherapy",
	"medicaments_hors_liste": "off_list_medication",
	"transport":              "transport",
	"sauvetage":              "rescue",
}

// Normalize builds a PolicyInput from raw extraction output. The result
// carries nil pointers where a field was genuinely absent, so the engine's
// default rules still apply downstream.
func (n *Normalizer) Normalize(raw map[string]any) *domain.PolicyInput {
	if raw == nil {
		raw = map[string]any{}
	}

	policy := &domain.PolicyInput{
		NaturalMedicine: n.naturalMedicine(subRecord(raw, "natural_medicine", "medecine_naturelle")),
		Hospitalization: n.hospitalization(subRecord(raw, "hospitalization", "hospitalisation")),
		Travel:          n.travel(subRecord(raw, "travel", "voyage")),
		Outpatient:      n.outpatient(subRecord(raw, "outpatient", "ambulatoire")),
		Accident:        n.accident(subRecord(raw, "accident", "accident")),
		Dental:          n.dental(subRecord(raw, "dental", "dentaire")),
	}

	if v, ok := field(raw, "birth_date", "date_naissance"); ok {
		if s, ok := v.(string); ok {
			policy.BirthDate = s
		}
	}

	n.logger.WithFields(logrus.Fields{
		"ward_type":  policy.Hospitalization.WardType.String(),
		"birth_date": policy.BirthDate,
	}).Debug("Normalized raw policy data")

	return policy
}

func (n *Normalizer) naturalMedicine(raw map[string]any) domain.NaturalMedicineRecord {
	record := domain.NaturalMedicineRecord{
		SessionCap: coerce.Int(fieldOr(raw, nil, "session_cap", "plafond"), 0),
		Deductible: coerce.Float(fieldOr(raw, nil, "deductible", "franchise"), 0),
	}
	if v, ok := field(raw, "coverage_percent", "etendue"); ok {
		record.CoveragePercent = coerce.FloatPtr(v)
	}
	if v, ok := field(raw, "amount_per_session", "montant_par_seance"); ok {
		record.AmountPerSession = coerce.FloatPtr(v)
	}
	return record
}

func (n *Normalizer) hospitalization(raw map[string]any) domain.HospitalizationRecord {
	record := domain.HospitalizationRecord{
		WardType:            domain.COMMON,
		Coverage:            coerce.Float(fieldOr(raw, nil, "coverage", "etendue"), 0),
		Deductible:          coerce.Float(fieldOr(raw, nil, "deductible", "franchise"), 0),
		VoluntaryDeductible: coerce.Bool(fieldOr(raw, nil, "voluntary_deductible", "franchise_volontaire")),
	}
	if v, ok := field(raw, "insurer", "compagnie"); ok {
		if s, ok := v.(string); ok {
			record.Insurer = s
		}
	}
	if v, ok := field(raw, "ward_type", "type"); ok {
		record.WardType = parseWard(v)
	}
	return record
}

func (n *Normalizer) travel(raw map[string]any) domain.TravelRecord {
	return domain.TravelRecord{
		EmergencyTreatment: coerce.Bool(fieldOr(raw, nil, "emergency_treatment", "traitement_urgence")),
		Repatriation:       coerce.Bool(fieldOr(raw, nil, "repatriation", "rapatriement")),
		Cancellation:       coerce.Bool(fieldOr(raw, nil, "cancellation", "annulation")),
	}
}

func (n *Normalizer) outpatient(raw map[string]any) domain.OutpatientRecord {
	record := domain.OutpatientRecord{
		CostSharePercent: coerce.Float(fieldOr(raw, nil, "cost_share_percent", "participation"), 0),
	}

	services, _ := field(raw, "services", "prestations")
	rawServices, ok := services.(map[string]any)
	if !ok {
		return record
	}

	record.Services = make(map[string]domain.CoverageLevel)
	for _, key := range domain.OutpatientServiceKeys() {
		if v, ok := rawServices[key]; ok {
			record.Services[key] = parseLevel(v)
		}
	}
	for alias, key := range serviceAliases {
		if _, done := record.Services[key]; done {
			continue
		}
		if v, ok := rawServices[alias]; ok {
			record.Services[key] = parseLevel(v)
		}
	}
	return record
}

func (n *Normalizer) accident(raw map[string]any) domain.AccidentRecord {
	return domain.AccidentRecord{
		PrivateClinic:          coerce.Bool(fieldOr(raw, nil, "private_clinic", "clinique_privee")),
		SupplementaryBenefits:  coerce.Bool(fieldOr(raw, nil, "supplementary_benefits", "prestations_supplementaires")),
		DeathDisabilityCapital: coerce.Bool(fieldOr(raw, nil, "death_disability_capital", "capital_deces_invalidite")),
	}
}

func (n *Normalizer) dental(raw map[string]any) domain.DentalRecord {
	return domain.DentalRecord{
		CoveragePercent:    coerce.Float(fieldOr(raw, nil, "coverage_percent", "etendue"), 0),
		Cap:                coerce.Float(fieldOr(raw, nil, "cap", "plafond"), 0),
		Deductible:         coerce.Float(fieldOr(raw, nil, "deductible", "franchise"), 0),
		OrthodonticsAmount: coerce.Float(fieldOr(raw, nil, "orthodontics_amount", "orthodontie"), 0),
	}
}

func parseWard(value any) domain.WardType {
	ward := coerce.String(value, wardMatches(), "")
	for _, synonym := range wardSynonyms {
		if synonym.match == ward {
			return synonym.ward
		}
	}
	return domain.COMMON
}

func parseLevel(value any) domain.CoverageLevel {
	level := coerce.String(value, levelMatches(), "")
	for _, synonym := range levelSynonyms {
		if synonym.match == level {
			return synonym.level
		}
	}
	return domain.ABSENT
}

func wardMatches() []string {
	matches := make([]string, len(wardSynonyms))
	for i, synonym := range wardSynonyms {
		matches[i] = synonym.match
	}
	return matches
}

func levelMatches() []string {
	matches := make([]string, len(levelSynonyms))
	for i, synonym := range levelSynonyms {
		matches[i] = synonym.match
	}
	return matches
}

// subRecord fetches a nested object by its English or French key. A missing
// or mistyped sub-record yields an empty map, which normalizes to the
// zero-value record.
func subRecord(raw map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if sub, ok := v.(map[string]any); ok {
				return sub
			}
		}
	}
	return map[string]any{}
}

// field fetches a leaf value by the first matching key.
func field(raw map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// fieldOr is field with a fallback value instead of an ok flag.
func fieldOr(raw map[string]any, fallback any, keys ...string) any {
	if v, ok := field(raw, keys...); ok {
		return v
	}
	return fallback
}
