package rules

import (
	"github.com/policy-rating-engine/internal/domain"
)

// CountColors counts the Orange and Red ratings among the given results.
func CountColors(results []domain.CategoryResult) (orange, red int) {
	for i := range results {
		switch results[i].Color {
		case domain.ORANGE:
			orange++
		case domain.RED:
			red++
		}
	}
	return orange, red
}

// ComputeTier derives the overall tier from the category results. The tier
// depends only on how many Orange and Red ratings there are, never on which
// categories hold them: no Orange and no Red is Gold, at most one Red with at
// most three Orange is Silver, everything else is Bronze.
func ComputeTier(results []domain.CategoryResult) domain.Tier {
	orange, red := CountColors(results)

	switch {
	case orange == 0 && red == 0:
		return domain.GOLD
	case red <= 1 && orange <= 3:
		return domain.SILVER
	default:
		return domain.BRONZE
	}
}
