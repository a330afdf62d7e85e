// Package monitor coordinates price updates, threshold evaluation and news
// archiving for monitored stocks.
package monitor

import (
	"math"

	"stockwatch/internal/models"
)

// ShouldAlert reports whether an observation qualifies for an alert against
// the stock's threshold. The comparison is sign-agnostic and inclusive: a
// surge or drop whose magnitude equals the threshold fires. Observations
// without a computed change (first observation, zero previous close) never
// fire.
func ShouldAlert(threshold float64, obs *models.PriceObservation) bool {
	if obs == nil || obs.PercentChange == nil {
		return false
	}
	return math.Abs(*obs.PercentChange) >= threshold
}
