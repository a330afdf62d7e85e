package monitor

import (
	"testing"

	"stockwatch/internal/models"
)

func obsWithChange(change float64) *models.PriceObservation {
	return &models.PriceObservation{ClosePrice: 100, PercentChange: &change}
}

func TestShouldAlert(t *testing.T) {
	cases := []struct {
		name      string
		threshold float64
		obs       *models.PriceObservation
		want      bool
	}{
		{"above threshold up", 3.0, obsWithChange(4.0), true},
		{"above threshold down", 3.0, obsWithChange(-4.0), true},
		{"exactly at threshold", 3.0, obsWithChange(3.0), true},
		{"exactly at negative threshold", 3.0, obsWithChange(-3.0), true},
		{"below threshold", 3.0, obsWithChange(2.99), false},
		{"below negative threshold", 3.0, obsWithChange(-2.99), false},
		{"zero change", 3.0, obsWithChange(0.0), false},
		{"no change computed", 3.0, &models.PriceObservation{ClosePrice: 100}, false},
		{"nil observation", 3.0, nil, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ShouldAlert(c.threshold, c.obs); got != c.want {
				t.Errorf("ShouldAlert(%v, %+v) = %v, want %v", c.threshold, c.obs, got, c.want)
			}
		})
	}
}
